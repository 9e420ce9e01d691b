package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/i474232898/weather-insights/internal/analysis"
)

// SnapshotRow is the on-disk layout of one cleaned reading.
type SnapshotRow struct {
	CityName    string `parquet:"city_name"`
	Temperature int32  `parquet:"temperature"`
	Humidity    int32  `parquet:"humidity"`
	Description string `parquet:"description"`
	// ObservedAt is UTC epoch milliseconds.
	ObservedAt int64 `parquet:"data_noted_at,timestamp(millisecond)"`
	// ObservedLocal is RFC3339 in the reporting timezone.
	ObservedLocal string `parquet:"data_noted_local"`
}

// ParquetSnapshotter writes date-stamped parquet snapshots into a directory.
type ParquetSnapshotter struct {
	dir string
	loc *time.Location
	now func() time.Time
}

// NewParquetSnapshotter creates a snapshotter writing into dir, dating files in loc.
func NewParquetSnapshotter(dir string, loc *time.Location) *ParquetSnapshotter {
	if loc == nil {
		loc = time.UTC
	}
	return &ParquetSnapshotter{dir: dir, loc: loc, now: time.Now}
}

// Write stores t as <dir>/YYYY-MM-DD.parquet. Existing snapshots are never
// overwritten; a second run on the same day gets a YYYY-MM-DD-HHMMSS name.
func (s *ParquetSnapshotter) Write(t analysis.Table) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	now := s.now().In(s.loc)
	f, path, err := s.create(now)
	if err != nil {
		return "", err
	}

	w := parquet.NewGenericWriter[SnapshotRow](f)
	if _, err := w.Write(toRows(t)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write snapshot rows: %w", err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("finish snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	return path, nil
}

func (s *ParquetSnapshotter) create(now time.Time) (*os.File, string, error) {
	names := []string{
		now.Format("2006-01-02") + ".parquet",
		now.Format("2006-01-02-150405") + ".parquet",
	}
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("create snapshot: %w", err)
		}
		return f, path, nil
	}
	return nil, "", fmt.Errorf("create snapshot: %s already exists", names[len(names)-1])
}

func toRows(t analysis.Table) []SnapshotRow {
	readings := t.Rows()
	rows := make([]SnapshotRow, len(readings))
	for i, r := range readings {
		rows[i] = SnapshotRow{
			CityName:      r.CityName,
			Temperature:   int32(r.Temperature),
			Humidity:      int32(r.Humidity),
			Description:   r.Description,
			ObservedAt:    r.ObservedAt.UTC().UnixMilli(),
			ObservedLocal: r.ObservedAt.Format(time.RFC3339),
		}
	}
	return rows
}

// ReadSnapshot loads a snapshot written by ParquetSnapshotter.
func ReadSnapshot(path string) ([]SnapshotRow, error) {
	return parquet.ReadFile[SnapshotRow](path)
}
