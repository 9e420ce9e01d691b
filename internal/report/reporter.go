package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-insights/internal/metrics"
)

// Reporter renders cleaned tables into files under dir. Notices such as
// "No data available for plotting." go to the notice writer.
type Reporter struct {
	dir    string
	days   int
	loc    *time.Location
	notice io.Writer
	logger *zap.Logger
	now    func() time.Time
}

// Config configures a Reporter.
type Config struct {
	OutputDir string
	// Days is the window length shown in titles.
	Days     int
	Location *time.Location
	Notice   io.Writer
}

// NewReporter creates a new Reporter.
func NewReporter(cfg Config, logger *zap.Logger) *Reporter {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Days <= 0 {
		cfg.Days = 7
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Notice == nil {
		cfg.Notice = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		dir:    cfg.OutputDir,
		days:   cfg.Days,
		loc:    cfg.Location,
		notice: cfg.Notice,
		logger: logger,
		now:    time.Now,
	}
}

// path builds <dir>/<prefix>_YYYY-MM-DD.<ext> dated in the reporting timezone.
func (r *Reporter) path(prefix, ext string) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s_%s.%s", prefix, r.now().In(r.loc).Format("2006-01-02"), ext))
}

func (r *Reporter) ensureDir() error {
	return os.MkdirAll(r.dir, 0o755)
}

func (r *Reporter) noticef(format string, args ...any) {
	fmt.Fprintf(r.notice, format+"\n", args...)
}

func (r *Reporter) windowTitle(metric string) string {
	return fmt.Sprintf("%s Over Past %d Days", metric, r.days)
}

// writeFile creates path and hands it to render; the file is removed if render fails.
func (r *Reporter) writeFile(kind, path string, render func(w io.Writer) error) error {
	if err := r.ensureDir(); err != nil {
		metrics.IncReportArtifact(kind, metrics.ResultError)
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		metrics.IncReportArtifact(kind, metrics.ResultError)
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		metrics.IncReportArtifact(kind, metrics.ResultError)
		return fmt.Errorf("render %s: %w", kind, err)
	}
	if err := f.Close(); err != nil {
		metrics.IncReportArtifact(kind, metrics.ResultError)
		return fmt.Errorf("close %s: %w", path, err)
	}
	metrics.IncReportArtifact(kind, metrics.ResultSuccess)
	return nil
}
