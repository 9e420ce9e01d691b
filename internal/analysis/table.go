package analysis

import (
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// Table is an ordered, immutable set of cleaned readings.
type Table struct {
	rows []weather.Reading
}

// NewTable copies rows into a Table.
func NewTable(rows []weather.Reading) Table {
	cp := make([]weather.Reading, len(rows))
	copy(cp, rows)
	return Table{rows: cp}
}

func (t Table) Len() int {
	return len(t.rows)
}

func (t Table) Empty() bool {
	return len(t.rows) == 0
}

// Rows returns a copy of the rows in table order.
func (t Table) Rows() []weather.Reading {
	cp := make([]weather.Reading, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Filter keeps the rows for which keep returns true, preserving order.
func (t Table) Filter(keep func(weather.Reading) bool) Table {
	out := make([]weather.Reading, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Table{rows: out}
}

// Map returns a table with fn applied to every row.
func (t Table) Map(fn func(weather.Reading) weather.Reading) Table {
	out := make([]weather.Reading, len(t.rows))
	for i, r := range t.rows {
		out[i] = fn(r)
	}
	return Table{rows: out}
}

// GroupBy partitions the table by key. Each group keeps table order.
func (t Table) GroupBy(key func(weather.Reading) string) map[string]Table {
	groups := make(map[string]Table)
	for _, r := range t.rows {
		k := key(r)
		g := groups[k]
		g.rows = append(g.rows, r)
		groups[k] = g
	}
	return groups
}

// Cities returns the distinct city names in order of first appearance.
func (t Table) Cities() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.rows {
		if _, ok := seen[r.CityName]; ok {
			continue
		}
		seen[r.CityName] = struct{}{}
		out = append(out, r.CityName)
	}
	return out
}

func (t Table) Temperatures() []int {
	out := make([]int, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Temperature
	}
	return out
}

func (t Table) Humidities() []int {
	out := make([]int, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Humidity
	}
	return out
}

func (t Table) Times() []time.Time {
	out := make([]time.Time, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.ObservedAt
	}
	return out
}

func (t Table) Descriptions() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Description
	}
	return out
}

// ByCity is the GroupBy key for city name.
func ByCity(r weather.Reading) string {
	return r.CityName
}
