package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/i474232898/weather-insights/internal/analysis"
)

const (
	summaryTimeLayout = "2006-01-02 15:04:05 -07:00"
	noData            = "No data available."
)

// TextSummary formats the aggregates as a human-readable report.
func (r *Reporter) TextSummary(s analysis.Summary) string {
	return FormatSummary(r.days, s)
}

// FormatSummary formats s for a window of days.
func FormatSummary(days int, s analysis.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Weather Report (Past %d Days) ===\n", days)

	b.WriteString("\n--- Average Conditions by City ---\n")
	if len(s.Averages) == 0 {
		b.WriteString(noData + "\n")
	} else {
		cities := make([]string, 0, len(s.Averages))
		for city := range s.Averages {
			cities = append(cities, city)
		}
		sort.Strings(cities)

		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "City\tTemperature (°C)\tHumidity (%)\tSamples")
		for _, city := range cities {
			avg := s.Averages[city]
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%d\n", city, avg.Temperature, avg.Humidity, avg.Samples)
		}
		_ = tw.Flush()
	}

	b.WriteString("\n--- Weekly Highs ---\n")
	if s.Extremes == nil {
		b.WriteString(noData + "\n")
	} else {
		t, h := s.Extremes.Temperature, s.Extremes.Humidity
		fmt.Fprintf(&b, "Highest Temperature: %d°C in %s at %s\n", t.Value, t.City, t.ObservedAt.Format(summaryTimeLayout))
		fmt.Fprintf(&b, "Highest Humidity: %d%% in %s at %s\n", h.Value, h.City, h.ObservedAt.Format(summaryTimeLayout))
	}

	b.WriteString("\n--- Most Common Condition ---\n")
	if s.Dominant == nil {
		b.WriteString(noData + "\n")
	} else {
		fmt.Fprintf(&b, "%s (%d times)\n", s.Dominant.Description, s.Dominant.Count)
	}

	if dropped := s.Stats.Dropped(); dropped > 0 {
		b.WriteString("\n--- Data Quality ---\n")
		fmt.Fprintf(&b, "Discarded %d of %d rows (missing values: %d, temperature out of range: %d, humidity out of range: %d)\n",
			dropped, s.Stats.Input, s.Stats.DroppedMissing, s.Stats.DroppedTemperature, s.Stats.DroppedHumidity)
	}

	return b.String()
}
