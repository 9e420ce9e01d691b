package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/i474232898/weather-insights/internal/analysis"
	"github.com/i474232898/weather-insights/internal/metrics"
	"github.com/i474232898/weather-insights/internal/weather"
)

const chartTimeLayout = "2006-01-02 15:04:05"

// InteractiveCharts renders temperature_report_YYYY-MM-DD.html and
// humidity_report_YYYY-MM-DD.html. An empty table renders nothing.
func (r *Reporter) InteractiveCharts(t analysis.Table) ([]string, error) {
	if t.Empty() {
		r.noticef("No data available for interactive plots.")
		metrics.IncReportArtifact("interactive_chart", metrics.ResultSkipped)
		return nil, nil
	}

	specs := []struct {
		prefix string
		title  string
		yLabel string
		value  func(weather.Reading) int
	}{
		{"temperature_report", r.windowTitle("Temperature"), "Temperature (°C)", func(w weather.Reading) int { return w.Temperature }},
		{"humidity_report", r.windowTitle("Humidity"), "Humidity (%)", func(w weather.Reading) int { return w.Humidity }},
	}

	var paths []string
	for _, s := range specs {
		line := r.lineChart(t, s.title, s.yLabel, s.value)
		path := r.path(s.prefix, "html")
		if err := r.writeFile("interactive_chart", path, func(w io.Writer) error {
			return line.Render(w)
		}); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	r.logger.Info("interactive charts saved")
	r.noticef("Interactive reports saved as %s and %s", paths[0], paths[1])
	return paths, nil
}

func (r *Reporter) lineChart(t analysis.Table, title, yLabel string, value func(weather.Reading) int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Orient: "horizontal", Left: "center", Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "time", Name: "Date/Time"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yLabel}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	groups := t.GroupBy(analysis.ByCity)
	for _, city := range t.Cities() {
		rows := groups[city].Rows()
		data := make([]opts.LineData, len(rows))
		for i, row := range rows {
			data[i] = opts.LineData{Value: []interface{}{row.ObservedAt.Format(chartTimeLayout), value(row)}}
		}
		line.AddSeries(city, data)
	}
	return line
}
