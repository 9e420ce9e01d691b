package report

import (
	"io"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/i474232898/weather-insights/internal/analysis"
	"github.com/i474232898/weather-insights/internal/metrics"
	"github.com/i474232898/weather-insights/internal/weather"
)

const (
	staticWidth  = 12 * vg.Inch
	staticHeight = 10 * vg.Inch
	staticDPI    = 150
)

// StaticChart renders weather_report_YYYY-MM-DD.png with a temperature panel
// above a humidity panel, one line per city. An empty table renders nothing.
func (r *Reporter) StaticChart(t analysis.Table) (string, error) {
	if t.Empty() {
		r.noticef("No data available for plotting.")
		metrics.IncReportArtifact("static_chart", metrics.ResultSkipped)
		return "", nil
	}

	temp, err := r.panel(t, r.windowTitle("Temperature"), "Temperature (°C)",
		func(w weather.Reading) int { return w.Temperature }, draw.CircleGlyph{})
	if err != nil {
		return "", err
	}
	hum, err := r.panel(t, r.windowTitle("Humidity"), "Humidity (%)",
		func(w weather.Reading) int { return w.Humidity }, draw.CrossGlyph{})
	if err != nil {
		return "", err
	}

	path := r.path("weather_report", "png")
	err = r.writeFile("static_chart", path, func(w io.Writer) error {
		img := vgimg.NewWith(vgimg.UseWH(staticWidth, staticHeight), vgimg.UseDPI(staticDPI))
		dc := draw.New(img)

		plots := [][]*plot.Plot{{temp}, {hum}}
		tiles := draw.Tiles{Rows: 2, Cols: 1, PadTop: vg.Points(8), PadBottom: vg.Points(8), PadX: vg.Points(8), PadY: vg.Points(16)}
		canvases := plot.Align(plots, tiles, dc)
		for j := range plots {
			plots[j][0].Draw(canvases[j][0])
		}

		png := vgimg.PngCanvas{Canvas: img}
		_, err := png.WriteTo(w)
		return err
	})
	if err != nil {
		return "", err
	}

	r.logger.Info("static chart saved")
	r.noticef("Static report saved as %s", path)
	return path, nil
}

func (r *Reporter) panel(t analysis.Table, title, yLabel string, value func(weather.Reading) int, glyph draw.GlyphDrawer) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date/Time"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "01-02\n15:04",
		Time: func(v float64) time.Time {
			return time.Unix(int64(v), 0).In(r.loc)
		},
	}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	groups := t.GroupBy(analysis.ByCity)
	for i, city := range t.Cities() {
		rows := groups[city].Rows()
		pts := make(plotter.XYs, len(rows))
		for k, row := range rows {
			pts[k].X = float64(row.ObservedAt.Unix())
			pts[k].Y = float64(value(row))
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, err
		}
		c := plotutil.Color(i)
		line.Color = c
		points.Color = c
		points.Shape = glyph

		p.Add(line, points)
		p.Legend.Add(city, line, points)
	}
	return p, nil
}
