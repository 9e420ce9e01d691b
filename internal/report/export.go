package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/i474232898/weather-insights/internal/analysis"
	"github.com/i474232898/weather-insights/internal/metrics"
)

// Workbook renders weather_summary_YYYY-MM-DD.xlsx with an "averages" sheet and
// a "readings" sheet. An empty table renders nothing.
func (r *Reporter) Workbook(t analysis.Table, averages map[string]analysis.CityAverage) (string, error) {
	if t.Empty() {
		r.noticef("No data available for the workbook.")
		metrics.IncReportArtifact("workbook", metrics.ResultSkipped)
		return "", nil
	}

	path := r.path("weather_summary", "xlsx")
	err := r.writeFile("workbook", path, func(w io.Writer) error {
		f := excelize.NewFile()
		defer f.Close()

		avgSheet := "averages"
		rowsSheet := "readings"
		if err := f.SetSheetName("Sheet1", avgSheet); err != nil {
			return err
		}
		if _, err := f.NewSheet(rowsSheet); err != nil {
			return err
		}

		_ = f.SetCellValue(avgSheet, "A1", "City")
		_ = f.SetCellValue(avgSheet, "B1", "Temperature (°C)")
		_ = f.SetCellValue(avgSheet, "C1", "Humidity (%)")
		_ = f.SetCellValue(avgSheet, "D1", "Samples")
		cities := make([]string, 0, len(averages))
		for city := range averages {
			cities = append(cities, city)
		}
		sort.Strings(cities)
		for i, city := range cities {
			row := i + 2
			avg := averages[city]
			_ = f.SetCellValue(avgSheet, fmt.Sprintf("A%d", row), city)
			_ = f.SetCellValue(avgSheet, fmt.Sprintf("B%d", row), avg.Temperature)
			_ = f.SetCellValue(avgSheet, fmt.Sprintf("C%d", row), avg.Humidity)
			_ = f.SetCellValue(avgSheet, fmt.Sprintf("D%d", row), avg.Samples)
		}

		_ = f.SetCellValue(rowsSheet, "A1", "City")
		_ = f.SetCellValue(rowsSheet, "B1", "Temperature (°C)")
		_ = f.SetCellValue(rowsSheet, "C1", "Humidity (%)")
		_ = f.SetCellValue(rowsSheet, "D1", "Description")
		_ = f.SetCellValue(rowsSheet, "E1", "Observed At")
		for i, reading := range t.Rows() {
			row := i + 2
			_ = f.SetCellValue(rowsSheet, fmt.Sprintf("A%d", row), reading.CityName)
			_ = f.SetCellValue(rowsSheet, fmt.Sprintf("B%d", row), reading.Temperature)
			_ = f.SetCellValue(rowsSheet, fmt.Sprintf("C%d", row), reading.Humidity)
			_ = f.SetCellValue(rowsSheet, fmt.Sprintf("D%d", row), reading.Description)
			_ = f.SetCellValue(rowsSheet, fmt.Sprintf("E%d", row), reading.ObservedAt.Format(summaryTimeLayout))
		}

		return f.Write(w)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// PDFSummary renders the text summary into weather_summary_YYYY-MM-DD.pdf.
func (r *Reporter) PDFSummary(text string) (string, error) {
	path := r.path("weather_summary", "pdf")
	err := r.writeFile("pdf_summary", path, func(w io.Writer) error {
		pdf := gofpdf.New("P", "mm", "A4", "")
		// The core fonts are cp1252; this maps "°" and accented city names.
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		pdf.AddPage()

		pdf.SetFont("Courier", "", 9)
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			if strings.HasPrefix(line, "===") || strings.HasPrefix(line, "---") {
				pdf.SetFont("Courier", "B", 9)
				pdf.Cell(0, 5, tr(line))
				pdf.SetFont("Courier", "", 9)
			} else {
				pdf.Cell(0, 5, tr(line))
			}
			pdf.Ln(5)
		}

		return pdf.Output(w)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
