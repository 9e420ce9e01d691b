package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-insights/internal/analysis"
	"github.com/i474232898/weather-insights/internal/weather"
)

// Runner drives one report: ensure schema, load the trailing window, clean,
// aggregate, print the summary and render every artifact.
type Runner struct {
	store      weather.Store
	loader     *weather.WindowLoader
	aggregator *analysis.Aggregator
	reporter   *Reporter
	out        io.Writer
	logger     *zap.Logger
}

// Result is what one Run produced.
type Result struct {
	RunID     string
	Summary   analysis.Summary
	Text      string
	Artifacts []string
}

// NewRunner creates a Runner printing the summary to out (stdout when nil).
func NewRunner(store weather.Store, aggregator *analysis.Aggregator, reporter *Reporter, out io.Writer, logger *zap.Logger) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		store:      store,
		loader:     weather.NewWindowLoader(store),
		aggregator: aggregator,
		reporter:   reporter,
		out:        out,
		logger:     logger,
	}
}

// Run never fails as a whole: each step that errors is logged and the run
// continues with what it has. A load failure reports on an empty table.
func (r *Runner) Run(ctx context.Context, days int) Result {
	res := Result{RunID: uuid.NewString()}
	log := r.logger.With(zap.String("run_id", res.RunID), zap.Int("days", days))

	if err := r.store.EnsureSchema(ctx); err != nil {
		log.Error("ensure schema failed", zap.Error(err))
	}

	records, err := r.loader.Load(ctx, days)
	if err != nil {
		log.Error("loading report window failed; reporting on empty data", zap.Error(err))
		records = nil
	}
	log.Info("report window loaded", zap.Int("records", len(records)))

	table, stats := r.aggregator.Prepare(records)
	res.Summary = r.aggregator.Summarize(table, stats)
	res.Text = r.reporter.TextSummary(res.Summary)
	fmt.Fprintln(r.out, res.Text)

	if path, err := r.reporter.StaticChart(table); err != nil {
		log.Error("static chart failed", zap.Error(err))
	} else if path != "" {
		res.Artifacts = append(res.Artifacts, path)
	}

	paths, err := r.reporter.InteractiveCharts(table)
	if err != nil {
		log.Error("interactive charts failed", zap.Error(err))
	}
	res.Artifacts = append(res.Artifacts, paths...)

	if path, err := r.reporter.Workbook(table, res.Summary.Averages); err != nil {
		log.Error("workbook export failed", zap.Error(err))
	} else if path != "" {
		res.Artifacts = append(res.Artifacts, path)
	}

	if path, err := r.reporter.PDFSummary(res.Text); err != nil {
		log.Error("pdf export failed", zap.Error(err))
	} else {
		res.Artifacts = append(res.Artifacts, path)
	}

	log.Info("report completed",
		zap.Int("rows", table.Len()),
		zap.Int("dropped", stats.Dropped()),
		zap.Strings("artifacts", res.Artifacts))
	return res
}
