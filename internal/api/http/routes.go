package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-insights/internal/analysis"
	"github.com/i474232898/weather-insights/internal/weather"
)

var validate = validator.New()

const defaultDays = 7

// Deps are the components the handlers read from. Ingestor may be nil, in
// which case on-demand ingestion answers 503.
type Deps struct {
	Loader     *weather.WindowLoader
	Aggregator *analysis.Aggregator
	Ingestor   *weather.Ingestor
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/readings", func(c *fiber.Ctx) error {
		var q windowQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := deps.Loader.Load(c.UserContext(), q.Days)
		if err != nil {
			return storageError(err, "failed to load readings")
		}

		views := make([]weather.RecordView, len(records))
		for i, r := range records {
			views[i] = r.View()
		}
		return c.JSON(fiber.Map{
			"days":     q.Days,
			"count":    len(views),
			"readings": views,
		})
	})

	v1.Get("/summary", func(c *fiber.Ctx) error {
		var q windowQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := deps.Loader.Load(c.UserContext(), q.Days)
		if err != nil {
			return storageError(err, "failed to load readings")
		}

		// No snapshot is written for API reads.
		table, stats := analysis.Clean(records, deps.Aggregator.Location())
		return c.JSON(fiber.Map{
			"days":    q.Days,
			"summary": deps.Aggregator.Summarize(table, stats),
		})
	})

	v1.Post("/ingest", func(c *fiber.Ctx) error {
		if deps.Ingestor == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "ingestion is not configured")
		}

		q := ingestQuery{City: strings.TrimSpace(c.Query("city"))}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reading, err := deps.Ingestor.FetchAndStore(c.UserContext(), q.City)
		switch {
		case err == nil:
			return c.Status(fiber.StatusCreated).JSON(reading)
		case errors.Is(err, weather.ErrStorage) && reading != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   true,
				"message": "reading fetched but not stored",
				"reading": reading,
			})
		case errors.Is(err, weather.ErrNetwork):
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to ingest weather data")
		}
	})
}

func storageError(err error, msg string) error {
	if errors.Is(err, weather.ErrStorage) {
		return fiber.NewError(fiber.StatusServiceUnavailable, msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

// windowQuery holds the trailing window length in days.
type windowQuery struct {
	Days int `validate:"min=1,max=31"`
}

func (w *windowQuery) bind(c *fiber.Ctx) error {
	w.Days = defaultDays
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("days must be an integer")
		}
		w.Days = n
	}
	return validate.Struct(w)
}

// ingestQuery holds the city to ingest on demand.
type ingestQuery struct {
	City string `validate:"required,max=100"`
}
