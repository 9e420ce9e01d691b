package analysis

import (
	"math"
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// CityAverage is the mean temperature and humidity of one city, rounded to 2 decimals.
type CityAverage struct {
	Temperature float64 `json:"temperatureC"`
	Humidity    float64 `json:"humidityPercent"`
	Samples     int     `json:"samples"`
}

// WeeklyAverages groups the table by city and averages each metric.
func WeeklyAverages(t Table) map[string]CityAverage {
	groups := t.GroupBy(ByCity)
	out := make(map[string]CityAverage, len(groups))
	for city, g := range groups {
		out[city] = CityAverage{
			Temperature: round2(meanInts(g.Temperatures())),
			Humidity:    round2(meanInts(g.Humidities())),
			Samples:     g.Len(),
		}
	}
	return out
}

// Extreme is the row that reached the maximum of one metric.
type Extreme struct {
	City       string    `json:"city"`
	Value      int       `json:"value"`
	ObservedAt time.Time `json:"observedAt"`
}

// Extremes holds the temperature and humidity maxima; they may come from different rows.
type Extremes struct {
	Temperature Extreme `json:"temperature"`
	Humidity    Extreme `json:"humidity"`
}

// FindExtremes returns the first row with the highest temperature and the first
// row with the highest humidity. An empty table yields weather.ErrEmptyInput.
func FindExtremes(t Table) (Extremes, error) {
	if t.Empty() {
		return Extremes{}, weather.ErrEmptyInput
	}

	rows := t.rows
	hot, humid := rows[0], rows[0]
	for _, r := range rows[1:] {
		if r.Temperature > hot.Temperature {
			hot = r
		}
		if r.Humidity > humid.Humidity {
			humid = r
		}
	}

	return Extremes{
		Temperature: Extreme{City: hot.CityName, Value: hot.Temperature, ObservedAt: hot.ObservedAt},
		Humidity:    Extreme{City: humid.CityName, Value: humid.Humidity, ObservedAt: humid.ObservedAt},
	}, nil
}

// Condition is the most common description and how often it occurred.
type Condition struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// DominantCondition returns the most frequent non-empty description. Ties go to
// the description seen first. ok is false when there is nothing to count.
func DominantCondition(t Table) (c Condition, ok bool) {
	counts := make(map[string]int)
	var order []string
	for _, d := range t.Descriptions() {
		if d == "" {
			continue
		}
		if _, seen := counts[d]; !seen {
			order = append(order, d)
		}
		counts[d]++
	}

	for _, d := range order {
		if counts[d] > c.Count {
			c = Condition{Description: d, Count: counts[d]}
		}
	}
	return c, c.Count > 0
}

func meanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
