package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-insights/internal/weather"
)

// WeatherAPIBaseURL is the current-conditions endpoint of WeatherAPI.com.
const WeatherAPIBaseURL = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	o := applyOptions(WeatherAPIBaseURL, opts)
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: o.baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Timeout: o.timeout,
		},
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIPayload struct {
	Location struct {
		Name string `json:"name" validate:"required"`
	} `json:"location"`
	Current struct {
		TempC     *float64 `json:"temp_c" validate:"required"`
		Humidity  *float64 `json:"humidity" validate:"required"`
		Condition struct {
			Text string `json:"text" validate:"required"`
		} `json:"condition"`
	} `json:"current"`
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, city string) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("%w: weatherapi api key is not configured", weather.ErrConfiguration)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; a free-text city name is accepted.
		values.Set("q", city)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	body, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}

	var payload weatherAPIPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Reading{}, fmt.Errorf("%w: decode weatherapi response: %w", weather.ErrNetwork, err)
	}
	if err := validate.Struct(payload); err != nil {
		return weather.Reading{}, fmt.Errorf("%w: invalid weatherapi payload: %w", weather.ErrNetwork, err)
	}

	return newReading(
		payload.Location.Name,
		*payload.Current.TempC,
		*payload.Current.Humidity,
		payload.Current.Condition.Text,
	), nil
}
