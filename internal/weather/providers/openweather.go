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

// OpenWeatherBaseURL is the current-weather endpoint of OpenWeatherMap.
const OpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	o := applyOptions(OpenWeatherBaseURL, opts)
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: o.baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Timeout: o.timeout,
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// openWeatherPayload is the subset of the current-weather response we rely on.
type openWeatherPayload struct {
	Name string `json:"name" validate:"required"`
	Main struct {
		Temp     *float64 `json:"temp" validate:"required"`
		Humidity *float64 `json:"humidity" validate:"required"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description" validate:"required"`
	} `json:"weather" validate:"min=1,dive"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, city string) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrConfiguration)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	body, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}

	var payload openWeatherPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Reading{}, fmt.Errorf("%w: decode openweather response: %w", weather.ErrNetwork, err)
	}
	if err := validate.Struct(payload); err != nil {
		return weather.Reading{}, fmt.Errorf("%w: invalid openweather payload: %w", weather.ErrNetwork, err)
	}

	return newReading(payload.Name, *payload.Main.Temp, *payload.Main.Humidity, payload.Weather[0].Description), nil
}
