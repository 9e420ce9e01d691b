package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-insights/internal/weather"
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 1 << 20

// HTTPClientConfig bundles the HTTP client and the per-request bound.
type HTTPClientConfig struct {
	Client  *http.Client
	Timeout time.Duration
}

// Option configures a provider.
type Option func(*options)

type options struct {
	baseURL string
	timeout time.Duration
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = u
		}
	}
}

// WithTimeout overrides the per-request bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func applyOptions(baseURL string, opts []Option) options {
	o := options{baseURL: baseURL, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

var validate = validator.New()

// clientStatus is a non-2xx, non-429, non-5xx status code. It leaves the
// breaker's failure count untouched.
type clientStatus int

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// doRequest executes exactly one bounded GET through the circuit breaker and
// returns the response body. Every failure wraps weather.ErrNetwork.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) ([]byte, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: %w", weather.ErrNetwork, errNoHTTPClient)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := buildRequest()
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", weather.ErrNetwork, err)
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// An unknown city is not a provider failure.
			return clientStatus(resp.StatusCode), nil
		}

		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %w", weather.ErrNetwork, errCircuitOpen, err)
		}
		return nil, fmt.Errorf("%w: %w", weather.ErrNetwork, err)
	}

	if code, ok := result.(clientStatus); ok {
		return nil, fmt.Errorf("%w: %w: %d", weather.ErrNetwork, errUnexpected, int(code))
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrNetwork)
	}
	return body, nil
}

// newReading normalizes provider values. Temperature is rounded half to even.
func newReading(city string, tempC, humidity float64, description string) weather.Reading {
	return weather.Reading{
		CityName:    city,
		Temperature: int(math.RoundToEven(tempC)),
		Humidity:    int(math.RoundToEven(humidity)),
		Description: description,
	}
}
