package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-insights/internal/weather"
)

const (
	ProviderOpenWeather = "openweathermap"
	ProviderWeatherAPI  = "weatherapi"

	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DefaultCities is ingested when no city is given.
var DefaultCities = []string{"New York", "São Paulo", "London", "Cairo", "Mumbai", "Tokyo", "Sydney"}

type AppConfig struct {
	// Provider selects the upstream source: openweathermap or weatherapi.
	Provider           string
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherAPIKey      string
	HTTPTimeout        time.Duration

	Cities []string

	// StoreBackend is postgres or memory.
	StoreBackend   string
	DBDriver       string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	ReportTimezone  string
	ReportLocation  *time.Location
	ReportDays      int
	ReportOutputDir string
	ReportCron      string

	// FetchInterval controls how often the server ingests every city.
	FetchInterval time.Duration

	Port     string
	LogLevel string
}

// fileConfig is the optional YAML overlay named by WEATHER_CONFIG_FILE.
type fileConfig struct {
	Cities []string `yaml:"cities"`
	Report struct {
		Timezone  string `yaml:"timezone"`
		Days      int    `yaml:"days"`
		OutputDir string `yaml:"output_dir"`
		Cron      string `yaml:"cron"`
	} `yaml:"report"`
	FetchInterval string `yaml:"fetch_interval"`
}

// Load reads configuration from .env, the environment and an optional YAML
// file, in that order of increasing precedence. Invalid values wrap
// weather.ErrConfiguration. Missing credentials are not an error here; see
// RequireProvider and RequireStore.
func Load() (*AppConfig, error) {
	// .env is optional.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Provider:           strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderOpenWeather)),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		WeatherAPIKey:      os.Getenv("WEATHERAPI_API_KEY"),
		Cities:             splitCSV(os.Getenv("WEATHER_CITIES")),
		StoreBackend:       strings.ToLower(getenvDefault("STORE_BACKEND", BackendPostgres)),
		DBDriver:           getenvDefault("DB_DRIVER", "pgx"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             getenvDefault("DB_PORT", "5432"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSSLMode:          getenvDefault("DB_SSLMODE", "disable"),
		ReportTimezone:     getenvDefault("REPORT_TIMEZONE", "Asia/Kolkata"),
		ReportOutputDir:    getenvDefault("REPORT_OUTPUT_DIR", "."),
		ReportCron:         getenvDefault("REPORT_CRON", "0 6 * * *"),
		Port:               getenvDefault("PORT", "8080"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReportDays, err = getenvInt("REPORT_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = getenvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = getenvInt("DB_MAX_IDLE_CONNS", 2); err != nil {
		return nil, err
	}

	if path := os.Getenv("WEATHER_CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}

	if len(cfg.Cities) == 0 {
		cfg.Cities = append([]string(nil), DefaultCities...)
	}
	if cfg.ReportDays <= 0 {
		return nil, fmt.Errorf("%w: REPORT_DAYS must be positive, got %d", weather.ErrConfiguration, cfg.ReportDays)
	}
	if cfg.FetchInterval <= 0 {
		return nil, fmt.Errorf("%w: FETCH_INTERVAL must be positive", weather.ErrConfiguration)
	}
	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: REPORT_TIMEZONE %q: %w", weather.ErrConfiguration, cfg.ReportTimezone, err)
	}
	cfg.ReportLocation = loc

	return cfg, nil
}

func (c *AppConfig) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", weather.ErrConfiguration, path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parse %s: %w", weather.ErrConfiguration, path, err)
	}

	if len(fc.Cities) > 0 {
		c.Cities = splitCSV(strings.Join(fc.Cities, ","))
	}
	if fc.Report.Timezone != "" {
		c.ReportTimezone = fc.Report.Timezone
	}
	if fc.Report.Days != 0 {
		c.ReportDays = fc.Report.Days
	}
	if fc.Report.OutputDir != "" {
		c.ReportOutputDir = fc.Report.OutputDir
	}
	if fc.Report.Cron != "" {
		c.ReportCron = fc.Report.Cron
	}
	if fc.FetchInterval != "" {
		d, err := time.ParseDuration(fc.FetchInterval)
		if err != nil {
			return fmt.Errorf("%w: fetch_interval: %w", weather.ErrConfiguration, err)
		}
		c.FetchInterval = d
	}
	return nil
}

// DSN returns DATABASE_URL, or a postgres URL assembled from the DB_* parts.
// It is empty when neither is configured.
func (c *AppConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" || c.DBName == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	if c.DBUser != "" {
		if c.DBPassword != "" {
			u.User = url.UserPassword(c.DBUser, c.DBPassword)
		} else {
			u.User = url.User(c.DBUser)
		}
	}
	return u.String()
}

// RequireProvider fails when the selected provider is unknown or has no API key.
func (c *AppConfig) RequireProvider() error {
	switch c.Provider {
	case ProviderOpenWeather:
		if c.OpenWeatherAPIKey == "" {
			return fmt.Errorf("%w: OPENWEATHER_API_KEY is not set", weather.ErrConfiguration)
		}
	case ProviderWeatherAPI:
		if c.WeatherAPIKey == "" {
			return fmt.Errorf("%w: WEATHERAPI_API_KEY is not set", weather.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown WEATHER_PROVIDER %q", weather.ErrConfiguration, c.Provider)
	}
	return nil
}

// RequireStore fails when the backend is unknown or postgres has no DSN.
func (c *AppConfig) RequireStore() error {
	switch c.StoreBackend {
	case BackendMemory:
		return nil
	case BackendPostgres:
		if c.DSN() == "" {
			return fmt.Errorf("%w: set DATABASE_URL or DB_HOST and DB_NAME", weather.ErrConfiguration)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", weather.ErrConfiguration, c.StoreBackend)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %w", weather.ErrConfiguration, key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %w", weather.ErrConfiguration, key, err)
	}
	return d, nil
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
