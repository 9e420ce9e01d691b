package store

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/i474232898/weather-insights/internal/weather"
)

const defaultTable = "weather_data"

// schemaStatements are idempotent; they run on every process start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS %[1]s (
	id            BIGSERIAL PRIMARY KEY,
	city_name     VARCHAR(100) NOT NULL,
	temperature   INTEGER NOT NULL,
	humidity      INTEGER NOT NULL,
	description   VARCHAR(255) NOT NULL,
	data_noted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS %[1]s_noted_at_idx ON %[1]s (data_noted_at)`,
}

// PostgresConfig holds connection parameters for NewPostgresStore.
type PostgresConfig struct {
	// Driver is a registered database/sql driver name: "pgx" or "postgres".
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// PostgresStore persists readings in Postgres.
type PostgresStore struct {
	db    *sqlx.DB
	table string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore)

// WithTable overrides the default table name.
func WithTable(table string) PostgresOption {
	return func(s *PostgresStore) {
		if table != "" {
			s.table = table
		}
	}
}

// NewPostgresStore opens a handle without connecting; the first operation
// establishes a connection.
func NewPostgresStore(cfg PostgresConfig, opts ...PostgresOption) (*PostgresStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "pgx"
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: database dsn is empty", weather.ErrConfiguration)
	}

	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", weather.ErrConfiguration, driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	return NewPostgresStoreFromDB(db, opts...), nil
}

// NewPostgresStoreFromDB wraps an existing handle.
func NewPostgresStoreFromDB(db *sqlx.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, table: defaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the underlying handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// withConn acquires a scoped connection, runs fn and releases the connection
// on every exit path.
func (s *PostgresStore) withConn(ctx context.Context, op string, fn func(conn *sqlx.Conn) error) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: connect: %w", weather.ErrStorage, op, err)
	}
	defer conn.Close()

	if err := fn(conn); err != nil {
		return fmt.Errorf("%w: %s: %w", weather.ErrStorage, op, err)
	}
	return nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return s.withConn(ctx, "ensure schema", func(conn *sqlx.Conn) error {
		for _, stmt := range schemaStatements {
			if _, err := conn.ExecContext(ctx, fmt.Sprintf(stmt, s.table)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) Append(ctx context.Context, r weather.Reading) error {
	return s.withConn(ctx, "append", func(conn *sqlx.Conn) error {
		if r.ObservedAt.IsZero() {
			_, err := conn.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (city_name, temperature, humidity, description)
VALUES ($1, $2, $3, $4)`, s.table),
				r.CityName, r.Temperature, r.Humidity, r.Description)
			return err
		}
		_, err := conn.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (city_name, temperature, humidity, description, data_noted_at)
VALUES ($1, $2, $3, $4, $5)`, s.table),
			r.CityName, r.Temperature, r.Humidity, r.Description, r.ObservedAt.UTC().Truncate(time.Microsecond))
		return err
	})
}

func (s *PostgresStore) QueryWindow(ctx context.Context, start, end time.Time) ([]weather.Record, error) {
	var records []weather.Record
	err := s.withConn(ctx, "query window", func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &records, fmt.Sprintf(`
SELECT id, city_name, temperature, humidity, description, data_noted_at
FROM %s
WHERE data_noted_at >= $1 AND data_noted_at < $2
ORDER BY data_noted_at ASC, id ASC`, s.table),
			start.UTC(), end.UTC())
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PostgresStore) QueryTrailing(ctx context.Context, days int) ([]weather.Record, error) {
	var records []weather.Record
	err := s.withConn(ctx, "query trailing window", func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &records, fmt.Sprintf(`
SELECT id, city_name, temperature, humidity, description, data_noted_at
FROM %s
WHERE data_noted_at >= NOW() - make_interval(days => $1::int)
  AND data_noted_at <= NOW()
ORDER BY data_noted_at ASC, id ASC`, s.table),
			days)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
