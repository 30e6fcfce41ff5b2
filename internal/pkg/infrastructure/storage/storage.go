package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func NewConfig(host, user, password, port, dbname, sslmode string) Config {
	return Config{
		host:     host,
		user:     user,
		password: password,
		port:     port,
		dbname:   dbname,
		sslmode:  sslmode,
	}
}

func NewPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	p, err := pgxpool.New(ctx, config.ConnStr())
	if err != nil {
		return nil, err
	}

	err = p.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return p, nil
}

var (
	ErrNoRows      = errors.New("no rows in result set")
	ErrQueryRow    = errors.New("could not execute query")
	ErrStoreFailed = errors.New("could not store data")
	ErrNoID        = errors.New("data contains no id")
)

type Storage struct {
	pool *pgxpool.Pool
}

func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func New(ctx context.Context, config Config) (*Storage, error) {
	pool, err := NewPool(ctx, config)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) Initialize(ctx context.Context) error {
	return s.createTables(ctx)
}

func (s *Storage) createTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS alerts (
			alert_id		TEXT	NOT NULL,
			sensor_id		TEXT	NOT NULL,
			alert_type		TEXT	NOT NULL,
			severity		INT		NOT NULL,
			quality_level	TEXT	NOT NULL DEFAULT '',
			message			TEXT	NOT NULL DEFAULT '',
			data			JSONB	NULL,
			is_active		BOOLEAN	NOT NULL DEFAULT TRUE,
			created_at		timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			expires_at		timestamp with time zone NOT NULL,
			acknowledged_by	TEXT	NULL,
			acknowledged_at	timestamp with time zone NULL,
			resolved_by		TEXT	NULL,
			resolved_at		timestamp with time zone NULL,
			resolution		TEXT	NULL,
			CONSTRAINT pkey_alerts PRIMARY KEY (alert_id)
		);

		CREATE UNIQUE INDEX IF NOT EXISTS uidx_alerts_active
			ON alerts (sensor_id, alert_type) WHERE is_active;

		CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts (created_at);

		CREATE TABLE IF NOT EXISTS readings (
			sensor_id	TEXT	NOT NULL,
			observed_at	timestamp with time zone NOT NULL,
			location	POINT	NULL,
			measurements JSONB	NOT NULL,
			created_on	timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT pkey_readings PRIMARY KEY (sensor_id, observed_at)
		);

		CREATE INDEX IF NOT EXISTS idx_readings_observed_at ON readings (observed_at);
	`)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	return nil
}
