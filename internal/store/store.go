// Package store keeps a log of completed assessments in Postgres. It is only
// wired when ENABLE_DB=true.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Skufu/bpfuel/internal/bp"
	"github.com/Skufu/bpfuel/internal/questionnaire"
	"github.com/Skufu/bpfuel/internal/recommend"
)

var ErrNotFound = errors.New("assessment not found")

// Assessment is one pass through the pipeline: questionnaire in, reading,
// classification and recommendations out.
type Assessment struct {
	ID              uuid.UUID            `json:"id"`
	CreatedAt       time.Time            `json:"created_at"`
	Questionnaire   questionnaire.Record `json:"questionnaire"`
	Reading         bp.Reading           `json:"reading"`
	Classification  bp.Classification    `json:"classification"`
	Recommendations recommend.Set        `json:"recommendations"`
	Capture         bp.CaptureReport     `json:"capture"`
	Tips            []string             `json:"tips"`
}

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

// PoolConfig sizes the connection pool. Zero values keep the pgx defaults.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

func poolConfig(url string, pc PoolConfig) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		if pc.MinConns > cfg.MaxConns {
			return nil, fmt.Errorf("min conns %d exceeds max conns %d", pc.MinConns, cfg.MaxConns)
		}
		cfg.MinConns = pc.MinConns
	}
	if pc.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = pc.MaxConnLifetime
	}
	return cfg, nil
}

// Connect opens a sized pool and pings it before handing it out.
func Connect(ctx context.Context, url string, pc PoolConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(url, pc)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db %s: %w", cfg.ConnConfig.Host, err)
	}

	log.Info().
		Str("host", cfg.ConnConfig.Host).
		Str("database", cfg.ConnConfig.Database).
		Int32("max_conns", cfg.MaxConns).
		Int32("min_conns", cfg.MinConns).
		Dur("ping", time.Since(start)).
		Msg("database pool ready")
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id          UUID PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL,
	category    TEXT NOT NULL,
	systolic    INTEGER NOT NULL,
	diastolic   INTEGER NOT NULL,
	payload     JSONB NOT NULL
)`

// Migrate creates the assessments table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create assessments table: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Save assigns an id and timestamp when missing and writes the assessment.
func (s *Store) Save(ctx context.Context, a *Assessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO assessments (id, created_at, category, systolic, diastolic, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.CreatedAt, a.Classification.Category, a.Reading.Systolic, a.Reading.Diastolic, payload,
	)
	if err != nil {
		return fmt.Errorf("insert assessment %s: %w", a.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (Assessment, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT payload FROM assessments WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assessment{}, ErrNotFound
	}
	if err != nil {
		return Assessment{}, fmt.Errorf("select assessment %s: %w", id, err)
	}

	var a Assessment
	if err := json.Unmarshal(payload, &a); err != nil {
		return Assessment{}, fmt.Errorf("decode assessment %s: %w", id, err)
	}
	return a, nil
}
