package experiment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/lianstemp/aws-serverless-comparison/internal/config"
	"github.com/lianstemp/aws-serverless-comparison/internal/quantum"
	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// Schema creates the experiment and result tables.
const Schema = `
CREATE TABLE IF NOT EXISTS experiments (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL,
	algorithm    TEXT NOT NULL,
	cities_count INTEGER NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	expires_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS experiments_expires_at_idx ON experiments (expires_at);

CREATE TABLE IF NOT EXISTS results (
	id                     TEXT PRIMARY KEY,
	experiment_id          TEXT NOT NULL,
	algorithm              TEXT NOT NULL,
	cities_count           INTEGER NOT NULL,
	route                  INTEGER[] NOT NULL,
	total_distance         DOUBLE PRECISION NOT NULL,
	execution_time_seconds DOUBLE PRECISION NOT NULL,
	created_at             TIMESTAMPTZ NOT NULL,
	cities                 JSONB NOT NULL,
	quantum_metadata       JSONB,
	device_arn             TEXT
);

CREATE INDEX IF NOT EXISTS results_experiment_id_idx ON results (experiment_id);
`

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger, now: time.Now}
}

// OpenPostgres opens and pings a connection pool configured by cfg.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger != nil {
		logger.Info("database connection established", zap.String("connection", cfg.LogString()))
	}
	return NewPostgresStore(db, logger), nil
}

// EnsureSchema creates the tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// StartExperiment implements Store.
func (s *PostgresStore) StartExperiment(ctx context.Context, rec Record) error {
	if rec.Status != StatusStarted {
		return transitionError(rec.ID, "", rec.Status)
	}
	query := `
		INSERT INTO experiments (id, status, algorithm, cities_count, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, string(rec.Status), rec.Algorithm, rec.CitiesCount, rec.Timestamp, rec.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, rec.ID)
		}
		return fmt.Errorf("failed to insert experiment: %w", err)
	}

	s.logger.Debug("experiment started", zap.String("experiment_id", rec.ID))
	return nil
}

// FinishExperiment implements Store.
func (s *PostgresStore) FinishExperiment(ctx context.Context, id string, status Status) error {
	if !CanTransition(StatusStarted, status) {
		return transitionError(id, StatusStarted, status)
	}
	query := `
		UPDATE experiments SET status = $1
		WHERE id = $2 AND status = $3 AND expires_at > $4
	`
	res, err := s.db.ExecContext(ctx, query, string(status), id, string(StatusStarted), s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}
	if n == 1 {
		return nil
	}

	// Nothing updated: either missing/expired or already finished.
	current, err := s.GetExperiment(ctx, id)
	if err != nil {
		return err
	}
	return transitionError(id, current.Status, status)
}

// GetExperiment implements Store.
func (s *PostgresStore) GetExperiment(ctx context.Context, id string) (Record, error) {
	query := `
		SELECT id, status, algorithm, cities_count, created_at, expires_at
		FROM experiments
		WHERE id = $1 AND expires_at > $2
	`
	var (
		rec    Record
		status string
	)
	err := s.db.QueryRowContext(ctx, query, id, s.now().UTC()).Scan(
		&rec.ID, &status, &rec.Algorithm, &rec.CitiesCount, &rec.Timestamp, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, fmt.Errorf("failed to get experiment: %w", err)
	}
	rec.Status = Status(status)
	return rec, nil
}

// SaveResult implements Store.
func (s *PostgresStore) SaveResult(ctx context.Context, r ResultRecord) error {
	cities, err := json.Marshal(r.Cities)
	if err != nil {
		return fmt.Errorf("failed to encode cities: %w", err)
	}
	var qmeta []byte
	if r.QuantumMetadata != nil {
		if qmeta, err = json.Marshal(r.QuantumMetadata); err != nil {
			return fmt.Errorf("failed to encode quantum metadata: %w", err)
		}
	}

	query := `
		INSERT INTO results (
			id, experiment_id, algorithm, cities_count, route, total_distance,
			execution_time_seconds, created_at, cities, quantum_metadata, device_arn
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(ctx, query,
		r.ID,
		r.ExperimentID,
		r.Algorithm,
		r.CitiesCount,
		pq.Array(toInt64s(r.Route)),
		r.TotalDistance,
		r.ExecutionTimeSeconds,
		r.Timestamp,
		cities,
		qmeta,
		sql.NullString{String: r.DeviceARN, Valid: r.DeviceARN != ""},
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, r.ID)
		}
		return fmt.Errorf("failed to insert result: %w", err)
	}

	s.logger.Debug("result stored", zap.String("id", r.ID), zap.String("experiment_id", r.ExperimentID))
	return nil
}

// GetResult implements Store.
func (s *PostgresStore) GetResult(ctx context.Context, id string) (ResultRecord, error) {
	query := `
		SELECT id, experiment_id, algorithm, cities_count, route, total_distance,
		       execution_time_seconds, created_at, cities, quantum_metadata, device_arn
		FROM results
		WHERE id = $1
	`
	var (
		r      ResultRecord
		route  pq.Int64Array
		cities []byte
		qmeta  []byte
		device sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID,
		&r.ExperimentID,
		&r.Algorithm,
		&r.CitiesCount,
		&route,
		&r.TotalDistance,
		&r.ExecutionTimeSeconds,
		&r.Timestamp,
		&cities,
		&qmeta,
		&device,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResultRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return ResultRecord{}, fmt.Errorf("failed to get result: %w", err)
	}

	r.Route = make([]int, len(route))
	for i, v := range route {
		r.Route[i] = int(v)
	}
	var pts []tsp.City
	if err := json.Unmarshal(cities, &pts); err != nil {
		return ResultRecord{}, fmt.Errorf("failed to decode cities: %w", err)
	}
	r.Cities = pts
	if len(qmeta) > 0 {
		var md quantum.Metadata
		if err := json.Unmarshal(qmeta, &md); err != nil {
			return ResultRecord{}, fmt.Errorf("failed to decode quantum metadata: %w", err)
		}
		r.QuantumMetadata = &md
	}
	r.DeviceARN = device.String
	return r, nil
}

// DeleteExpired removes experiments past their expiry together with every
// result whose experiment is no longer live, and reports how many rows were
// removed.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM results r
		WHERE NOT EXISTS (
			SELECT 1 FROM experiments e WHERE e.id = r.experiment_id AND e.expires_at > $1
		)`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired results: %w", err)
	}
	results, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = s.db.ExecContext(ctx, `DELETE FROM experiments WHERE expires_at <= $1`, now)
	if err != nil {
		return results, fmt.Errorf("failed to delete expired experiments: %w", err)
	}
	experiments, err := res.RowsAffected()
	if err != nil {
		return results, err
	}
	return results + experiments, nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.logger.Info("closing database connection")
	return s.db.Close()
}

func toInt64s(xs []int) []int64 {
	out := make([]int64, len(xs))
	for i, v := range xs {
		out[i] = int64(v)
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
