// Package experiment keeps the experiment log and the optimization results.
//
// An experiment is STARTED when a request arrives and moves once to either
// COMPLETED (the requested strategy, possibly downgraded, produced the tour)
// or FAILED (the fallback policy substituted greedy). Results are stored as
// ResultRecord values keyed by their own ID.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lianstemp/aws-serverless-comparison/internal/quantum"
	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

var (
	// ErrNotFound is returned when no record exists for an ID.
	ErrNotFound = errors.New("experiment: not found")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("experiment: invalid status transition")

	// ErrDuplicate is returned when a record with the same ID already exists.
	ErrDuplicate = errors.New("experiment: duplicate id")
)

// Status is the lifecycle state of an experiment.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// DefaultTTL is the retention of experiment records.
const DefaultTTL = 30 * 24 * time.Hour

// Record is one experiment log entry.
type Record struct {
	ID          string    `json:"experiment_id"`
	Status      Status    `json:"status"`
	Algorithm   string    `json:"algorithm"`
	CitiesCount int       `json:"cities_count"`
	Timestamp   time.Time `json:"timestamp"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewRecord returns a STARTED record expiring ttl after now.
func NewRecord(id, algorithm string, cities int, now time.Time, ttl time.Duration) Record {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Record{
		ID:          id,
		Status:      StatusStarted,
		Algorithm:   algorithm,
		CitiesCount: cities,
		Timestamp:   now.UTC(),
		ExpiresAt:   now.UTC().Add(ttl),
	}
}

// CanTransition reports whether from → to is allowed.
func CanTransition(from, to Status) bool {
	return from == StatusStarted && (to == StatusCompleted || to == StatusFailed)
}

// ResultRecord is a stored optimization result.
type ResultRecord struct {
	ID                   string            `json:"id"`
	ExperimentID         string            `json:"experiment_id"`
	Algorithm            string            `json:"algorithm"`
	CitiesCount          int               `json:"cities_count"`
	Route                []int             `json:"route"`
	TotalDistance        float64           `json:"total_distance"`
	ExecutionTimeSeconds float64           `json:"execution_time_seconds"`
	Timestamp            time.Time         `json:"timestamp"`
	Cities               []tsp.City        `json:"cities"`
	QuantumMetadata      *quantum.Metadata `json:"quantum_metadata,omitempty"`
	DeviceARN            string            `json:"device_arn,omitempty"`
}

// Store persists experiments and results.
type Store interface {
	// StartExperiment inserts a STARTED record.
	StartExperiment(ctx context.Context, rec Record) error
	// FinishExperiment moves a STARTED record to COMPLETED or FAILED.
	FinishExperiment(ctx context.Context, id string, status Status) error
	// GetExperiment returns the record for id or ErrNotFound.
	GetExperiment(ctx context.Context, id string) (Record, error)
	// SaveResult inserts a result record.
	SaveResult(ctx context.Context, res ResultRecord) error
	// GetResult returns the result for id or ErrNotFound.
	GetResult(ctx context.Context, id string) (ResultRecord, error)
	// Close releases resources.
	Close() error
}

func transitionError(id string, from, to Status) error {
	return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, id, from, to)
}
