// Package service orchestrates one optimization request: experiment log,
// route engine, quantum decoration, persistence and metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lianstemp/aws-serverless-comparison/internal/experiment"
	"github.com/lianstemp/aws-serverless-comparison/internal/metrics"
	"github.com/lianstemp/aws-serverless-comparison/internal/quantum"
	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

// Request is a service-level optimization request.
type Request struct {
	Cities        []tsp.City
	Algorithm     string
	Shots         int
	MaxIterations int
	// Seed overrides the configured seed when non-nil.
	Seed *int64
	// RequestID correlates log lines with the HTTP request.
	RequestID string
}

// Response is the outcome returned to the caller.
type Response struct {
	ID                   string            `json:"id"`
	ExperimentID         string            `json:"experiment_id"`
	Route                tsp.Route         `json:"route"`
	Distance             float64           `json:"distance"`
	AlgorithmUsed        string            `json:"algorithm_used"`
	RequestedAlgorithm   string            `json:"requested_algorithm"`
	ExecutionTimeSeconds float64           `json:"execution_time_seconds"`
	CitiesCount          int               `json:"cities_count"`
	Timestamp            time.Time         `json:"timestamp"`
	Metadata             tsp.Metadata      `json:"metadata"`
	QuantumMetadata      *quantum.Metadata `json:"quantum_metadata,omitempty"`
	DeviceARN            string            `json:"device_arn,omitempty"`
}

// Config holds the Optimizer dependencies. Zero-valued optional fields get
// defaults in NewOptimizer.
type Config struct {
	Options   tsp.Options
	Seed      int64 // 0 = fresh seed per request
	TTL       time.Duration
	Store     experiment.Store
	Decorator *quantum.Decorator
	Metrics   metrics.Recorder
	Logger    *zap.Logger
}

// Optimizer serves optimization requests. It is safe for concurrent use.
type Optimizer struct {
	opts      tsp.Options
	seed      int64
	ttl       time.Duration
	store     experiment.Store
	decorator *quantum.Decorator
	metrics   metrics.Recorder
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
	solve func(cities []tsp.City, req tsp.Request, opts tsp.Options) (tsp.Result, error)
}

// NewOptimizer creates an Optimizer.
func NewOptimizer(cfg Config) *Optimizer {
	o := &Optimizer{
		opts:      cfg.Options,
		seed:      cfg.Seed,
		ttl:       cfg.TTL,
		store:     cfg.Store,
		decorator: cfg.Decorator,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       time.Now,
		newID:     uuid.NewString,
		solve:     tsp.Solve,
	}
	if o.opts == (tsp.Options{}) {
		o.opts = tsp.DefaultOptions()
	}
	if o.ttl <= 0 {
		o.ttl = experiment.DefaultTTL
	}
	if o.store == nil {
		o.store = experiment.NewMemoryStore()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.decorator == nil {
		o.decorator = quantum.NewDecorator(quantum.Device{}, o.logger)
	}
	if o.metrics == nil {
		o.metrics = metrics.Nop{}
	}
	return o
}

// Optimize runs one request end to end.
//
// Errors: tsp.ErrInvalidInput, tsp.ErrUnsupportedAlgorithm and
// tsp.ErrInvalidOptions (wrapped). Store failures are logged and never
// returned.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (*Response, error) {
	treq, err := tsp.NormalizeRequest(tsp.Request{
		Algorithm:     tsp.Algorithm(req.Algorithm),
		Shots:         req.Shots,
		MaxIterations: req.MaxIterations,
	})
	if err != nil {
		return nil, err
	}
	algo := treq.Algorithm
	if len(req.Cities) < 2 {
		return nil, fmt.Errorf("%w: at least 2 cities are required, got %d", tsp.ErrInvalidInput, len(req.Cities))
	}

	var (
		started      = o.now()
		experimentID = o.newID()
		requested    = req.Algorithm
		seed         = o.seedFor(req.Seed, started)
		log          = o.logger.With(
			zap.String("experiment_id", experimentID),
			zap.String("request_id", req.RequestID),
			zap.String("algorithm_requested", string(algo)),
			zap.Int("cities_count", len(req.Cities)),
		)
	)
	if requested == "" {
		requested = string(algo)
	}

	if err := o.store.StartExperiment(ctx, experiment.NewRecord(experimentID, requested, len(req.Cities), started, o.ttl)); err != nil {
		o.persistFailed(log, "start_experiment", err)
	}

	treq.Seed = seed
	res, err := o.solve(req.Cities, treq, o.opts)
	if err != nil {
		o.finish(ctx, log, experimentID, experiment.StatusFailed)
		log.Info("optimization rejected", zap.Error(err))
		return nil, err
	}
	if _, ok := res.Metadata["seed"]; !ok {
		res.Metadata["seed"] = seed
	}

	qmeta := o.decorator.Decorate(experimentID, requested, res, seed)

	resp := &Response{
		ID:                   o.newID(),
		ExperimentID:         experimentID,
		Route:                res.Route,
		Distance:             res.Distance,
		AlgorithmUsed:        string(res.AlgorithmUsed),
		RequestedAlgorithm:   requested,
		ExecutionTimeSeconds: res.ExecutionTimeSeconds,
		CitiesCount:          len(req.Cities),
		Timestamp:            started.UTC(),
		Metadata:             res.Metadata,
		QuantumMetadata:      qmeta,
	}
	if qmeta != nil {
		resp.DeviceARN = o.decorator.DeviceARN()
	}

	o.observe(log, algo, res)

	status := experiment.StatusCompleted
	if res.Failure != nil {
		status = experiment.StatusFailed
	}
	o.finish(ctx, log, experimentID, status)

	if err := o.store.SaveResult(ctx, experiment.ResultRecord{
		ID:                   resp.ID,
		ExperimentID:         experimentID,
		Algorithm:            resp.AlgorithmUsed,
		CitiesCount:          resp.CitiesCount,
		Route:                resp.Route,
		TotalDistance:        resp.Distance,
		ExecutionTimeSeconds: resp.ExecutionTimeSeconds,
		Timestamp:            resp.Timestamp,
		Cities:               req.Cities,
		QuantumMetadata:      qmeta,
		DeviceARN:            resp.DeviceARN,
	}); err != nil {
		o.persistFailed(log, "save_result", err)
	}

	return resp, nil
}

// Result returns a stored result.
func (o *Optimizer) Result(ctx context.Context, id string) (experiment.ResultRecord, error) {
	return o.store.GetResult(ctx, id)
}

// Experiment returns an experiment log entry.
func (o *Optimizer) Experiment(ctx context.Context, id string) (experiment.Record, error) {
	return o.store.GetExperiment(ctx, id)
}

// seedFor picks the request seed, then the configured one, then a fresh
// time-derived seed.
func (o *Optimizer) seedFor(requested *int64, now time.Time) int64 {
	switch {
	case requested != nil && *requested != 0:
		return *requested
	case o.seed != 0:
		return o.seed
	default:
		return now.UnixNano()
	}
}

func (o *Optimizer) observe(log *zap.Logger, algo tsp.Algorithm, res tsp.Result) {
	o.metrics.ObserveSolve(string(algo), string(res.AlgorithmUsed), len(res.Route)-1, res.Elapsed)

	switch {
	case res.Failure != nil:
		o.metrics.ObserveFallback(string(res.Failure.Algorithm))
		log.Warn("solver failed, greedy fallback used",
			zap.String("algorithm_used", string(res.AlgorithmUsed)),
			zap.String("failed_algorithm", string(res.Failure.Algorithm)),
			zap.Error(res.Failure.Err),
		)
	case res.Downgraded:
		o.metrics.ObserveDowngrade(string(algo))
		log.Info("instance exceeds ceiling, downgraded to greedy",
			zap.String("algorithm_used", string(res.AlgorithmUsed)))
	default:
		log.Info("optimization completed",
			zap.String("algorithm_used", string(res.AlgorithmUsed)),
			zap.Float64("distance", res.Distance),
			zap.Duration("elapsed", res.Elapsed),
		)
	}
}

func (o *Optimizer) finish(ctx context.Context, log *zap.Logger, id string, status experiment.Status) {
	if err := o.store.FinishExperiment(ctx, id, status); err != nil {
		o.persistFailed(log, "finish_experiment", err)
	}
}

func (o *Optimizer) persistFailed(log *zap.Logger, op string, err error) {
	o.metrics.ObservePersistError(op)
	lvl := log.Error
	if errors.Is(err, experiment.ErrNotFound) {
		// The STARTED insert already failed and was reported.
		lvl = log.Warn
	}
	lvl("experiment store write failed", zap.String("op", op), zap.Error(err))
}
