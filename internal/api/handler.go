// Package api exposes the optimizer over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lianstemp/aws-serverless-comparison/internal/experiment"
	"github.com/lianstemp/aws-serverless-comparison/internal/service"
	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

// maxBodyBytes caps the request body of POST /optimize.
const maxBodyBytes = 1 << 20

// Optimizer is the service surface used by the handlers.
type Optimizer interface {
	Optimize(ctx context.Context, req service.Request) (*service.Response, error)
	Result(ctx context.Context, id string) (experiment.ResultRecord, error)
	Experiment(ctx context.Context, id string) (experiment.Record, error)
}

// OptimizeRequest is the POST /optimize body.
type OptimizeRequest struct {
	Cities        [][]float64 `json:"cities" validate:"required,dive,len=2"`
	Algorithm     string      `json:"algorithm" validate:"max=64"`
	Shots         *int        `json:"shots" validate:"omitempty,gt=0"`
	MaxIterations *int        `json:"max_iterations" validate:"omitempty,gt=0"`
	Seed          *int64      `json:"seed"`
}

// toService converts the envelope; absent knobs stay zero and take the
// engine defaults.
func (r OptimizeRequest) toService(requestID string) service.Request {
	cities := make([]tsp.City, len(r.Cities))
	for i, c := range r.Cities {
		cities[i] = tsp.City{X: c[0], Y: c[1]}
	}

	out := service.Request{
		Cities:    cities,
		Algorithm: r.Algorithm,
		Seed:      r.Seed,
		RequestID: requestID,
	}
	if r.Shots != nil {
		out.Shots = *r.Shots
	}
	if r.MaxIterations != nil {
		out.MaxIterations = *r.MaxIterations
	}
	return out
}

// HealthResponse is the GET /healthz body.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Handler serves the optimizer endpoints.
type Handler struct {
	optimizer Optimizer
	logger    *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(optimizer Optimizer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{optimizer: optimizer, logger: logger}
}

// HandleOptimize handles POST /optimize.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)

	var req OptimizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := validateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		var verr *ValidationError
		if errors.As(err, &verr) {
			_ = WriteBadRequest(w, verr.Message, verr.details())
			return
		}
		_ = WriteBadRequest(w, err.Error(), nil)
		return
	}

	resp, err := h.optimizer.Optimize(ctx, req.toService(requestID))
	if err != nil {
		h.handleError(w, requestID, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("failed to write optimize response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// HandleGetResult handles GET /results/{id}.
func (h *Handler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.optimizer.Result(r.Context(), id)
	if err != nil {
		h.handleError(w, middleware.GetReqID(r.Context()), err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, res)
}

// HandleGetExperiment handles GET /experiments/{id}.
func (h *Handler) HandleGetExperiment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.optimizer.Experiment(r.Context(), id)
	if err != nil {
		h.handleError(w, middleware.GetReqID(r.Context()), err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, rec)
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleError maps service errors onto HTTP responses.
func (h *Handler) handleError(w http.ResponseWriter, requestID string, err error) {
	switch {
	case errors.Is(err, tsp.ErrInvalidInput), errors.Is(err, tsp.ErrUnsupportedAlgorithm):
		h.logger.Info("request rejected",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = WriteBadRequest(w, err.Error(), nil)

	case errors.Is(err, experiment.ErrNotFound):
		_ = WriteNotFound(w, err.Error())

	default:
		h.logger.Error("internal server error",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = WriteInternalServerError(w, "An internal error occurred")
	}
}
