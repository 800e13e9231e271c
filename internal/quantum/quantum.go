// Package quantum decorates sampled route results with the metadata of a
// simulated quantum-device run. Nothing here is submitted to real hardware:
// the sampled strategy is the computation, this package only names it.
package quantum

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

// Variant is the quantum algorithm family reported for a sampled run.
type Variant string

const (
	QAOA Variant = "QAOA"
	VQE  Variant = "VQE"
)

// DeviceTypeSimulator is the only device type produced.
const DeviceTypeSimulator = "simulator"

// minVQEIterations is the lower bound of the reported VQE iteration count.
const minVQEIterations = 10

// Device identifies the target device and the account that owns tasks.
type Device struct {
	ARN       string
	Region    string
	AccountID string
}

// Task is a simulated device submission.
type Task struct {
	ARN       string    `json:"task_arn"`
	DeviceARN string    `json:"device_arn"`
	Algorithm Variant   `json:"algorithm"`
	Shots     int       `json:"shots"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Convergence is the VQE convergence summary.
type Convergence struct {
	Iterations  int     `json:"iterations"`
	FinalEnergy float64 `json:"final_energy"`
}

// Metadata is attached to results produced by the sampled strategy.
type Metadata struct {
	Algorithm        Variant      `json:"algorithm"`
	Shots            int          `json:"shots"`
	MaxIterations    int          `json:"max_iterations"`
	TaskARN          string       `json:"task_arn"`
	DeviceType       string       `json:"device_type"`
	QuantumAdvantage *float64     `json:"quantum_advantage,omitempty"`
	Convergence      *Convergence `json:"convergence_info,omitempty"`
}

// VariantFor maps a requested algorithm name onto a variant: "vqe" selects
// VQE, every other name that resolves to the sampled strategy selects QAOA.
func VariantFor(requested string) Variant {
	if strings.EqualFold(strings.TrimSpace(requested), "vqe") {
		return VQE
	}
	return QAOA
}

// Decorator builds quantum metadata for sampled outcomes.
type Decorator struct {
	device Device
	logger *zap.Logger
	now    func() time.Time
}

// NewDecorator creates a Decorator for device.
func NewDecorator(device Device, logger *zap.Logger) *Decorator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decorator{device: device, logger: logger, now: time.Now}
}

// DeviceARN returns the configured device ARN.
func (d *Decorator) DeviceARN() string { return d.device.ARN }

// TaskARN returns the task ARN derived from an experiment ID.
func (d *Decorator) TaskARN(experimentID string) string {
	return fmt.Sprintf("arn:aws:braket:%s:%s:quantum-task/%s", d.device.Region, d.device.AccountID, experimentID)
}

// Submit records a simulated task submission. It always completes.
func (d *Decorator) Submit(experimentID string, v Variant, shots int) Task {
	task := Task{
		ARN:       d.TaskARN(experimentID),
		DeviceARN: d.device.ARN,
		Algorithm: v,
		Shots:     shots,
		Status:    "COMPLETED",
		CreatedAt: d.now().UTC(),
	}
	d.logger.Info("simulated quantum task",
		zap.String("task_arn", task.ARN),
		zap.String("device_arn", task.DeviceARN),
		zap.String("variant", string(v)),
		zap.Int("shots", shots),
	)
	return task
}

// Decorate returns the quantum metadata for res, or nil when res was not
// produced by the sampled strategy (greedy, exact, downgrade, fallback).
// seed drives the reported VQE iteration count.
func (d *Decorator) Decorate(experimentID, requested string, res tsp.Result, seed int64) *Metadata {
	if res.AlgorithmUsed != tsp.Sampled {
		return nil
	}

	var (
		v     = VariantFor(requested)
		n     = len(res.Route) - 1
		shots = intMeta(res.Metadata, "shots", tsp.DefaultShots)
		iters = intMeta(res.Metadata, "max_iterations", tsp.DefaultMaxIterations)
		task  = d.Submit(experimentID, v, shots)
	)

	md := &Metadata{
		Algorithm:     v,
		Shots:         shots,
		MaxIterations: iters,
		TaskARN:       task.ARN,
		DeviceType:    DeviceTypeSimulator,
	}
	switch v {
	case VQE:
		md.Convergence = &Convergence{
			Iterations:  vqeIterations(iters, seed),
			FinalEnergy: -res.Distance,
		}
	default:
		adv := Advantage(n)
		md.QuantumAdvantage = &adv
	}

	return md
}

// Advantage is the simulated advantage ratio for n cities:
// max(0.1, 0.1n − 0.05n) / 0.1n. It is 0 for n ≤ 0.
func Advantage(n int) float64 {
	if n <= 0 {
		return 0
	}
	baseline := float64(n) * 0.1
	speedup := baseline - float64(n)*0.05
	if speedup < 0.1 {
		speedup = 0.1
	}
	return speedup / baseline
}

// vqeIterations draws the reported iteration count from
// [minVQEIterations, maxIterations). Budgets at or below the minimum are
// reported as is.
func vqeIterations(maxIterations int, seed int64) int {
	if maxIterations <= minVQEIterations {
		return maxIterations
	}
	r := rand.New(rand.NewSource(seed))
	return minVQEIterations + r.Intn(maxIterations-minVQEIterations)
}

func intMeta(m tsp.Metadata, key string, def int) int {
	if v, ok := m[key].(int); ok {
		return v
	}
	return def
}
