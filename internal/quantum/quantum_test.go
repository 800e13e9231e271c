package quantum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

func testDevice() Device {
	return Device{ARN: "arn:aws:braket:::device/quantum-simulator/amazon/sv1", Region: "us-east-1", AccountID: "123456789012"}
}

func sampledResult(t *testing.T, seed int64, shots, iters int) tsp.Result {
	t.Helper()
	cities := []tsp.City{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}, {X: 0, Y: 4}}
	res, err := tsp.Solve(cities, tsp.Request{Algorithm: tsp.Sampled, Shots: shots, MaxIterations: iters, Seed: seed}, tsp.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, tsp.Sampled, res.AlgorithmUsed)
	return res
}

func TestVariantFor(t *testing.T) {
	assert.Equal(t, VQE, VariantFor("vqe"))
	assert.Equal(t, VQE, VariantFor(" VQE "))
	assert.Equal(t, QAOA, VariantFor("qaoa"))
	assert.Equal(t, QAOA, VariantFor("sampled"))
	assert.Equal(t, QAOA, VariantFor("autoFallback"))
}

func TestAdvantage(t *testing.T) {
	assert.Zero(t, Advantage(0))
	assert.InDelta(t, 1.0, Advantage(1), 1e-12)
	assert.InDelta(t, 0.5, Advantage(4), 1e-12)
	assert.InDelta(t, 0.5, Advantage(10), 1e-12)
}

func TestDecorate_QAOA(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewDecorator(testDevice(), zap.New(core))

	md := d.Decorate("exp-1", "qaoa", sampledResult(t, 7, 500, 30), 7)
	require.NotNil(t, md)
	assert.Equal(t, QAOA, md.Algorithm)
	assert.Equal(t, 500, md.Shots)
	assert.Equal(t, 30, md.MaxIterations)
	assert.Equal(t, "arn:aws:braket:us-east-1:123456789012:quantum-task/exp-1", md.TaskARN)
	assert.Equal(t, DeviceTypeSimulator, md.DeviceType)
	require.NotNil(t, md.QuantumAdvantage)
	assert.InDelta(t, 0.5, *md.QuantumAdvantage, 1e-12)
	assert.Nil(t, md.Convergence)

	entries := logs.FilterMessage("simulated quantum task").All()
	require.Len(t, entries, 1)
	assert.Equal(t, md.TaskARN, entries[0].ContextMap()["task_arn"])
}

func TestDecorate_VQE(t *testing.T) {
	d := NewDecorator(testDevice(), nil)
	res := sampledResult(t, 3, 1000, 40)

	md := d.Decorate("exp-2", "vqe", res, 3)
	require.NotNil(t, md)
	assert.Equal(t, VQE, md.Algorithm)
	assert.Nil(t, md.QuantumAdvantage)
	require.NotNil(t, md.Convergence)
	assert.GreaterOrEqual(t, md.Convergence.Iterations, 10)
	assert.Less(t, md.Convergence.Iterations, 40)
	assert.Equal(t, -res.Distance, md.Convergence.FinalEnergy)

	again := d.Decorate("exp-2", "vqe", res, 3)
	assert.Equal(t, md.Convergence, again.Convergence)
}

func TestDecorate_SmallIterationBudget(t *testing.T) {
	assert.Equal(t, 5, vqeIterations(5, 1))
	assert.Equal(t, 10, vqeIterations(10, 1))
	assert.Equal(t, 10, vqeIterations(11, 1))
}

func TestDecorate_SkipsNonSampled(t *testing.T) {
	d := NewDecorator(testDevice(), nil)
	for _, used := range []tsp.Algorithm{tsp.Greedy, tsp.Exact, tsp.GreedyDowngrade, tsp.Fallback} {
		assert.Nil(t, d.Decorate("exp", "qaoa", tsp.Result{AlgorithmUsed: used, Route: tsp.Route{0, 1, 0}}, 1), used)
	}
}

func TestSubmit(t *testing.T) {
	d := NewDecorator(testDevice(), nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	task := d.Submit("exp-9", QAOA, 200)
	assert.Equal(t, Task{
		ARN:       "arn:aws:braket:us-east-1:123456789012:quantum-task/exp-9",
		DeviceARN: testDevice().ARN,
		Algorithm: QAOA,
		Shots:     200,
		Status:    "COMPLETED",
		CreatedAt: fixed,
	}, task)
	assert.Equal(t, testDevice().ARN, d.DeviceARN())
}
