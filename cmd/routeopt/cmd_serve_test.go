package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lianstemp/aws-serverless-comparison/internal/config"
	"github.com/lianstemp/aws-serverless-comparison/internal/experiment"
)

func TestOpenStore_Memory(t *testing.T) {
	for _, tc := range []struct {
		env   string
		level zapcore.Level
	}{
		{"development", zapcore.InfoLevel},
		{"production", zapcore.WarnLevel},
	} {
		t.Run(tc.env, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			store, err := openStore(context.Background(), &config.Config{Environment: tc.env}, zap.New(core))
			require.NoError(t, err)
			assert.IsType(t, &experiment.MemoryStore{}, store)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.level, entries[0].Level)
		})
	}
}

// sweepStore counts DeleteExpired calls and cancels after the second one.
type sweepStore struct {
	*experiment.MemoryStore
	mu     sync.Mutex
	calls  int
	cancel context.CancelFunc
}

func (s *sweepStore) DeleteExpired(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == 1 {
		return 0, errors.New("database down")
	}
	s.cancel()
	return 3, nil
}

func TestPurgeExpired_SweepsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	core, logs := observer.New(zapcore.DebugLevel)
	store := &sweepStore{MemoryStore: experiment.NewMemoryStore(), cancel: cancel}

	done := make(chan struct{})
	go func() {
		purgeExpired(ctx, store, time.Millisecond, zap.New(core))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("purge loop did not stop")
	}

	assert.Equal(t, 2, store.calls)
	assert.Len(t, logs.FilterMessage("failed to purge expired experiments").All(), 1)
	assert.Len(t, logs.FilterMessage("purged expired experiments").All(), 1)
}

func TestPurgeExpired_MemoryStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	store := experiment.NewMemoryStore()
	require.NoError(t, store.StartExperiment(ctx, experiment.NewRecord("e1", "greedy", 3, time.Now().Add(-2*time.Hour), time.Hour)))
	require.NoError(t, store.SaveResult(ctx, experiment.ResultRecord{ID: "r1", ExperimentID: "e1", Route: []int{0, 1, 2, 0}}))

	purgeExpired(ctx, store, time.Millisecond, zap.NewNop())

	// Results carry no expiry of their own; only the sweep removes them.
	_, err := store.GetResult(context.Background(), "r1")
	require.ErrorIs(t, err, experiment.ErrNotFound)
}
