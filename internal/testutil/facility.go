package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/lot"
	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/atlanticdynamic/parklynx/internal/server/facility"
	"github.com/stretchr/testify/require"
)

// NewRunningFacility starts a facility runner with capacity slots and stops
// it when the test ends.
func NewRunningFacility(t *testing.T, capacity int, opts ...facility.Option) *facility.Runner {
	t.Helper()

	sys, err := parking.New(capacity)
	require.NoError(t, err)
	attendant, err := lot.New(sys)
	require.NoError(t, err)
	r, err := facility.NewRunner(attendant, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	require.Eventually(t, r.IsRunning, time.Second, 5*time.Millisecond)

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("facility runner did not stop")
		}
	})
	return r
}
