package testutil

import (
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/atlanticdynamic/parklynx/internal/parking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRandomPort(t *testing.T) {
	t.Parallel()

	seen := map[int]bool{}
	for range 10 {
		p := GetRandomPort(t)
		assert.Positive(t, p)
		assert.False(t, seen[p], "port handed out twice")
		seen[p] = true
	}

	addr := GetRandomListeningAddr(t)
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, l.Close())
}

func TestThreadSafeBuffer(t *testing.T) {
	t.Parallel()

	var buf ThreadSafeBuffer
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fmt.Fprintf(&buf, "line %d\n", i)
		}()
	}
	wg.Wait()

	assert.True(t, buf.Contains("line 19\n"))
	buf.Reset()
	assert.Empty(t, buf.String())
}

func TestNewRunningFacility(t *testing.T) {
	t.Parallel()

	r := NewRunningFacility(t, 2)
	_, err := r.Enter(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Snapshot().Status.FreeSlots)
	assert.Equal(t, parking.LabelParked, r.Snapshot().Status.StateLabel)
}
