package finitestate

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m, err := New(slog.Default().Handler())
	require.NoError(t, err)
	assert.Equal(t, StatusNew, m.GetState())

	require.NoError(t, m.Transition(StatusBooting))
	require.NoError(t, m.Transition(StatusRunning))
	require.Error(t, m.Transition(StatusNew), "running cannot go back to new")
	require.NoError(t, m.Transition(StatusStopping))
	require.NoError(t, m.Transition(StatusStopped))
	assert.Equal(t, StatusStopped, m.GetState())
}

func TestNewOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  []string
		final string
	}{
		{"completed", []string{OpRunning, OpCompleted}, OpCompleted},
		{"refused before running", []string{OpRefused}, OpRefused},
		{"refused while running", []string{OpRunning, OpRefused}, OpRefused},
		{"failed while running", []string{OpRunning, OpFailed}, OpFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewOperation(slog.Default().Handler())
			require.NoError(t, err)
			assert.Equal(t, OpPending, m.GetState())

			for _, state := range tt.path {
				require.NoError(t, m.Transition(state))
			}
			assert.Equal(t, tt.final, m.GetState())
			assert.True(t, IsTerminal(m.GetState()))
			require.Error(t, m.Transition(OpRunning), "terminal states are final")
		})
	}

	t.Run("pending cannot complete directly", func(t *testing.T) {
		m, err := NewOperation(slog.Default().Handler())
		require.NoError(t, err)
		require.Error(t, m.Transition(OpCompleted))
	})
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminal(OpPending))
	assert.False(t, IsTerminal(OpRunning))
	assert.True(t, IsTerminal(OpCompleted))
	assert.False(t, IsTerminal("unknown"))
}
