package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PARK_HOST", "gate.local")
	t.Setenv("PARK_PORT", "9090")
	t.Setenv("PARK_EMPTY", "")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty string", input: "", want: ""},
		{name: "no references", input: ":8080", want: ":8080"},
		{name: "single reference", input: "${PARK_HOST}", want: "gate.local"},
		{name: "embedded references", input: "${PARK_HOST}:${PARK_PORT}", want: "gate.local:9090"},
		{name: "default unused when set", input: "${PARK_PORT:8080}", want: "9090"},
		{name: "default used when unset", input: ":${PARK_UNSET_PORT:8080}", want: ":8080"},
		{name: "empty default", input: "x${PARK_UNSET:}y", want: "xy"},
		{name: "set to empty beats default", input: "${PARK_EMPTY:fallback}", want: ""},
		{name: "default with colon", input: "${PARK_UNSET:localhost:8080}", want: "localhost:8080"},
		{
			name:    "missing without default",
			input:   "${PARK_HOST}/${PARK_MISSING}",
			want:    "gate.local/${PARK_MISSING}",
			wantErr: true,
		},
		{name: "not a reference", input: "$PARK_HOST", want: "$PARK_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnvVars(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUndefinedVariable)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandEnvVars_ReportsEveryMissingVariable(t *testing.T) {
	_, err := ExpandEnvVars("${PARK_MISSING_A}-${PARK_MISSING_B}")
	require.ErrorIs(t, err, ErrUndefinedVariable)
	assert.Contains(t, err.Error(), "PARK_MISSING_A")
	assert.Contains(t, err.Error(), "PARK_MISSING_B")
}
