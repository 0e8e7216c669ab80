package writers

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWriterType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		output  string
		want    WriterType
		wantErr bool
	}{
		{"", WriterTypeStdout, false},
		{"stdout", WriterTypeStdout, false},
		{"stderr", WriterTypeStderr, false},
		{"/var/log/parklynx.log", WriterTypeFile, false},
		{"logs/parklynx.log", WriterTypeFile, false},
		{"file:///var/log/parklynx.log", WriterTypeFile, false},
		{"syslog://localhost", "", true},
		{"parklynx.log", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			got, err := ParseWriterType(tt.output)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedOutput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateWriter(t *testing.T) {
	t.Parallel()

	t.Run("standard streams", func(t *testing.T) {
		w, err := CreateWriter("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, w)

		w, err = CreateWriter("stderr")
		require.NoError(t, err)
		assert.Equal(t, os.Stderr, w)
	})

	t.Run("file with nested directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "parklynx.log")

		w, err := CreateWriter("file://" + path)
		require.NoError(t, err)
		_, err = io.WriteString(w, "vehicle parked\n")
		require.NoError(t, err)
		require.NoError(t, w.(io.Closer).Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "vehicle parked\n", string(data))
	})

	t.Run("file appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "parklynx.log")
		for _, line := range []string{"one\n", "two\n"} {
			w, err := CreateWriter(path)
			require.NoError(t, err)
			_, err = io.WriteString(w, line)
			require.NoError(t, err)
			require.NoError(t, w.(io.Closer).Close())
		}

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", string(data))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := CreateWriter("kafka://broker")
		require.ErrorIs(t, err, ErrUnsupportedOutput)
	})
}
