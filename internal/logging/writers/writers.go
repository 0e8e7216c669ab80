// Package writers resolves a log output specification to an io.Writer.
package writers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedOutput is returned for an output that is neither a standard
// stream nor a local path.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// WriterType represents the type of writer to create
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

// CreateWriter creates an io.Writer for output:
//   - "stdout" or "" writes to os.Stdout
//   - "stderr" writes to os.Stderr
//   - "file:///var/log/parklynx.log" or "/var/log/parklynx.log" appends to a
//     file, creating parent directories
func CreateWriter(output string) (io.Writer, error) {
	kind, err := ParseWriterType(output)
	if err != nil {
		return nil, err
	}

	switch kind {
	case WriterTypeStdout:
		return os.Stdout, nil
	case WriterTypeStderr:
		return os.Stderr, nil
	default:
		return openFile(strings.TrimPrefix(output, "file://"))
	}
}

// ParseWriterType classifies output without opening anything.
func ParseWriterType(output string) (WriterType, error) {
	switch {
	case output == "" || output == "stdout":
		return WriterTypeStdout, nil
	case output == "stderr":
		return WriterTypeStderr, nil
	case strings.HasPrefix(output, "file://"):
		return WriterTypeFile, nil
	case strings.Contains(output, "://"):
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOutput, output)
	case strings.ContainsAny(output, `/\`):
		return WriterTypeFile, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOutput, output)
	}
}

func openFile(path string) (io.Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}
