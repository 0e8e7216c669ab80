package tariff

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/robbyt/go-polyscript/engines/starlark"
	"github.com/robbyt/go-polyscript/platform"
	"github.com/robbyt/go-polyscript/platform/constants"
	"github.com/robbyt/go-polyscript/platform/data"
	"github.com/robbyt/go-polyscript/platform/script/loader"
)

// DefaultEvalTimeout bounds a single script evaluation when no timeout is set.
const DefaultEvalTimeout = time.Second

var _ Calculator = (*Script)(nil)

// Script is a fee policy written in Starlark. The script reads the stay from
// ctx["stay"] (keys seconds, hours, subscriber, hourly_rate) and assigns the
// fee to the global "_". Branching statements (if, for) are only allowed
// inside a def:
//
//	stay = ctx.get("stay", {})
//	_ = 0.0 if stay.get("subscriber") else 1.0 + stay.get("hours", 0.0) * 2.0
type Script struct {
	source    string
	timeout   time.Duration
	logger    *slog.Logger
	evaluator platform.Evaluator
}

// NewScript compiles a Starlark policy from inline code or from a uri
// (file://, plain path, http:// or https://). Exactly one must be set.
func NewScript(code, uri string, timeout time.Duration, handler slog.Handler) (*Script, error) {
	if code == "" && uri == "" {
		return nil, ErrMissingCodeAndURI
	}
	if code != "" && uri != "" {
		return nil, ErrBothCodeAndURI
	}
	if handler == nil {
		handler = slog.Default().Handler()
	}

	scriptLoader, err := newLoader(code, uri)
	if err != nil {
		return nil, err
	}
	eval, err := starlark.FromStarlarkLoader(handler, scriptLoader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompilationFailed, err)
	}

	source := "inline"
	if uri != "" {
		source = uri
	}
	if timeout <= 0 {
		timeout = DefaultEvalTimeout
	}
	return &Script{
		source:    source,
		timeout:   timeout,
		logger:    slog.New(handler).WithGroup("tariff"),
		evaluator: eval,
	}, nil
}

// Fee implements Calculator. Subscribers are passed to the script like any
// other stay; the policy decides.
func (s *Script) Fee(ctx context.Context, stay Stay) (float64, error) {
	evalCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	provider := data.NewContextProvider(constants.EvalData)
	enriched, err := provider.AddDataToContext(evalCtx, map[string]any{"stay": stay.evalData()})
	if err != nil {
		return 0, fmt.Errorf("failed to add stay data: %w", err)
	}

	start := time.Now()
	result, err := s.evaluator.Eval(enriched)
	if err != nil {
		return 0, fmt.Errorf("tariff script failed: %w", err)
	}
	s.logger.Debug("Tariff script evaluated", "source", s.source, "duration", time.Since(start))

	fee, err := toFloat(result.Interface())
	if err != nil {
		return 0, err
	}
	return checkFee(fee)
}

func (s *Script) String() string {
	return fmt.Sprintf("Script(source=%s, timeout=%s)", s.source, s.timeout)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedResult, v)
	}
}

func newLoader(code, uri string) (loader.Loader, error) {
	if code != "" {
		return loader.NewFromString(code)
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return loader.NewFromHTTP(uri)
	}

	path := strings.TrimPrefix(uri, "file://")
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
		}
		path = abs
	}
	return loader.NewFromDisk(path)
}
