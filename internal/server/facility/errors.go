package facility

import "errors"

// ErrNotRunning is returned by operations submitted outside the running state.
var ErrNotRunning = errors.New("facility runner is not running")
