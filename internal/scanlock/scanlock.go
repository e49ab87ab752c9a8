// Package scanlock keeps two scans from running against the same catalog,
// whether they start in this process (the task queue and the scheduler) or
// in another one (the scan CLI command next to a running server).
package scanlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
)

// ErrBusy is returned when another scan holds the lock.
var ErrBusy = errors.New("another scan is already running")

// Lock is an advisory file lock with an in-process guard.
type Lock struct {
	path string

	mu   sync.Mutex
	held bool
	fl   *flock.Flock
}

func New(path string) *Lock {
	return &Lock{path: path, fl: flock.New(path)}
}

func (l *Lock) Path() string {
	return l.path
}

// TryAcquire takes the lock without waiting. The returned func releases it
// and is safe to call more than once.
func (l *Lock) TryAcquire() (release func(), err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		return nil, ErrBusy
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return nil, ErrBusy
	}
	l.held = true

	var once sync.Once
	return func() {
		once.Do(l.release)
	}, nil
}

func (l *Lock) release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fl.Unlock(); err != nil {
		log.Warn().Err(err).Str("lock", l.path).Msg("Failed to release scan lock")
	}
	l.held = false
}
