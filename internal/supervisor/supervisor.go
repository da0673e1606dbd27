// Package supervisor launches and reaps user applications.
//
// Each logical app name maps to at most one tracked process. A launch
// while the entry exists is a no-op reporting AlreadyRunning; the entry
// leaves the table only when a reap tick observes the process exit.
// Tracked processes are otherwise unmanaged: no captured stdio, no
// blocking wait, and they are left running when the session exits.
package supervisor

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blue-environment/blued/internal/config"
	"github.com/blue-environment/blued/internal/logging"
	"github.com/blue-environment/blued/internal/monitoring"
	"github.com/blue-environment/blued/internal/notify"
)

// Resolver maps logical app names to executable paths.
type Resolver interface {
	ResolveApp(name string) (string, error)
}

// Outcome reports what a Launch call did.
type Outcome int

const (
	// Launched means a new process was spawned and tracked.
	Launched Outcome = iota
	// AlreadyRunning means the name was tracked and nothing changed.
	AlreadyRunning
	// Failed means the spawn attempt errored; nothing is tracked.
	Failed
)

// Process describes one tracked app process.
type Process struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	PID        int       `json:"pid"`
	LaunchedAt time.Time `json:"launched_at"`
}

// entry pairs the public view with the owning process handle. The
// exited channel is the observed-state side: it is closed by the wait
// goroutine, while the table entry itself is desired state removed only
// by Reap on the control thread.
type entry struct {
	Process
	cmd    *exec.Cmd
	exited chan struct{}
}

// Supervisor tracks user-launched applications by logical name.
type Supervisor struct {
	mu       sync.RWMutex
	procs    map[string]*entry // Protected by mu
	resolver Resolver
	notes    *notify.Log
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewSupervisor creates a supervisor resolving paths through resolver
// and recording outcomes in notes.
func NewSupervisor(resolver Resolver, notes *notify.Log, log *logging.Logger) *Supervisor {
	return &Supervisor{
		procs:    make(map[string]*entry),
		resolver: resolver,
		notes:    notes,
		log:      log,
	}
}

// WithMetrics adds metrics tracking to the supervisor.
func (s *Supervisor) WithMetrics(metrics *monitoring.Metrics) *Supervisor {
	s.metrics = metrics
	return s
}

// Launch starts the app behind the logical name. A name with no config
// mapping is executed literally; that is the single resolution fallback
// rule. While the name is tracked the call is a no-op.
func (s *Supervisor) Launch(name string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.procs[name]; exists {
		return AlreadyRunning, nil
	}

	path, err := s.resolver.ResolveApp(name)
	if errors.Is(err, config.ErrAppNotMapped) {
		path = name
	} else if err != nil {
		s.notes.Append(fmt.Sprintf("Failed to launch %s: %v", name, err))
		return Failed, err
	}

	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		s.notes.Append(fmt.Sprintf("Failed to launch %s: %v", name, err))
		if s.metrics != nil {
			s.metrics.AppFailures.Inc()
		}
		s.log.Warn("app launch failed",
			zap.String("app", name),
			zap.String("path", path),
			zap.Error(err))
		return Failed, err
	}

	e := &entry{
		Process: Process{
			ID:         uuid.New().String(),
			Name:       name,
			Path:       path,
			PID:        cmd.Process.Pid,
			LaunchedAt: time.Now(),
		},
		cmd:    cmd,
		exited: make(chan struct{}),
	}
	s.procs[name] = e

	// Observed-state watcher: Wait reaps the OS zombie and flags the
	// exit; the table entry is removed only by the next Reap tick.
	go func() {
		e.cmd.Wait()
		close(e.exited)
	}()

	s.notes.Append(fmt.Sprintf("Launched %s", name))
	if s.metrics != nil {
		s.metrics.AppLaunches.Inc()
	}
	s.log.Info("app launched",
		zap.String("app", name),
		zap.String("path", path),
		zap.Int("pid", e.PID))
	return Launched, nil
}

// Reap removes entries whose process has exited. Non-blocking: each
// entry gets a single channel poll. Ordinary exits produce no
// notification.
func (s *Supervisor) Reap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, e := range s.procs {
		select {
		case <-e.exited:
			delete(s.procs, name)
			if s.metrics != nil {
				s.metrics.AppsReaped.Inc()
			}
			s.log.Debug("app reaped", zap.String("app", name), zap.Int("pid", e.PID))
		default:
		}
	}
}

// Running reports whether the logical name is currently tracked.
func (s *Supervisor) Running(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.procs[name]
	return ok
}

// List returns copies of all tracked processes.
func (s *Supervisor) List() []Process {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Process, 0, len(s.procs))
	for _, e := range s.procs {
		out = append(out, e.Process)
	}
	return out
}

// Count returns the number of tracked processes.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.procs)
}
