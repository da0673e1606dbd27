// Package sink executes OS-level commands on behalf of the session.
//
// Two modes, matching how the session treats external tools:
//
//   - Submit: fire-and-forget. The command is started detached with no
//     captured stdio and the caller never waits. Failures (at start or
//     at exit) surface on the Completions channel so the session loop
//     can log them accurately instead of assuming success.
//   - Query: blocking, captured stdout. Reserved for the startup/status
//     probes (wifi, bluetooth, battery) and clipboard reads.
//
// Once submitted, a command cannot be cancelled and no timeout is
// imposed here; Query honors its context.
package sink

import (
	"context"
	"os/exec"
	"strings"
)

// Completion reports a failed submitted command. Successful commands
// complete silently.
type Completion struct {
	Command string
	Err     error
}

// Sink runs commands for the session core.
type Sink interface {
	// Submit starts program detached and returns immediately.
	Submit(program string, args ...string)
	// Query runs program to completion and returns its stdout.
	Query(ctx context.Context, program string, args ...string) (string, error)
	// Completions delivers failures from submitted commands.
	Completions() <-chan Completion
}

// Exec is the os/exec backed Sink.
type Exec struct {
	completions chan Completion
}

// NewExec creates an Exec sink. The completions buffer absorbs bursts
// between session ticks; overflow drops the oldest failure report
// rather than blocking a command's exit handler.
func NewExec() *Exec {
	return &Exec{
		completions: make(chan Completion, 128),
	}
}

// Submit starts the command and watches it from a goroutine. The
// goroutine owns the process handle; nothing else waits on it.
func (e *Exec) Submit(program string, args ...string) {
	cmd := exec.Command(program, args...)
	label := commandLabel(program, args)

	if err := cmd.Start(); err != nil {
		e.report(Completion{Command: label, Err: err})
		return
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			e.report(Completion{Command: label, Err: err})
		}
	}()
}

// Query runs the command synchronously and captures stdout.
func (e *Exec) Query(ctx context.Context, program string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, program, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Completions returns the failure feed.
func (e *Exec) Completions() <-chan Completion {
	return e.completions
}

func (e *Exec) report(c Completion) {
	select {
	case e.completions <- c:
	default:
		// Buffer full: drop the oldest report to keep the feed current.
		select {
		case <-e.completions:
		default:
		}
		select {
		case e.completions <- c:
		default:
		}
	}
}

func commandLabel(program string, args []string) string {
	if len(args) == 0 {
		return program
	}
	return program + " " + strings.Join(args, " ")
}
