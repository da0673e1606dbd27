package sink

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSubmitStartFailure(t *testing.T) {
	e := NewExec()

	e.Submit("/nonexistent/tool", "--flag")

	select {
	case c := <-e.Completions():
		if c.Command != "/nonexistent/tool --flag" {
			t.Errorf("unexpected command label %q", c.Command)
		}
		if c.Err == nil {
			t.Error("expected a start error")
		}
	case <-time.After(time.Second):
		t.Fatal("no completion for failed start")
	}
}

func TestSubmitExitFailure(t *testing.T) {
	e := NewExec()

	e.Submit("false")

	select {
	case c := <-e.Completions():
		if c.Command != "false" {
			t.Errorf("unexpected command label %q", c.Command)
		}
		if c.Err == nil {
			t.Error("expected an exit error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no completion for nonzero exit")
	}
}

func TestSubmitSuccessIsSilent(t *testing.T) {
	e := NewExec()

	e.Submit("true")

	select {
	case c := <-e.Completions():
		t.Fatalf("unexpected completion %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestQuery(t *testing.T) {
	e := NewExec()

	out, err := e.Query(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestQueryFailure(t *testing.T) {
	e := NewExec()

	if _, err := e.Query(context.Background(), "/nonexistent/tool"); err == nil {
		t.Error("expected error for missing program")
	}
}

func TestReportOverflowDropsOldest(t *testing.T) {
	e := NewExec()

	for i := 0; i < cap(e.completions)+1; i++ {
		e.report(Completion{Command: "cmd"})
	}
	if len(e.completions) != cap(e.completions) {
		t.Errorf("expected full buffer, got %d", len(e.completions))
	}
}
