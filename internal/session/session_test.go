package session_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/blue-environment/blued/internal/config"
	"github.com/blue-environment/blued/internal/display"
	"github.com/blue-environment/blued/internal/hotkey"
	"github.com/blue-environment/blued/internal/logging"
	"github.com/blue-environment/blued/internal/monitoring"
	"github.com/blue-environment/blued/internal/session"
	"github.com/blue-environment/blued/internal/sink"
	"github.com/blue-environment/blued/internal/window"
)

// fakeSink records submissions; Completions is a pre-loadable buffer.
type fakeSink struct {
	submitted   []string
	completions chan sink.Completion
}

func newFakeSink() *fakeSink {
	return &fakeSink{completions: make(chan sink.Completion, 8)}
}

func (f *fakeSink) Submit(program string, args ...string) {
	f.submitted = append(f.submitted, strings.Join(append([]string{program}, args...), " "))
}

func (f *fakeSink) Query(_ context.Context, _ string, _ ...string) (string, error) {
	return "", nil
}

func (f *fakeSink) Completions() <-chan sink.Completion { return f.completions }

func newTestSession(t *testing.T) (*session.Session, *display.Headless, *fakeSink) {
	t.Helper()
	cfg, err := config.Load("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("loading built-in config: %v", err)
	}
	disp := display.NewHeadless()
	snk := newFakeSink()
	sess := session.New(cfg, disp, disp, snk, nil, logging.NewNop())
	return sess, disp, snk
}

func TestVolumeHotkeys(t *testing.T) {
	sess, disp, snk := newTestSession(t)

	disp.PushKey(session.KeyEvent{Key: hotkey.KeyV, Mods: hotkey.ModLogo, Edge: hotkey.EdgePress})
	sess.Tick()

	disp.PushKey(session.KeyEvent{Key: hotkey.KeyV, Mods: hotkey.ModLogo | hotkey.ModShift, Edge: hotkey.EdgePress})
	sess.Tick()

	want := []string{
		"wpctl set-volume @DEFAULT_SINK@ 60%",
		"wpctl set-volume @DEFAULT_SINK@ 50%",
	}
	if len(snk.submitted) != len(want) {
		t.Fatalf("expected %d submissions, got %v", len(want), snk.submitted)
	}
	for i, w := range want {
		if snk.submitted[i] != w {
			t.Errorf("submission %d: got %q, want %q", i, snk.submitted[i], w)
		}
	}
}

func TestReleaseAndRepeatIgnored(t *testing.T) {
	sess, disp, snk := newTestSession(t)

	disp.PushKey(session.KeyEvent{Key: hotkey.KeyW, Mods: hotkey.ModLogo, Edge: hotkey.EdgeRelease})
	disp.PushKey(session.KeyEvent{Key: hotkey.KeyW, Mods: hotkey.ModLogo, Edge: hotkey.EdgeRepeat})
	sess.Tick()

	if len(snk.submitted) != 0 {
		t.Errorf("non-press edges must not dispatch, got %v", snk.submitted)
	}
}

func TestToggleWifiHotkey(t *testing.T) {
	sess, disp, snk := newTestSession(t)

	disp.PushKey(session.KeyEvent{Key: hotkey.KeyW, Mods: hotkey.ModLogo, Edge: hotkey.EdgePress})
	sess.Tick()

	if len(snk.submitted) != 1 || snk.submitted[0] != "nmcli radio wifi on" {
		t.Errorf("unexpected submissions %v", snk.submitted)
	}
	if !sess.Settings().Snapshot().WifiEnabled {
		t.Error("expected wifi state flipped")
	}
}

func TestWindowLifecycle(t *testing.T) {
	sess, disp, _ := newTestSession(t)

	disp.PushWindowEvent(session.WindowEvent{Kind: session.WindowMapped, ID: "win-1"})
	disp.PushWindowEvent(session.WindowEvent{Kind: session.WindowMapped, ID: "win-2"})
	sess.Tick()

	if got := sess.Windows().Count(); got != 2 {
		t.Fatalf("expected 2 tracked windows, got %d", got)
	}

	disp.PushWindowEvent(session.WindowEvent{Kind: session.WindowUnmapped, ID: "win-1"})
	sess.Tick()

	if got := sess.Windows().Count(); got != 1 {
		t.Errorf("expected 1 tracked window, got %d", got)
	}
	if _, ok := sess.Windows().Get("win-1"); ok {
		t.Error("win-1 should be gone")
	}
}

func TestPointerRaisesAndToggles(t *testing.T) {
	sess, disp, _ := newTestSession(t)

	disp.PushWindowEvent(session.WindowEvent{Kind: session.WindowMapped, ID: "win-1"})
	disp.PlaceWindow("win-1", 100, 200)
	disp.PushPointer(session.PointerEvent{X: 100, Y: 200})
	sess.Tick()

	w, ok := sess.Windows().Get("win-1")
	if !ok {
		t.Fatal("win-1 not tracked")
	}
	if !w.Fullscreen {
		t.Error("press on a window must toggle it fullscreen")
	}
}

func TestPointerOnDesktopOpensLauncher(t *testing.T) {
	sess, disp, _ := newTestSession(t)

	disp.PushPointer(session.PointerEvent{X: 5, Y: 5})
	sess.Tick()

	// The stock launcher path does not exist here, so the attempt is
	// visible as a notification either way.
	all := sess.Notifications().All()
	if len(all) != 1 || !strings.Contains(all[0], window.DefaultLauncher) {
		t.Errorf("expected a launcher launch attempt, got %v", all)
	}
}

func TestDoDrainsOnTick(t *testing.T) {
	sess, _, _ := newTestSession(t)

	done := make(chan struct{})
	go func() {
		sess.Do(func() { sess.Settings().AdjustVolume(0.1) })
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		sess.Tick()
		select {
		case <-done:
			if got := sess.Settings().Snapshot().Volume; got != 0.6 {
				t.Errorf("expected volume 0.6, got %v", got)
			}
			return
		case <-deadline:
			t.Fatal("Do never completed")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestCompletionFailuresAreLogged(t *testing.T) {
	sess, _, snk := newTestSession(t)

	snk.completions <- sink.Completion{
		Command: "brightnessctl set 40%",
		Err:     context.DeadlineExceeded,
	}
	sess.Tick()

	all := sess.Notifications().All()
	if len(all) != 1 || !strings.HasPrefix(all[0], "Command failed: brightnessctl set 40%:") {
		t.Errorf("expected a command failure notification, got %v", all)
	}
}

func TestNotificationCounterSurvivesClear(t *testing.T) {
	cfg, err := config.Load("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("loading built-in config: %v", err)
	}
	disp := display.NewHeadless()
	metrics := monitoring.NewMetrics()
	sess := session.New(cfg, disp, disp, newFakeSink(), metrics, logging.NewNop())

	sess.Notifications().Append("one")
	sess.Notifications().Append("two")
	sess.Notifications().Clear()
	sess.Notifications().Append("three")
	sess.Tick()

	if got := testutil.ToFloat64(metrics.Notifications); got != 3 {
		t.Errorf("expected 3 counted appends, got %v", got)
	}
}

func TestStartupTasks(t *testing.T) {
	sess, _, snk := newTestSession(t)

	sess.Startup(context.Background())

	want := []string{"powerprofilesctl set power-saver", "mako"}
	if len(snk.submitted) != len(want) {
		t.Fatalf("expected %d startup submissions, got %v", len(want), snk.submitted)
	}
	for i, w := range want {
		if snk.submitted[i] != w {
			t.Errorf("startup submission %d: got %q, want %q", i, snk.submitted[i], w)
		}
	}
}
