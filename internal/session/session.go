package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blue-environment/blued/internal/config"
	"github.com/blue-environment/blued/internal/hotkey"
	"github.com/blue-environment/blued/internal/logging"
	"github.com/blue-environment/blued/internal/monitoring"
	"github.com/blue-environment/blued/internal/notify"
	"github.com/blue-environment/blued/internal/settings"
	"github.com/blue-environment/blued/internal/sink"
	"github.com/blue-environment/blued/internal/supervisor"
	"github.com/blue-environment/blued/internal/window"
)

// KeyEvent is a keyboard event delivered by the external display layer.
type KeyEvent struct {
	Key  hotkey.Key
	Mods hotkey.Modifier
	Edge hotkey.Edge
}

// PointerEvent is a pointer press delivered by the external display
// layer. Only left-button presses reach the session core.
type PointerEvent struct {
	X, Y float64
}

// WindowEventKind distinguishes window lifecycle events.
type WindowEventKind int

const (
	// WindowMapped means the server mapped a new window.
	WindowMapped WindowEventKind = iota
	// WindowUnmapped means the server removed a window.
	WindowUnmapped
)

// WindowEvent is a window lifecycle event from the window server.
type WindowEvent struct {
	Kind WindowEventKind
	ID   window.ID
}

// Display is the non-blocking event source backed by the external
// window server. Both Poll methods must return immediately.
type Display interface {
	PollWindowEvents() []WindowEvent
	PollInput() (keys []KeyEvent, pointers []PointerEvent)
}

// Session owns the desktop-session state machine.
type Session struct {
	log      *logging.Logger
	cfg      *config.Config
	display  Display
	sink     sink.Sink
	notes    *notify.Log
	apps     *supervisor.Supervisor
	settings *settings.Controller
	windows  *window.Manager
	hotkeys  *hotkey.Dispatcher
	metrics  *monitoring.Metrics

	// commands carries panel-triggered mutations onto the control
	// thread; drained once per tick.
	commands chan func()

	notified int
}

// New wires the session components over the given collaborators.
func New(cfg *config.Config, display Display, server window.Server, snk sink.Sink, metrics *monitoring.Metrics, log *logging.Logger) *Session {
	notes := notify.NewLog()

	s := &Session{
		log:      log,
		cfg:      cfg,
		display:  display,
		sink:     snk,
		notes:    notes,
		metrics:  metrics,
		commands: make(chan func(), 64),
	}

	s.apps = supervisor.NewSupervisor(cfg, notes, log).WithMetrics(metrics)
	s.settings = settings.NewController(snk, notes, log).WithMetrics(metrics)
	s.windows = window.NewManager(server, func(name string) {
		s.apps.Launch(name)
	})
	s.hotkeys = hotkey.NewDispatcher(s.bindings())

	return s
}

// bindings is the session's hotkey table. Modifier sets are matched
// exactly, so logo+shift+V cannot also fire the logo-only V binding.
func (s *Session) bindings() []hotkey.Binding {
	launch := func(name string) func() {
		return func() { s.apps.Launch(name) }
	}

	return []hotkey.Binding{
		{Key: hotkey.KeyEscape, Mods: hotkey.ModLogo, Action: "toggle_desktop", Run: s.windows.ShowDesktop},
		{Key: hotkey.KeyB, Mods: hotkey.ModLogo, Action: "launch_browser", Run: launch("browser")},
		{Key: hotkey.KeyG, Mods: hotkey.ModLogo, Action: "launch_game_launcher", Run: launch("game_launcher")},
		{Key: hotkey.KeyT, Mods: hotkey.ModLogo, Action: "launch_terminal", Run: launch("terminal")},
		{Key: hotkey.KeyS, Mods: hotkey.ModLogo, Action: "launch_software_center", Run: launch("software_center")},
		{Key: hotkey.KeyW, Mods: hotkey.ModLogo, Action: "toggle_wifi", Run: s.settings.ToggleWifi},
		{Key: hotkey.KeyL, Mods: hotkey.ModLogo, Action: "toggle_bluetooth", Run: s.settings.ToggleBluetooth},
		{Key: hotkey.KeyV, Mods: hotkey.ModLogo, Action: "volume_up", Run: func() { s.settings.AdjustVolume(0.1) }},
		{Key: hotkey.KeyV, Mods: hotkey.ModLogo | hotkey.ModShift, Action: "volume_down", Run: func() { s.settings.AdjustVolume(-0.1) }},
		{Key: hotkey.KeyK, Mods: hotkey.ModLogo, Action: "launch_wallet", Run: launch("kwalletmanager5")},
	}
}

// Startup runs the blocking seeding phase and submits the one-shot
// session side tasks. Must complete before the first tick.
func (s *Session) Startup(ctx context.Context) {
	s.settings.Seed(ctx)

	s.sink.Submit("powerprofilesctl", "set", "power-saver")
	s.sink.Submit("mako")
}

// Tick runs one pass of the session loop.
func (s *Session) Tick() {
	s.settings.RefreshClock()

	for _, ev := range s.display.PollWindowEvents() {
		switch ev.Kind {
		case WindowMapped:
			s.windows.Track(ev.ID)
		case WindowUnmapped:
			s.windows.Untrack(ev.ID)
		}
	}

	keys, pointers := s.display.PollInput()
	for _, ev := range keys {
		s.HandleKey(ev)
	}
	for _, ev := range pointers {
		s.HandlePointer(ev)
	}

	s.apps.Reap()
	s.drainCompletions()
	s.drainCommands()

	if s.metrics != nil {
		// Diff the lifetime append count, not Len: a clear between
		// ticks must not swallow the appends around it.
		n := s.notes.Appended()
		if n > s.notified {
			s.metrics.Notifications.Add(float64(n - s.notified))
		}
		s.notified = n
		s.metrics.Tick(s.apps.Count(), s.windows.Count())
	}
}

// Run drives the tick loop until the context is cancelled. Tracked
// child processes are left running on exit; the session never owns
// their lifetime beyond the reap poll.
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	s.Startup(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("session loop started", zap.Duration("tick", interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session loop stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// HandleKey dispatches one keyboard event against the hotkey table.
func (s *Session) HandleKey(ev KeyEvent) {
	action, ok := s.hotkeys.Dispatch(ev.Key, ev.Mods, ev.Edge)
	if !ok {
		return
	}
	if s.metrics != nil {
		s.metrics.RecordDispatch(action)
	}
	s.log.Debug("hotkey dispatched", zap.String("action", action))
}

// HandlePointer routes a pointer press to the window manager.
func (s *Session) HandlePointer(ev PointerEvent) {
	s.windows.PointerPress(ev.X, ev.Y)
}

// Do runs fn on the control thread and waits for it to complete.
// Callers must not invoke Do from the control thread itself.
func (s *Session) Do(fn func()) {
	done := make(chan struct{})
	s.commands <- func() {
		fn()
		close(done)
	}
	<-done
}

// drainCompletions logs late failures from fire-and-forget commands.
// Never blocks: one non-blocking receive per buffered failure.
func (s *Session) drainCompletions() {
	for {
		select {
		case c := <-s.sink.Completions():
			s.notes.Append(fmt.Sprintf("Command failed: %s: %v", c.Command, c.Err))
			if s.metrics != nil {
				s.metrics.CommandFailures.Inc()
			}
			s.log.Warn("command failed",
				zap.String("command", c.Command),
				zap.Error(c.Err))
		default:
			return
		}
	}
}

func (s *Session) drainCommands() {
	for {
		select {
		case fn := <-s.commands:
			fn()
		default:
			return
		}
	}
}

// Notifications returns the session's notification log.
func (s *Session) Notifications() *notify.Log {
	return s.notes
}

// Apps returns the app process supervisor.
func (s *Session) Apps() *supervisor.Supervisor {
	return s.apps
}

// Settings returns the settings controller.
func (s *Session) Settings() *settings.Controller {
	return s.settings
}

// Windows returns the window manager.
func (s *Session) Windows() *window.Manager {
	return s.windows
}

// Config returns the immutable config document.
func (s *Session) Config() *config.Config {
	return s.cfg
}
