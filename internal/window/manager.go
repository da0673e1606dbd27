// Package window tracks stacking order and fullscreen state.
//
// The window server owns the surfaces; the manager holds only a
// back-reference per window (handle, stacking rank, cached fullscreen
// flag) and asks the server to apply state changes. When the server
// rejects a reconfigure, the cached flag keeps its last confirmed
// value.
package window

import (
	"sort"
	"sync"
)

// ID is an opaque window handle owned by the external window server.
type ID string

// Server is the external window-server capability the manager drives.
type Server interface {
	// WindowUnder returns the topmost window at the given point.
	WindowUnder(x, y float64) (ID, bool)
	// Raise brings a window to the front of the server's stack.
	Raise(id ID) error
	// SetFullscreen requests the surface enter or leave fullscreen.
	SetFullscreen(id ID, fullscreen bool) error
}

// Window is the manager's back-reference to a server-owned surface.
type Window struct {
	ID         ID
	Rank       int
	Fullscreen bool
}

// Manager maintains window z-order and per-window fullscreen flags.
type Manager struct {
	mu       sync.RWMutex
	windows  map[ID]*Window // Protected by mu
	nextRank int            // Protected by mu; monotonic, so ranks never tie
	server   Server
	launch   func(name string)
}

// DefaultLauncher is the logical app launched by a press on bare desktop.
const DefaultLauncher = "blue-launcher"

// NewManager creates a window manager over the given server capability.
// launch is invoked for the default-launcher action.
func NewManager(server Server, launch func(name string)) *Manager {
	return &Manager{
		windows: make(map[ID]*Window),
		server:  server,
		launch:  launch,
	}
}

// Track registers a newly mapped window at the front of the stack.
func (m *Manager) Track(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.windows[id]; exists {
		return
	}
	m.nextRank++
	m.windows[id] = &Window{ID: id, Rank: m.nextRank}
}

// Untrack forgets an unmapped window.
func (m *Manager) Untrack(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, id)
}

// PointerPress handles a pointer press at the given point: raise the
// window under it and toggle its fullscreen state, or run the default
// launcher when the press lands on bare desktop.
func (m *Manager) PointerPress(x, y float64) {
	id, found := m.server.WindowUnder(x, y)
	if !found {
		m.launch(DefaultLauncher)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, tracked := m.windows[id]
	if !tracked {
		// The server knows a window we have not seen mapped yet.
		m.nextRank++
		w = &Window{ID: id, Rank: m.nextRank}
		m.windows[id] = w
	}

	if err := m.server.Raise(id); err == nil {
		m.nextRank++
		w.Rank = m.nextRank
	}

	target := !w.Fullscreen
	if err := m.server.SetFullscreen(id, target); err != nil {
		// Keep the cached flag on the last confirmed external state.
		return
	}
	w.Fullscreen = target
}

// ShowDesktop requests every tracked window restore to normal state.
// Idempotent: already-normal windows are asked again regardless.
func (m *Manager) ShowDesktop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.windows {
		if err := m.server.SetFullscreen(w.ID, false); err != nil {
			continue
		}
		w.Fullscreen = false
	}
}

// Get returns a copy of the tracked window state.
func (m *Manager) Get(id ID) (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// List returns copies of all tracked windows, frontmost last.
func (m *Manager) List() []Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// Count returns the number of tracked windows.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.windows)
}
