// Package display provides stand-in display backends.
//
// The real window server (surface mapping, buffer commits, rendering)
// lives outside the session core and attaches by implementing
// session.Display and window.Server. Headless is the built-in backend
// used until one attaches, and by tests that drive events by hand.
package display

import (
	"sync"

	"github.com/blue-environment/blued/internal/session"
	"github.com/blue-environment/blued/internal/window"
)

// Headless is an event source and window-server capability with no
// surfaces behind it. Events pushed onto it are handed to the session
// on the next poll.
type Headless struct {
	mu           sync.Mutex
	windowEvents []session.WindowEvent
	keyEvents    []session.KeyEvent
	pointerInput []session.PointerEvent
	underPointer map[point]window.ID
}

type point struct{ x, y float64 }

// NewHeadless creates an empty headless display.
func NewHeadless() *Headless {
	return &Headless{underPointer: make(map[point]window.ID)}
}

// PushWindowEvent queues a window lifecycle event.
func (h *Headless) PushWindowEvent(ev session.WindowEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.windowEvents = append(h.windowEvents, ev)
}

// PushKey queues a keyboard event.
func (h *Headless) PushKey(ev session.KeyEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keyEvents = append(h.keyEvents, ev)
}

// PushPointer queues a pointer press.
func (h *Headless) PushPointer(ev session.PointerEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pointerInput = append(h.pointerInput, ev)
}

// PlaceWindow registers a window under an exact point for
// WindowUnder lookups.
func (h *Headless) PlaceWindow(id window.ID, x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.underPointer[point{x, y}] = id
}

// PollWindowEvents drains queued window events.
func (h *Headless) PollWindowEvents() []session.WindowEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	events := h.windowEvents
	h.windowEvents = nil
	return events
}

// PollInput drains queued input events.
func (h *Headless) PollInput() ([]session.KeyEvent, []session.PointerEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys, pointers := h.keyEvents, h.pointerInput
	h.keyEvents = nil
	h.pointerInput = nil
	return keys, pointers
}

// WindowUnder reports the window placed at the exact point, if any.
func (h *Headless) WindowUnder(x, y float64) (window.ID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.underPointer[point{x, y}]
	return id, ok
}

// Raise accepts every raise request; there is no surface to reorder.
func (h *Headless) Raise(id window.ID) error {
	return nil
}

// SetFullscreen accepts every reconfigure request.
func (h *Headless) SetFullscreen(id window.ID, fullscreen bool) error {
	return nil
}
