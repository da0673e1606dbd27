package window

import (
	"errors"
	"testing"
)

// fakeServer scripts the external window-server capability.
type fakeServer struct {
	under          map[[2]float64]ID
	raised         []ID
	fullscreenSet  []bool
	failFullscreen bool
	failRaise      bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{under: make(map[[2]float64]ID)}
}

func (f *fakeServer) WindowUnder(x, y float64) (ID, bool) {
	id, ok := f.under[[2]float64{x, y}]
	return id, ok
}

func (f *fakeServer) Raise(id ID) error {
	if f.failRaise {
		return errors.New("raise rejected")
	}
	f.raised = append(f.raised, id)
	return nil
}

func (f *fakeServer) SetFullscreen(id ID, fullscreen bool) error {
	if f.failFullscreen {
		return errors.New("reconfigure rejected")
	}
	f.fullscreenSet = append(f.fullscreenSet, fullscreen)
	return nil
}

func TestPointerPressRaisesAndTogglesFullscreen(t *testing.T) {
	srv := newFakeServer()
	srv.under[[2]float64{10, 10}] = "w1"

	m := NewManager(srv, func(string) { t.Fatal("launcher must not run") })
	m.Track("w1")

	m.PointerPress(10, 10)

	w, ok := m.Get("w1")
	if !ok {
		t.Fatal("window should be tracked")
	}
	if !w.Fullscreen {
		t.Error("expected fullscreen after first press")
	}
	if len(srv.raised) != 1 || srv.raised[0] != "w1" {
		t.Errorf("expected one raise of w1, got %v", srv.raised)
	}

	// Second press toggles back to normal.
	m.PointerPress(10, 10)
	w, _ = m.Get("w1")
	if w.Fullscreen {
		t.Error("expected normal state after second press")
	}
}

func TestPointerPressOnDesktopRunsLauncher(t *testing.T) {
	srv := newFakeServer()
	var launched string
	m := NewManager(srv, func(name string) { launched = name })

	m.PointerPress(500, 500)

	if launched != DefaultLauncher {
		t.Errorf("expected %q launch, got %q", DefaultLauncher, launched)
	}
}

func TestFailedReconfigureKeepsCachedFlag(t *testing.T) {
	srv := newFakeServer()
	srv.under[[2]float64{10, 10}] = "w1"
	srv.failFullscreen = true

	m := NewManager(srv, func(string) {})
	m.Track("w1")

	m.PointerPress(10, 10)

	w, _ := m.Get("w1")
	if w.Fullscreen {
		t.Error("cached flag must stay on last confirmed state after a rejected reconfigure")
	}
}

func TestRanksTotalOrder(t *testing.T) {
	srv := newFakeServer()
	m := NewManager(srv, func(string) {})

	m.Track("a")
	m.Track("b")
	m.Track("c")

	ranks := make(map[int]bool)
	for _, w := range m.List() {
		if ranks[w.Rank] {
			t.Fatalf("duplicate rank %d", w.Rank)
		}
		ranks[w.Rank] = true
	}
}

func TestRaiseMovesToFront(t *testing.T) {
	srv := newFakeServer()
	srv.under[[2]float64{1, 1}] = "a"

	m := NewManager(srv, func(string) {})
	m.Track("a")
	m.Track("b")

	m.PointerPress(1, 1)

	list := m.List()
	if front := list[len(list)-1]; front.ID != "a" {
		t.Errorf("expected a frontmost after raise, got %s", front.ID)
	}
}

func TestShowDesktopRestoresAll(t *testing.T) {
	srv := newFakeServer()
	srv.under[[2]float64{1, 1}] = "a"

	m := NewManager(srv, func(string) {})
	m.Track("a")
	m.Track("b")
	m.PointerPress(1, 1) // a goes fullscreen

	m.ShowDesktop()

	for _, w := range m.List() {
		if w.Fullscreen {
			t.Errorf("window %s still fullscreen after ShowDesktop", w.ID)
		}
	}

	// Idempotent: a second call issues the same requests without error.
	before := len(srv.fullscreenSet)
	m.ShowDesktop()
	if len(srv.fullscreenSet) != before+2 {
		t.Error("ShowDesktop must request restore for every window regardless of state")
	}
}

func TestUntrack(t *testing.T) {
	srv := newFakeServer()
	m := NewManager(srv, func(string) {})
	m.Track("a")
	m.Untrack("a")

	if m.Count() != 0 {
		t.Errorf("expected no tracked windows, got %d", m.Count())
	}
}
