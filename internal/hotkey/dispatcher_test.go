package hotkey

import (
	"testing"
)

func testDispatcher(fired *[]string) *Dispatcher {
	record := func(name string) func() {
		return func() { *fired = append(*fired, name) }
	}
	return NewDispatcher([]Binding{
		{Key: KeyV, Mods: ModLogo, Action: "volume_up", Run: record("volume_up")},
		{Key: KeyV, Mods: ModLogo | ModShift, Action: "volume_down", Run: record("volume_down")},
		{Key: KeyEscape, Mods: ModLogo, Action: "toggle_desktop", Run: record("toggle_desktop")},
	})
}

func TestExactModifierMatch(t *testing.T) {
	var fired []string
	d := testDispatcher(&fired)

	// logo+shift+V must dispatch volume_down only, never the
	// logo-only binding as well.
	action, ok := d.Dispatch(KeyV, ModLogo|ModShift, EdgePress)
	if !ok {
		t.Fatal("expected a dispatch")
	}
	if action != "volume_down" {
		t.Errorf("expected volume_down, got %s", action)
	}
	if len(fired) != 1 || fired[0] != "volume_down" {
		t.Errorf("expected exactly [volume_down], got %v", fired)
	}
}

func TestLogoOnlyBinding(t *testing.T) {
	var fired []string
	d := testDispatcher(&fired)

	action, ok := d.Dispatch(KeyV, ModLogo, EdgePress)
	if !ok || action != "volume_up" {
		t.Fatalf("expected volume_up, got %q (ok=%v)", action, ok)
	}
}

func TestSupersetModifierDoesNotMatch(t *testing.T) {
	var fired []string
	d := testDispatcher(&fired)

	// ctrl is held on top of logo: no binding requires that exact set.
	if _, ok := d.Dispatch(KeyEscape, ModLogo|ModCtrl, EdgePress); ok {
		t.Error("superset modifier set must not match")
	}
	if len(fired) != 0 {
		t.Errorf("expected no actions, got %v", fired)
	}
}

func TestReleaseAndRepeatIgnored(t *testing.T) {
	var fired []string
	d := testDispatcher(&fired)

	if _, ok := d.Dispatch(KeyV, ModLogo, EdgeRelease); ok {
		t.Error("release edge must not dispatch")
	}
	if _, ok := d.Dispatch(KeyV, ModLogo, EdgeRepeat); ok {
		t.Error("repeat edge must not dispatch")
	}
	if len(fired) != 0 {
		t.Errorf("expected no actions, got %v", fired)
	}
}

func TestUnboundChord(t *testing.T) {
	var fired []string
	d := testDispatcher(&fired)

	if _, ok := d.Dispatch(KeyB, ModLogo, EdgePress); ok {
		t.Error("unbound chord must not dispatch")
	}
}

func TestOnePressOneAction(t *testing.T) {
	var fired []string
	d := testDispatcher(&fired)

	d.Dispatch(KeyV, ModLogo|ModShift, EdgePress)
	d.Dispatch(KeyV, ModLogo, EdgePress)

	if len(fired) != 2 {
		t.Fatalf("expected two actions for two presses, got %v", fired)
	}
}
