// Package hotkey maps keyboard input to session actions.
//
// Matching is exact on the modifier set: a binding requiring {logo}
// never fires while shift is also held, because {logo, shift} is a
// different set. Only the press edge dispatches; release and key-repeat
// are ignored, so one physical press yields at most one action.
package hotkey

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModLogo
)

// Key identifies a key by its xkb keysym value.
type Key uint32

// Keysyms for the default binding table.
const (
	KeyEscape Key = 0xff1b
	KeyB      Key = 0x0062
	KeyG      Key = 0x0067
	KeyK      Key = 0x006b
	KeyL      Key = 0x006c
	KeyS      Key = 0x0073
	KeyT      Key = 0x0074
	KeyV      Key = 0x0076
	KeyW      Key = 0x0077
)

// Edge is the key transition that arrived with an event.
type Edge uint8

const (
	EdgePress Edge = iota
	EdgeRelease
	EdgeRepeat
)

// Binding ties a (key, exact modifier set) pair to an action.
type Binding struct {
	Key    Key
	Mods   Modifier
	Action string
	Run    func()
}

type chord struct {
	key  Key
	mods Modifier
}

// Dispatcher resolves input events against the binding table.
type Dispatcher struct {
	bindings map[chord]Binding
}

// NewDispatcher builds a dispatcher from the given bindings. A second
// binding on the same (key, modifier set) chord replaces the first.
func NewDispatcher(bindings []Binding) *Dispatcher {
	d := &Dispatcher{bindings: make(map[chord]Binding, len(bindings))}
	for _, b := range bindings {
		d.bindings[chord{key: b.Key, mods: b.Mods}] = b
	}
	return d
}

// Dispatch runs the action bound to the exact (key, mods) chord on a
// press edge. It returns the action name and whether anything fired.
func (d *Dispatcher) Dispatch(key Key, mods Modifier, edge Edge) (string, bool) {
	if edge != EdgePress {
		return "", false
	}

	b, ok := d.bindings[chord{key: key, mods: mods}]
	if !ok {
		return "", false
	}

	b.Run()
	return b.Action, true
}

// Len returns the number of registered bindings.
func (d *Dispatcher) Len() int {
	return len(d.bindings)
}
