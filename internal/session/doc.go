// Package session is the desktop-session state machine.
//
// All session state (settings, windows, processes, notifications) is
// mutated from one control thread driven by a cooperative tick loop.
// Each tick, in order: refresh the clock, poll window-server events,
// poll and dispatch input, reap exited apps, drain command completions
// and queued panel commands. Rendering is delegated to the external
// compositor layer, which reads state and never mutates it.
//
// Panel clients mutate state only through Do, which serializes the
// closure onto the control thread; that makes the session the single
// authoritative owner of its state.
package session
