// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package device

import "sync"

// NullWindow is a deterministic, dependency-free Window used by tests and
// by documentation examples. It never touches a real OS window; events are
// injected with Inject and drained with Poll like a real backend would
// drain its native event queue.
type NullWindow struct {
	mu         sync.Mutex
	title      string
	x, y, w, h int
	alive      bool
	fullscreen bool
	queue      []Event
}

// NewNull creates a NullWindow at the given geometry. Geometry matches the
// constructor signature of a real platform backend.
func NewNull(title string, x, y, w, h int) *NullWindow {
	return &NullWindow{title: title, x: x, y: y, w: w, h: h}
}

func (n *NullWindow) Open()  { n.mu.Lock(); n.alive = true; n.mu.Unlock() }
func (n *NullWindow) Dispose() {
	n.mu.Lock()
	n.alive = false
	n.mu.Unlock()
}
func (n *NullWindow) IsAlive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.alive
}
func (n *NullWindow) Size() (x, y, width, height int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.x, n.y, n.w, n.h
}
func (n *NullWindow) IsFullScreen() bool { return n.fullscreen }
func (n *NullWindow) ToggleFullScreen()  { n.fullscreen = !n.fullscreen }
func (n *NullWindow) ShowCursor(show bool) {}
func (n *NullWindow) SetCursorAt(x, y int) {}
func (n *NullWindow) SwapBuffers()         {}

// Inject queues an event as though the native layer had produced it.
// Safe to call from any goroutine.
func (n *NullWindow) Inject(e Event) {
	n.mu.Lock()
	n.queue = append(n.queue, e)
	n.mu.Unlock()
}

// Poll drains and returns all injected events since the last call.
func (n *NullWindow) Poll() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	events := n.queue
	n.queue = nil
	return events
}
