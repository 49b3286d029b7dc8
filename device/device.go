// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package device provides the minimal window/input contract the engine
// requires from its host platform. The engine never talks to the OS,
// GLFW, Cocoa, or WinAPI directly: it only depends on the Window interface
// below, which is expected to be satisfied by a platform-specific shell
// that the host application supplies.
//
// Package device is provided as part of the cage 3D engine.
package device

// Big thanks to GLFW (http://www.glfw.org) from which the minimalist API
// philosophy was borrowed along with which OS specific API's mattered.

// Window wraps OS specific windowing and graphics-context functionality.
// The expected usage is:
//
//	win := device.New(backend) // backend implements Window
//	win.Open()
//	for win.IsAlive() {
//	    events := win.Poll()
//	    // application update and render code.
//	    win.SwapBuffers()
//	}
//	win.Dispose()
type Window interface {
	Open()                // Open the window and start processing events.
	ShowCursor(show bool) // Display or hide the cursor.
	SetCursorAt(x, y int) // Place the cursor at the given window location.
	Dispose()             // Release OS specific resources.

	// IsAlive returns true as long as the window is able to process input.
	// Closing the application window causes IsAlive to return false.
	IsAlive() bool

	// Size returns the usable graphics context location and size, excluding
	// any OS specific window trim. The window x,y (0,0) coordinate is the
	// bottom left of the window.
	Size() (x, y, width, height int)
	IsFullScreen() bool // True if the window is full screen.
	ToggleFullScreen()  // Flip between full screen and windowed mode.

	// SwapBuffers exchanges the graphics drawing buffers. Expected to be
	// called once per dispatched frame, from the graphics-dispatch thread.
	SwapBuffers()

	// Poll drains the OS event queue and returns everything that happened
	// since the last call. Expected to be called once per control-thread
	// input tick (see §4.1 free-running input task).
	Poll() []Event
}

// Modifier is a bitmask of held modifier keys, valid on Key and Mouse events.
type Modifier uint8

const (
	Shift Modifier = 1 << iota
	Ctrl
	Alt
	Super
)

// MouseButton identifies which physical mouse button an event refers to.
type MouseButton uint8

const (
	Left MouseButton = iota
	Middle
	Right
)

// EventKind enumerates the event vocabulary a Window may produce.
type EventKind uint8

const (
	Close EventKind = iota
	Move
	Resize
	Show
	Hide
	Paint
	Focus
	KeyPress
	KeyRelease
	KeyRepeat
	Char
	MouseMove
	MousePress
	MouseRelease
	MouseDoubleClick
	MouseWheel
)

// Event is a single polled window or input occurrence. Fields not relevant
// to Kind are left at their zero value.
type Event struct {
	Kind EventKind

	// Move/Resize.
	X, Y, Width, Height int

	// Focus/Show/Hide.
	Focused bool

	// KeyPress/KeyRelease/KeyRepeat/Char.
	Key  int
	Char rune
	Mods Modifier

	// Mouse*.
	MouseX, MouseY int
	Button         MouseButton
	WheelDelta     int
}

// New constructs a Window bound to the given platform backend. Applications
// supply their own backend (GLFW, a headless test double, ...); the core
// never instantiates one itself. See NewNull for a deterministic reference
// implementation used by tests.
func New(backend Window) Window { return backend }
