// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Keys the viewer reacts to.
const (
	KeyEscape     sdl.Keycode = sdl.K_ESCAPE
	KeyScreenshot sdl.Keycode = sdl.K_F12
	KeyOpen       sdl.Keycode = sdl.K_o
)

// EventType classifies a translated event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventExpose
	EventKeyDown
)

// Event represents a processed window system event.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Width  int
	Height int
}

// Input collects translated events.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Wait blocks until at least one event arrives and returns it together with
// everything else already queued.
func (i *Input) Wait() []Event {
	i.events = i.events[:0]
	for len(i.events) == 0 {
		i.add(sdl.WaitEvent())
	}
	i.drain()
	return i.events
}

func (i *Input) drain() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.add(event)
	}
}

func (i *Input) add(event sdl.Event) {
	if e, ok := Translate(event); ok {
		i.events = append(i.events, e)
	}
}

// Translate converts an SDL event. Events the viewer ignores yield false.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_EXPOSED:
			return Event{Type: EventExpose}, true
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Sym}, true
		}
	}
	return Event{Type: EventNone}, false
}
