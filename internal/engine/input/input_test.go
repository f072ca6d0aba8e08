package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestEscapeKeycode(t *testing.T) {
	if KeyEscape != 27 {
		t.Errorf("KeyEscape = %d, want 27", KeyEscape)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, Event{Type: EventQuit}, true},
		{
			"resize",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 1024, Data2: 768},
			Event{Type: EventResize, Width: 1024, Height: 768},
			true,
		},
		{"expose", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_EXPOSED}, Event{Type: EventExpose}, true},
		{"close", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_CLOSE}, Event{Type: EventQuit}, true},
		{"window moved", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MOVED}, Event{Type: EventNone}, false},
		{
			"escape down",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}},
			Event{Type: EventKeyDown, Key: KeyEscape},
			true,
		},
		{
			"key up ignored",
			&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Sym: sdl.K_a}},
			Event{Type: EventNone},
			false,
		},
		{"mouse ignored", &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION}, Event{Type: EventNone}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.event)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Translate() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
