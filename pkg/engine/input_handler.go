package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// keyState reads the instantaneous state of a key
type keyState interface {
	GetKey(key glfw.Key) glfw.Action
}

// InputHandler tracks key edges between frames for a fixed set of keys
type InputHandler struct {
	source       keyState
	watched      []glfw.Key
	currentKeys  map[glfw.Key]bool
	previousKeys map[glfw.Key]bool
}

// NewInputHandler watches keys on source, usually a *glfw.Window
func NewInputHandler(source keyState, keys ...glfw.Key) *InputHandler {
	return &InputHandler{
		source:       source,
		watched:      keys,
		currentKeys:  make(map[glfw.Key]bool, len(keys)),
		previousKeys: make(map[glfw.Key]bool, len(keys)),
	}
}

// Update samples the watched keys. Call once per frame after polling events.
func (ih *InputHandler) Update() {
	ih.currentKeys, ih.previousKeys = ih.previousKeys, ih.currentKeys
	for _, key := range ih.watched {
		ih.currentKeys[key] = ih.source.GetKey(key) == glfw.Press
	}
}

// IsKeyDown reports whether key is held
func (ih *InputHandler) IsKeyDown(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed reports whether key went down this frame
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}
