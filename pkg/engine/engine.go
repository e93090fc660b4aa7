package engine

import (
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"retroport/internal/logger"
	"retroport/pkg/video"
)

// hotkeys the engine reacts to
var hotkeys = []glfw.Key{
	glfw.KeyEscape,
	glfw.KeyF11,
	glfw.KeyF10,
	glfw.KeyF9,
	glfw.KeyF8,
	glfw.KeyF7,
	glfw.KeyF6,
	glfw.KeyLeftShift,
	glfw.KeyRightShift,
}

// keyInput reports held keys and keys that went down this frame
type keyInput interface {
	IsKeyPressed(key glfw.Key) bool
	IsKeyDown(key glfw.Key) bool
}

// gameWindow is a window manager the loop can ask to close
type gameWindow interface {
	video.WindowManager
	ShouldClose() bool
	RequestClose()
}

// closableRenderer is a renderer that owns resources beyond the session
type closableRenderer interface {
	video.Renderer
	Close()
}

// Engine runs the game loop on top of a video session and its GLFW/OpenGL backends
type Engine struct {
	log      *logger.Logger
	session  *video.Session
	window   gameWindow
	renderer *OpenGLRenderer
	input    *InputHandler

	lastUpdate time.Time
	clock      float64
	sceneFB    int
	sprites    []sprite
}

// NewEngine creates an engine for session. The session's configuration must
// already be loaded.
func NewEngine(session *video.Session, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Engine{
		log:     log.Named("engine"),
		session: session,
		sceneFB: -1,
		sprites: []sprite{newSprite(checkerImage(checkerSize, checkerCell))},
	}
}

// Init opens the window and renderer and initializes the session on them
func (e *Engine) Init() error {
	window := NewGLFWWindow(e.log)
	renderer := NewOpenGLRenderer(e.log)
	renderer.SetCommandProcessor(e.processCommands)

	if err := e.initSession(window, renderer); err != nil {
		return err
	}
	e.window, e.renderer = window, renderer
	e.input = NewInputHandler(window.window, hotkeys...)

	if e.session.FramebuffersSupported() {
		w, h := uint32(e.session.NativeWidth()), uint32(e.session.NativeHeight())
		e.sceneFB = e.session.CreateFramebuffer(w, h, true, true)
		if e.sceneFB < 0 {
			e.log.Warn("scene framebuffer unavailable, drawing straight to the window")
		}
	}
	return nil
}

// initSession initializes the session on the backends and releases both
// when that fails
func (e *Engine) initSession(wm gameWindow, r closableRenderer) error {
	if err := e.session.Init(wm, r); err != nil {
		r.Close()
		wm.Close()
		return fmt.Errorf("failed to initialize video: %w", err)
	}
	return nil
}

// Run loops until the window is asked to close
func (e *Engine) Run() {
	e.lastUpdate = time.Now()

	for !e.window.ShouldClose() {
		e.window.HandleEvents()
		if !e.window.StartFrame() {
			break
		}

		currentTime := time.Now()
		deltaTime := currentTime.Sub(e.lastUpdate).Seconds()
		e.lastUpdate = currentTime

		e.input.Update()
		e.handleHotkeys(e.input)
		e.update(deltaTime)
		e.render()
	}
}

// handleHotkeys applies the video hotkeys pressed this frame
func (e *Engine) handleHotkeys(keys keyInput) {
	s := e.session

	if keys.IsKeyPressed(glfw.KeyEscape) {
		e.window.RequestClose()
	}
	if keys.IsKeyPressed(glfw.KeyF11) {
		s.SetFullscreen(!s.RequestedFullscreen())
		e.log.Infof("fullscreen %v", s.Fullscreen())
	}
	if keys.IsKeyPressed(glfw.KeyF10) {
		next := nextDisplayMode(s.DisplayModeIndex(), s.NumDisplayModes())
		if keys.IsKeyDown(glfw.KeyLeftShift) || keys.IsKeyDown(glfw.KeyRightShift) {
			next = prevDisplayMode(s.DisplayModeIndex(), s.NumDisplayModes())
		}
		if dm, ok := s.DisplayMode(next); ok && next != 0 {
			s.SetDisplayMode(next)
			e.log.Infof("display mode %d: %v", next, dm)
		}
	}
	if keys.IsKeyPressed(glfw.KeyF9) {
		s.SetTextureFilter(nextFilter(s.TextureFilter()))
		e.log.Infof("texture filter %v", s.TextureFilter())
	}
	if keys.IsKeyPressed(glfw.KeyF8) {
		s.SetMaximizeWindow(!s.RequestedMaximize())
		e.log.Infof("maximized %v", s.MaximizeWindow())
	}
	if keys.IsKeyPressed(glfw.KeyF7) {
		if s.VSync() != 0 {
			s.SetVSync(0)
		} else {
			s.SetVSync(1)
		}
		e.log.Infof("vsync %d, framerate limit %d", s.VSync(), s.FramerateLimit())
	}
	if keys.IsKeyPressed(glfw.KeyF6) {
		// textures are uploaded again on their next draw
		s.ResetTextureCache()
		e.log.Info("texture cache reset")
	}
}

// nextDisplayMode cycles through the catalog's concrete modes, skipping Custom
func nextDisplayMode(current, count int) int {
	if count <= 1 {
		return 0
	}
	next := current + 1
	if next >= count {
		next = 1
	}
	return next
}

// prevDisplayMode walks the catalog backwards, skipping Custom
func prevDisplayMode(current, count int) int {
	if count <= 1 {
		return 0
	}
	prev := current - 1
	if prev < 1 {
		prev = count - 1
	}
	return prev
}

func nextFilter(f video.FilterMode) video.FilterMode {
	return (f + 1) % (video.MaxFilterMode + 1)
}

func (e *Engine) update(deltaTime float64) {
	e.clock += deltaTime
}

// render draws the scene into the native-resolution framebuffer when there is
// one and scales it into the window
func (e *Engine) render() {
	s := e.session
	s.StartFrame()

	if e.sceneFB > 0 {
		s.SetFramebuffer(e.sceneFB)
	}
	s.SubmitCommands(e.sceneCommands())
	if e.sceneFB > 0 {
		s.ResetFramebuffer()
		s.CopyFramebuffer(0, e.sceneFB, 0, 0)
	}

	s.EndFrame()
}

// Close shuts down the session and releases the backends
func (e *Engine) Close() {
	e.log.Info("Shutting down engine...")
	for _, sp := range e.sprites {
		e.session.FreeCachedTexture(sp.id)
	}
	e.session.Shutdown()
	if e.renderer != nil {
		e.renderer.Close()
	}
	if e.window != nil {
		e.window.Close()
	}
}
