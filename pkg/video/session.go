// Package video sits between the game loop and two pluggable backends: a
// window manager and a renderer. It owns the requested display configuration,
// the frame lifecycle and the display-mode catalog, and keeps what was asked
// for consistent with what the window manager actually shows.
//
// A Session is driven from a single goroutine and does no locking.
package video

import (
	"errors"
	"fmt"

	"retroport/internal/logger"
)

// ErrAlreadyInitialized is returned by a second call to Init
var ErrAlreadyInitialized = errors.New("video session already initialized")

const (
	defaultTitle = "Retro Port"

	// window position used when the window is not centered
	defaultPosX = 100
	defaultPosY = 100

	nativeWidth  = 320
	nativeHeight = 220

	fpsSampleInterval = 1.0
)

// FrameState is the position in the frame lifecycle
type FrameState int

const (
	Uninitialized FrameState = iota
	Ready
	InFrame
)

func (f FrameState) String() string {
	switch f {
	case Ready:
		return "ready"
	case InFrame:
		return "in-frame"
	default:
		return "uninitialized"
	}
}

// FrameTiming holds monotonic frame counters and the last frame's timestamps
type FrameTiming struct {
	Start            float64
	End              float64
	Frames           uint32
	FramesThisSecond uint32
	Batches          uint32
	NextSample       float64
}

// Options configures a Session
type Options struct {
	// Title is the initial window title
	Title string
	// Platform overrides the build's default platform profile
	Platform *Platform
	Logger   *logger.Logger
}

// Session is the video controller. The zero value is not usable; use NewSession.
type Session struct {
	title    string
	platform Platform
	log      *logger.Logger

	wm WindowManager
	r  Renderer

	state  State
	frame  FrameState
	timing FrameTiming
	modes  catalog
}

// NewSession creates an uninitialized session seeded with platform defaults
func NewSession(opts Options) *Session {
	p := DefaultPlatform()
	if opts.Platform != nil {
		p = *opts.Platform
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	title := opts.Title
	if title == "" {
		title = defaultTitle
	}

	return &Session{
		title:    title,
		platform: p,
		log:      log.Named("video"),
		state:    defaultState(p),
		modes:    newCatalog(),
	}
}

// SetLogger replaces the session's logger. The config store usually has to be
// loaded, with the session registered, before the application logger exists.
func (s *Session) SetLogger(log *logger.Logger) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	s.log = log.Named("video")
}

// Init creates the window, binds the renderer to it, enumerates display modes
// and applies vsync, the framerate limit and the texture filter. It runs once,
// before the first frame.
func (s *Session) Init(wm WindowManager, r Renderer) error {
	if s.frame != Uninitialized {
		return ErrAlreadyInitialized
	}
	if wm == nil || r == nil {
		return errors.New("video: window manager and renderer are required")
	}

	st := &s.state

	r.SetNativeViewport(Viewport{
		Width:  nativeWidth,
		Height: nativeHeight,
		Aspect: float32(nativeWidth) / float32(nativeHeight),
	})
	r.SetFramebuffersEnabled(st.Framebuffers)
	r.SetDetailTextures(st.DetailTextures)
	r.SetMSAALevel(int(st.MSAA))

	settings := s.windowSettings()
	if err := wm.Init(settings); err != nil {
		return fmt.Errorf("failed to initialize window manager: %w", err)
	}
	if err := r.Init(wm); err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	s.wm, s.r = wm, r

	if err := s.RefreshDisplayModes(); err != nil {
		s.log.Warnf("display modes unavailable, using %v: %v", s.modes.desktop, err)
	}

	s.applySwapInterval()
	s.applyFramerateLimit()
	r.SetTextureFilter(FilterMode(st.TextureFilter))

	s.frame = Ready
	s.log.Infof("video initialized: %dx%d fullscreen=%v exclusive=%v vsync=%d limit=%d modes=%d",
		st.Width, st.Height, st.Fullscreen, st.FullscreenExclusive, st.VSync, s.effectiveFramerateLimit(), s.modes.len())
	return nil
}

func (s *Session) windowSettings() WindowSettings {
	st := &s.state
	return WindowSettings{
		Title:               s.title,
		Width:               int(st.Width),
		Height:              int(st.Height),
		X:                   defaultPosX,
		Y:                   defaultPosY,
		Fullscreen:          st.Fullscreen,
		FullscreenExclusive: st.FullscreenExclusive,
		Maximized:           st.Maximize,
		Centered:            st.Center,
		AllowHiDpi:          st.AllowHiDpi,
		Samples:             int(st.MSAA),
	}
}

// applySwapInterval falls back to no vsync when the backend refuses the interval
func (s *Session) applySwapInterval() {
	st := &s.state
	if !s.wm.SetSwapInterval(int(st.VSync)) {
		s.log.Warnf("swap interval %d not supported, disabling vsync", st.VSync)
		st.VSync = 0
	}
}

// effectiveFramerateLimit is the limit the window manager enforces. With vsync
// off and no configured limit the platform maximum applies. The cap is never
// stored as the configured limit.
func (s *Session) effectiveFramerateLimit() int {
	st := &s.state
	if st.VSync == 0 && st.FramerateLimit == 0 {
		return int(s.platform.MaxFPS)
	}
	return int(st.FramerateLimit)
}

func (s *Session) applyFramerateLimit() {
	limit := s.effectiveFramerateLimit()
	if limit != int(s.state.FramerateLimit) {
		s.log.Infof("vsync off and no framerate limit, capping at %d fps", limit)
	}
	s.wm.SetTargetFPS(limit)
}

func (s *Session) ready() bool {
	return s.frame != Uninitialized
}

// StartFrame begins a frame. It does nothing before Init or while a frame is open.
func (s *Session) StartFrame() {
	switch s.frame {
	case Uninitialized:
		return
	case InFrame:
		s.log.Debug("StartFrame called inside a frame, ignored")
		return
	}

	s.timing.Start = s.wm.Time()
	s.r.StartFrame()
	s.frame = InFrame
}

// SubmitCommands hands a command batch to the renderer. Only valid inside a frame.
func (s *Session) SubmitCommands(cmds DisplayList) {
	if s.frame != InFrame {
		if s.ready() {
			s.log.Debug("SubmitCommands called outside a frame, ignored")
		}
		return
	}

	s.r.Run(cmds)
	s.timing.Batches++
}

// EndFrame finishes the open frame and refreshes the fps readout once a second
func (s *Session) EndFrame() {
	if s.frame != InFrame {
		if s.ready() {
			s.log.Debug("EndFrame called without StartFrame, ignored")
		}
		return
	}

	s.r.EndFrame()
	t := &s.timing
	t.End = s.wm.Time()
	t.Frames++
	t.FramesThisSecond++

	if t.End >= t.NextSample {
		s.wm.SetWindowTitle(fmt.Sprintf("fps %3d frt %f frm %d", t.FramesThisSecond, t.End-t.Start, t.Frames))
		t.FramesThisSecond = 0
		t.NextSample = t.End + fpsSampleInterval
	}

	s.frame = Ready
}

// ClearScreen runs an empty frame
func (s *Session) ClearScreen() {
	s.StartFrame()
	s.EndFrame()
}

// FrameState reports where the session is in the frame lifecycle
func (s *Session) FrameState() FrameState {
	return s.frame
}

// Timing returns a copy of the frame counters
func (s *Session) Timing() FrameTiming {
	return s.timing
}

// FrameTime is the duration of the last completed frame in seconds
func (s *Session) FrameTime() float64 {
	return s.timing.End - s.timing.Start
}

// WindowHandle returns the backend's native window, or nil before Init
func (s *Session) WindowHandle() interface{} {
	if !s.ready() {
		return nil
	}
	return s.wm.WindowHandle()
}

// Platform returns the profile the session was seeded from
func (s *Session) Platform() Platform {
	return s.platform
}

// Requested returns a copy of the requested configuration
func (s *Session) Requested() State {
	return s.state
}

// Shutdown releases the display-mode catalog. The window manager and renderer
// belong to whoever created them and are left open.
func (s *Session) Shutdown() {
	if !s.ready() {
		return
	}
	if s.frame == InFrame {
		s.log.Warn("shutdown inside an open frame")
	}
	s.modes.release()
	s.wm, s.r = nil, nil
	s.frame = Uninitialized
	s.log.Info("video shut down")
}
