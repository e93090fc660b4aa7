package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"retroport/internal/logger"
	"retroport/internal/util"
	"retroport/pkg/video"
)

// swap_control_tear is what makes a negative (adaptive) swap interval legal
var tearExtensions = []string{"WGL_EXT_swap_control_tear", "GLX_EXT_swap_control_tear"}

// GLFWWindow is the GLFW implementation of video.WindowManager. It owns the
// window, the GL context and the primary monitor's mode list.
type GLFWWindow struct {
	log     *logger.Logger
	window  *glfw.Window
	monitor *glfw.Monitor
	modes   []videoMode

	exclusive bool

	// windowed geometry, restored when leaving fullscreen
	winX, winY, winW, winH int

	targetFPS  int
	frameStart time.Time
}

// NewGLFWWindow creates an unopened window manager. Init opens the window.
func NewGLFWWindow(log *logger.Logger) *GLFWWindow {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &GLFWWindow{log: log.Named("glfw")}
}

// Init creates the window and makes its GL context current
func (w *GLFWWindow) Init(s video.WindowSettings) error {
	if w.window != nil {
		return errors.New("glfw window already open")
	}
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Maximized, int(util.BoolToInt(s.Maximized)))
	glfw.WindowHint(glfw.ScaleToMonitor, int(util.BoolToInt(s.AllowHiDpi)))
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, int(util.BoolToInt(s.AllowHiDpi)))
	if s.Samples > 1 {
		glfw.WindowHint(glfw.Samples, s.Samples)
	}

	w.monitor = glfw.GetPrimaryMonitor()
	w.modes = w.monitorModes()
	w.exclusive = s.FullscreenExclusive

	window, err := glfw.CreateWindow(s.Width, s.Height, s.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	w.window = window
	window.MakeContextCurrent()

	x, y := s.X, s.Y
	if s.Centered {
		x, y = w.CenteredPositions(s.Width, s.Height)
	}
	if !s.Maximized {
		window.SetPos(x, y)
	}
	w.winX, w.winY, w.winW, w.winH = x, y, s.Width, s.Height

	if s.Fullscreen {
		w.enterFullscreen()
	}

	window.SetKeyCallback(w.keyCallback)
	w.frameStart = time.Now()

	w.log.Infof("window %dx%d created, %d monitor modes", s.Width, s.Height, len(w.modes))
	return nil
}

// monitorModes lists the primary monitor's modes, largest first
func (w *GLFWWindow) monitorModes() []videoMode {
	if w.monitor == nil {
		return nil
	}
	vms := w.monitor.GetVideoModes()
	modes := make([]videoMode, 0, len(vms))
	for _, vm := range vms {
		modes = append(modes, videoMode{Width: vm.Width, Height: vm.Height, RefreshRate: vm.RefreshRate})
	}
	sortModes(modes)
	return modes
}

// Alt+Enter flips fullscreen without going through the session
func (w *GLFWWindow) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEnter && action == glfw.Press && mods&glfw.ModAlt != 0 {
		w.SetFullscreen(!w.FullscreenState())
	}
}

// Close destroys the window and shuts GLFW down
func (w *GLFWWindow) Close() {
	if w.window == nil {
		return
	}
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
	w.log.Info("window closed")
}

// FullscreenState reports whether the window currently owns a monitor
func (w *GLFWWindow) FullscreenState() bool {
	return w.window.GetMonitor() != nil
}

// SetFullscreen moves the window onto the monitor or back to its windowed geometry
func (w *GLFWWindow) SetFullscreen(enable bool) {
	if enable == w.FullscreenState() {
		return
	}
	if enable {
		w.rememberWindowed()
		w.enterFullscreen()
		return
	}
	w.window.SetMonitor(nil, w.winX, w.winY, w.winW, w.winH, 0)
}

func (w *GLFWWindow) rememberWindowed() {
	w.winX, w.winY = w.window.GetPos()
	w.winW, w.winH = w.window.GetSize()
}

// enterFullscreen uses the closest monitor mode for exclusive fullscreen and
// the desktop mode for borderless
func (w *GLFWWindow) enterFullscreen() {
	if w.monitor == nil {
		w.log.Warn("no monitor, staying windowed")
		return
	}
	desktop := w.monitor.GetVideoMode()
	mode := videoMode{Width: desktop.Width, Height: desktop.Height, RefreshRate: desktop.RefreshRate}
	if w.exclusive {
		if m, ok := closestMode(w.modes, w.winW, w.winH); ok {
			mode = m
		}
	}
	w.window.SetMonitor(w.monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	w.log.Debugf("fullscreen %dx%d@%d exclusive=%v", mode.Width, mode.Height, mode.RefreshRate, w.exclusive)
}

// SetFullscreenFlag picks the flavor used on the next fullscreen entry
func (w *GLFWWindow) SetFullscreenFlag(mode video.FullscreenMode) {
	w.exclusive = mode == video.FullscreenExclusive
}

// FullscreenFlagMode reports the flavor fullscreen will use
func (w *GLFWWindow) FullscreenFlagMode() video.FullscreenMode {
	if w.exclusive {
		return video.FullscreenExclusive
	}
	return video.FullscreenBorderless
}

// MaximizedState reports the window's maximized attribute
func (w *GLFWWindow) MaximizedState() bool {
	return w.window.GetAttrib(glfw.Maximized) == glfw.True
}

// SetMaximize maximizes or restores the window
func (w *GLFWWindow) SetMaximize(enable bool) {
	if enable {
		w.window.Maximize()
	} else {
		w.window.Restore()
	}
}

// RebindGeometry refreshes geometry without the off/on flicker of a toggle.
// Restore+Maximize makes GLFW re-read the work area; re-entering fullscreen
// applies a changed fullscreen flavor.
func (w *GLFWWindow) RebindGeometry(kind video.RebindKind) {
	switch kind {
	case video.RebindMaximize:
		if w.FullscreenState() {
			return
		}
		w.window.Restore()
		w.window.Maximize()
	case video.RebindFullscreen:
		if w.FullscreenState() {
			w.enterFullscreen()
		}
	}
}

// Dimensions returns the window size and position
func (w *GLFWWindow) Dimensions() (width, height, x, y int) {
	width, height = w.window.GetSize()
	x, y = w.window.GetPos()
	return width, height, x, y
}

// SetDimensions resizes and moves a windowed window. While fullscreen it only
// updates the geometry restored on exit.
func (w *GLFWWindow) SetDimensions(width, height, x, y int) {
	w.winX, w.winY, w.winW, w.winH = x, y, width, height
	if w.FullscreenState() {
		return
	}
	w.window.SetSize(width, height)
	w.window.SetPos(x, y)
}

// CenteredPositions centers a window of the given size on the primary monitor
func (w *GLFWWindow) CenteredPositions(width, height int) (x, y int) {
	if w.monitor == nil {
		return 0, 0
	}
	mx, my := w.monitor.GetPos()
	vm := w.monitor.GetVideoMode()
	return centerIn(mx, my, vm.Width, vm.Height, width, height)
}

// SetClosestResolution snaps to the nearest monitor mode. Fullscreen switches
// the monitor mode (exclusive) or keeps the desktop (borderless); windowed
// resizes the window.
func (w *GLFWWindow) SetClosestResolution(width, height int, center bool) {
	m, ok := closestMode(w.modes, width, height)
	if !ok {
		m = videoMode{Width: width, Height: height}
	}

	w.winW, w.winH = m.Width, m.Height
	if center {
		w.winX, w.winY = w.CenteredPositions(m.Width, m.Height)
	}

	if w.FullscreenState() {
		w.enterFullscreen()
		return
	}
	w.window.SetSize(m.Width, m.Height)
	if center {
		w.window.SetPos(w.winX, w.winY)
	}
}

// DisplayMode returns monitor mode index, largest first
func (w *GLFWWindow) DisplayMode(index int) (width, height int) {
	m := w.modes[index]
	return m.Width, m.Height
}

// NumDisplayModes counts the monitor's modes
func (w *GLFWWindow) NumDisplayModes() int {
	return len(w.modes)
}

// CurrentDisplayMode is the primary monitor's current mode
func (w *GLFWWindow) CurrentDisplayMode() (width, height int, ok bool) {
	if w.monitor == nil {
		return 0, 0, false
	}
	vm := w.monitor.GetVideoMode()
	if vm == nil {
		return 0, 0, false
	}
	return vm.Width, vm.Height, true
}

// HandleEvents pumps the GLFW event queue
func (w *GLFWWindow) HandleEvents() {
	glfw.PollEvents()
}

// StartFrame marks the frame start for the limiter and reports whether the
// window is still open
func (w *GLFWWindow) StartFrame() bool {
	w.frameStart = time.Now()
	return !w.window.ShouldClose()
}

// SwapBuffersBegin presents the back buffer
func (w *GLFWWindow) SwapBuffersBegin() {
	w.window.SwapBuffers()
}

// SwapBuffersEnd sleeps off the rest of the frame when a framerate limit is set
func (w *GLFWWindow) SwapBuffersEnd() {
	if d := frameDelay(w.targetFPS, time.Since(w.frameStart)); d > 0 {
		time.Sleep(d)
	}
}

// Time is seconds since GLFW was initialized
func (w *GLFWWindow) Time() float64 {
	return glfw.GetTime()
}

// SetTargetFPS sets the framerate limit, 0 for none
func (w *GLFWWindow) SetTargetFPS(fps int) {
	w.targetFPS = fps
}

// WindowHandle returns the *glfw.Window
func (w *GLFWWindow) WindowHandle() interface{} {
	return w.window
}

// SetWindowTitle sets the window title
func (w *GLFWWindow) SetWindowTitle(title string) {
	w.window.SetTitle(title)
}

// SetSwapInterval applies the interval to the current context. Adaptive
// vsync (negative) needs swap_control_tear.
func (w *GLFWWindow) SetSwapInterval(interval int) bool {
	if interval < 0 && !tearSupported() {
		return false
	}
	glfw.SwapInterval(interval)
	return true
}

func tearSupported() bool {
	for _, ext := range tearExtensions {
		if glfw.ExtensionSupported(ext) {
			return true
		}
	}
	return false
}

// ShouldClose reports whether the user asked to close the window
func (w *GLFWWindow) ShouldClose() bool {
	return w.window.ShouldClose()
}

// RequestClose flags the window for closing at the end of the frame
func (w *GLFWWindow) RequestClose() {
	w.window.SetShouldClose(true)
}

// FramebufferSize is the drawable size in pixels, which differs from the
// window size on HiDPI displays
func (w *GLFWWindow) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

var (
	_ video.WindowManager    = (*GLFWWindow)(nil)
	_ video.GeometryRebinder = (*GLFWWindow)(nil)
)
