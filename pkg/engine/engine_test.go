package engine

import (
	"errors"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"

	"retroport/pkg/video"
)

var stubModes = [][2]int{{1920, 1080}, {1280, 720}}

// stubWindow is a window manager with just enough state for hotkey tests
type stubWindow struct {
	fullscreen, maximized bool
	w, h                  int
	flag                  video.FullscreenMode
	closing, closed       bool
}

func (s *stubWindow) Init(ws video.WindowSettings) error {
	s.w, s.h = ws.Width, ws.Height
	return nil
}
func (s *stubWindow) Close()                                   { s.closed = true }
func (s *stubWindow) ShouldClose() bool                        { return s.closing }
func (s *stubWindow) RequestClose()                            { s.closing = true }
func (s *stubWindow) FullscreenState() bool                    { return s.fullscreen }
func (s *stubWindow) SetFullscreen(on bool)                    { s.fullscreen = on }
func (s *stubWindow) SetFullscreenFlag(m video.FullscreenMode) { s.flag = m }
func (s *stubWindow) FullscreenFlagMode() video.FullscreenMode { return s.flag }
func (s *stubWindow) MaximizedState() bool                     { return s.maximized }
func (s *stubWindow) SetMaximize(on bool)                      { s.maximized = on }
func (s *stubWindow) Dimensions() (int, int, int, int)         { return s.w, s.h, 0, 0 }
func (s *stubWindow) SetDimensions(w, h, x, y int)             { s.w, s.h = w, h }
func (s *stubWindow) CenteredPositions(w, h int) (int, int)    { return 0, 0 }
func (s *stubWindow) SetClosestResolution(w, h int, c bool)    { s.w, s.h = w, h }
func (s *stubWindow) DisplayMode(i int) (int, int)             { return stubModes[i][0], stubModes[i][1] }
func (s *stubWindow) NumDisplayModes() int                     { return len(stubModes) }
func (s *stubWindow) CurrentDisplayMode() (int, int, bool)     { return 1920, 1080, true }
func (s *stubWindow) HandleEvents()                            {}
func (s *stubWindow) StartFrame() bool                         { return true }
func (s *stubWindow) SwapBuffersBegin()                        {}
func (s *stubWindow) SwapBuffersEnd()                          {}
func (s *stubWindow) Time() float64                            { return 0 }
func (s *stubWindow) SetTargetFPS(int)                         {}
func (s *stubWindow) WindowHandle() interface{}                { return nil }
func (s *stubWindow) SetWindowTitle(string)                    {}
func (s *stubWindow) SetSwapInterval(int) bool                 { return true }

// stubRenderer reports the stub window's size
type stubRenderer struct {
	win     *stubWindow
	native  video.Viewport
	filter  video.FilterMode
	initErr error
	closed  bool
	cleared int
	freed   []video.TextureID
}

func (r *stubRenderer) Init(video.WindowManager) error                    { return r.initErr }
func (r *stubRenderer) Close()                                            { r.closed = true }
func (r *stubRenderer) StartFrame()                                       {}
func (r *stubRenderer) Run(video.DisplayList)                             {}
func (r *stubRenderer) EndFrame()                                         {}
func (r *stubRenderer) CreateFramebuffer(uint32, uint32, bool, bool) int  { return 1 }
func (r *stubRenderer) SetFramebuffer(int, float32)                       {}
func (r *stubRenderer) ResetFramebuffer()                                 {}
func (r *stubRenderer) ResizeFramebuffer(int, uint32, uint32, bool, bool) {}
func (r *stubRenderer) CopyFramebuffer(int, int, int, int, bool)          {}
func (r *stubRenderer) FramebuffersEnabled() bool                         { return true }
func (r *stubRenderer) SetFramebuffersEnabled(bool)                       {}
func (r *stubRenderer) ClearTextureCache()                                { r.cleared++ }
func (r *stubRenderer) DeleteCachedTexture(id video.TextureID)            { r.freed = append(r.freed, id) }
func (r *stubRenderer) SetTextureFilter(m video.FilterMode)               { r.filter = m }
func (r *stubRenderer) SetDetailTextures(bool)                            {}
func (r *stubRenderer) SetMSAALevel(int)                                  {}
func (r *stubRenderer) NativeViewport() video.Viewport                    { return r.native }
func (r *stubRenderer) SetNativeViewport(vp video.Viewport)               { r.native = vp }
func (r *stubRenderer) SetWindowOffset(int, int)                          {}
func (r *stubRenderer) Dimensions() video.Dimensions {
	return video.Dimensions{Width: r.win.w, Height: r.win.h}
}

// pressed keys went down this frame and are held
type pressed map[glfw.Key]bool

func (p pressed) IsKeyPressed(key glfw.Key) bool { return p[key] }
func (p pressed) IsKeyDown(key glfw.Key) bool    { return p[key] }

func newHotkeyEngine(t *testing.T) (*Engine, *stubWindow) {
	e, win, _ := newStubEngine(t)
	return e, win
}

func newStubEngine(t *testing.T) (*Engine, *stubWindow, *stubRenderer) {
	t.Helper()
	p := video.DesktopPlatform()
	s := video.NewSession(video.Options{Platform: &p})
	win := &stubWindow{}
	r := &stubRenderer{win: win}
	e := NewEngine(s, nil)
	if err := e.initSession(win, r); err != nil {
		t.Fatal(err)
	}
	e.window = win
	return e, win, r
}

func TestHotkeyEscapeStops(t *testing.T) {
	e, win := newHotkeyEngine(t)
	e.handleHotkeys(pressed{glfw.KeyEscape: true})
	if !win.ShouldClose() {
		t.Errorf("Escape did not ask the window to close")
	}
}

func TestInitSessionFailureClosesBackends(t *testing.T) {
	p := video.DesktopPlatform()
	s := video.NewSession(video.Options{Platform: &p})
	win := &stubWindow{}
	r := &stubRenderer{win: win, initErr: errors.New("no GL 4.1 context")}

	e := NewEngine(s, nil)
	err := e.initSession(win, r)
	if err == nil {
		t.Fatal("initSession succeeded with a failing renderer")
	}
	if !errors.Is(err, r.initErr) {
		t.Errorf("error %v does not wrap the renderer failure", err)
	}
	if !r.closed || !win.closed {
		t.Errorf("renderer closed=%v window closed=%v, want both", r.closed, win.closed)
	}
	if s.FrameState() != video.Uninitialized {
		t.Errorf("session initialized after a failed init")
	}
}

func TestCloseFreesSpriteTextures(t *testing.T) {
	e, win, r := newStubEngine(t)
	e.Close()
	if len(r.freed) != len(e.sprites) || r.freed[0] != e.sprites[0].id {
		t.Errorf("freed %v, want the sprite textures", r.freed)
	}
	if !win.closed {
		t.Errorf("window left open")
	}
}

func TestHotkeyResetsTextureCache(t *testing.T) {
	e, _, r := newStubEngine(t)
	e.handleHotkeys(pressed{glfw.KeyF6: true})
	if r.cleared != 1 {
		t.Errorf("texture cache cleared %d times, want 1", r.cleared)
	}
}

func TestHotkeyFullscreenToggle(t *testing.T) {
	e, win := newHotkeyEngine(t)
	e.handleHotkeys(pressed{glfw.KeyF11: true})
	if !win.fullscreen || !e.session.RequestedFullscreen() {
		t.Fatalf("F11 did not enter fullscreen")
	}
	e.handleHotkeys(pressed{glfw.KeyF11: true})
	if win.fullscreen {
		t.Errorf("second F11 did not leave fullscreen")
	}
}

func TestHotkeyCyclesDisplayModes(t *testing.T) {
	e, win := newHotkeyEngine(t)

	// 640x480 window is Custom, so the first press picks mode 1
	e.handleHotkeys(pressed{glfw.KeyF10: true})
	if win.w != 1920 || win.h != 1080 {
		t.Fatalf("window = %dx%d, want 1920x1080", win.w, win.h)
	}
	e.handleHotkeys(pressed{glfw.KeyF10: true})
	if win.w != 1280 || win.h != 720 {
		t.Fatalf("window = %dx%d, want 1280x720", win.w, win.h)
	}
	e.handleHotkeys(pressed{glfw.KeyF10: true})
	if win.w != 1920 {
		t.Errorf("mode cycle did not wrap, window = %dx%d", win.w, win.h)
	}

	// shift walks backwards
	e.handleHotkeys(pressed{glfw.KeyF10: true, glfw.KeyLeftShift: true})
	if win.w != 1280 || win.h != 720 {
		t.Errorf("Shift+F10 window = %dx%d, want 1280x720", win.w, win.h)
	}
}

func TestHotkeyFilterMaximizeVSync(t *testing.T) {
	e, win := newHotkeyEngine(t)
	s := e.session

	e.handleHotkeys(pressed{glfw.KeyF9: true})
	if s.TextureFilter() != video.FilterThreePoint {
		t.Errorf("filter = %v after F9", s.TextureFilter())
	}

	e.handleHotkeys(pressed{glfw.KeyF8: true})
	if !win.maximized || !s.RequestedMaximize() {
		t.Errorf("F8 did not maximize")
	}

	e.handleHotkeys(pressed{glfw.KeyF7: true})
	if s.VSync() != 0 || s.FramerateLimit() != int(s.Platform().MaxFPS) {
		t.Errorf("vsync=%d limit=%d after F7", s.VSync(), s.FramerateLimit())
	}
	e.handleHotkeys(pressed{glfw.KeyF7: true})
	if s.VSync() != 1 || s.FramerateLimit() != 0 {
		t.Errorf("vsync=%d limit=%d after second F7", s.VSync(), s.FramerateLimit())
	}
}

func TestNextDisplayMode(t *testing.T) {
	tests := []struct{ current, count, want int }{
		{0, 4, 1},
		{1, 4, 2},
		{3, 4, 1},
		{0, 1, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := nextDisplayMode(tt.current, tt.count); got != tt.want {
			t.Errorf("nextDisplayMode(%d, %d) = %d, want %d", tt.current, tt.count, got, tt.want)
		}
	}
}

func TestPrevDisplayMode(t *testing.T) {
	tests := []struct{ current, count, want int }{
		{0, 4, 3},
		{1, 4, 3},
		{3, 4, 2},
		{0, 1, 0},
	}
	for _, tt := range tests {
		if got := prevDisplayMode(tt.current, tt.count); got != tt.want {
			t.Errorf("prevDisplayMode(%d, %d) = %d, want %d", tt.current, tt.count, got, tt.want)
		}
	}
}

func TestNextFilterWraps(t *testing.T) {
	if got := nextFilter(video.FilterThreePoint); got != video.FilterNone {
		t.Errorf("nextFilter(three-point) = %v", got)
	}
	if got := nextFilter(video.FilterNone); got != video.FilterLinear {
		t.Errorf("nextFilter(none) = %v", got)
	}
}
