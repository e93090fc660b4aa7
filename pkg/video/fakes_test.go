package video

import (
	"fmt"
	"strings"
)

// fakeWM records every call and keeps a simple model of the window
type fakeWM struct {
	calls []string

	settings    WindowSettings
	initErr     error
	modes       [][2]int
	current     [2]int
	currentOK   bool
	swapOK      bool
	fullscreen  bool
	maximized   bool
	flag        FullscreenMode
	w, h, x, y  int
	targetFPS   int
	title       string
	now         float64
	frameStep   float64
	swapApplied int
}

func newFakeWM() *fakeWM {
	return &fakeWM{
		modes:     [][2]int{{1920, 1080}, {1280, 720}, {640, 480}},
		current:   [2]int{1920, 1080},
		currentOK: true,
		swapOK:    true,
		frameStep: 0.25,
	}
}

func (f *fakeWM) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeWM) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeWM) reset() { f.calls = nil }

func (f *fakeWM) Init(s WindowSettings) error {
	f.record("Init")
	if f.initErr != nil {
		return f.initErr
	}
	f.settings = s
	f.w, f.h, f.x, f.y = s.Width, s.Height, s.X, s.Y
	f.fullscreen, f.maximized = s.Fullscreen, s.Maximized
	if s.FullscreenExclusive {
		f.flag = FullscreenExclusive
	}
	return nil
}

func (f *fakeWM) Close()                    { f.record("Close") }
func (f *fakeWM) FullscreenState() bool     { f.record("FullscreenState"); return f.fullscreen }
func (f *fakeWM) SetFullscreen(on bool)     { f.record("SetFullscreen(%v)", on); f.fullscreen = on }
func (f *fakeWM) MaximizedState() bool      { f.record("MaximizedState"); return f.maximized }
func (f *fakeWM) SetMaximize(on bool)       { f.record("SetMaximize(%v)", on); f.maximized = on }
func (f *fakeWM) HandleEvents()             { f.record("HandleEvents") }
func (f *fakeWM) StartFrame() bool          { f.record("StartFrame"); return true }
func (f *fakeWM) SwapBuffersBegin()         { f.record("SwapBuffersBegin") }
func (f *fakeWM) SwapBuffersEnd()           { f.record("SwapBuffersEnd") }
func (f *fakeWM) SetTargetFPS(fps int)      { f.record("SetTargetFPS(%d)", fps); f.targetFPS = fps }
func (f *fakeWM) WindowHandle() interface{} { return f }
func (f *fakeWM) NumDisplayModes() int      { return len(f.modes) }

func (f *fakeWM) SetFullscreenFlag(m FullscreenMode) {
	f.record("SetFullscreenFlag(%d)", m)
	f.flag = m
}

func (f *fakeWM) FullscreenFlagMode() FullscreenMode {
	f.record("FullscreenFlagMode")
	return f.flag
}

func (f *fakeWM) Dimensions() (int, int, int, int) { return f.w, f.h, f.x, f.y }

func (f *fakeWM) SetDimensions(w, h, x, y int) {
	f.record("SetDimensions(%d,%d,%d,%d)", w, h, x, y)
	f.w, f.h, f.x, f.y = w, h, x, y
}

func (f *fakeWM) CenteredPositions(w, h int) (int, int) {
	f.record("CenteredPositions(%d,%d)", w, h)
	return (f.current[0] - w) / 2, (f.current[1] - h) / 2
}

func (f *fakeWM) SetClosestResolution(w, h int, center bool) {
	f.record("SetClosestResolution(%d,%d,%v)", w, h, center)
	f.w, f.h = w, h
}

func (f *fakeWM) DisplayMode(i int) (int, int) { return f.modes[i][0], f.modes[i][1] }

func (f *fakeWM) CurrentDisplayMode() (int, int, bool) {
	return f.current[0], f.current[1], f.currentOK
}

func (f *fakeWM) Time() float64 {
	f.now += f.frameStep
	return f.now
}

func (f *fakeWM) SetWindowTitle(t string) { f.record("SetWindowTitle"); f.title = t }

func (f *fakeWM) SetSwapInterval(n int) bool {
	f.record("SetSwapInterval(%d)", n)
	if f.swapOK {
		f.swapApplied = n
	}
	return f.swapOK
}

// rebindingWM handles geometry rebinds itself
type rebindingWM struct {
	*fakeWM
	rebinds []RebindKind
}

func (r *rebindingWM) RebindGeometry(kind RebindKind) {
	r.record("RebindGeometry(%v)", kind)
	r.rebinds = append(r.rebinds, kind)
}

// fakeRenderer records calls; its output size follows the fake window
type fakeRenderer struct {
	calls []string

	wm        *fakeWM
	initErr   error
	viewport  Viewport
	fbEnabled bool
	detail    bool
	msaa      int
	filter    FilterMode
	nextFB    int
	offsetX   int
	offsetY   int
}

func newFakeRenderer(wm *fakeWM) *fakeRenderer {
	return &fakeRenderer{wm: wm, nextFB: 1}
}

func (r *fakeRenderer) record(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *fakeRenderer) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (r *fakeRenderer) reset() { r.calls = nil }

func (r *fakeRenderer) Init(wm WindowManager) error {
	r.record("Init")
	return r.initErr
}

func (r *fakeRenderer) StartFrame()          { r.record("StartFrame") }
func (r *fakeRenderer) Run(cmds DisplayList) { r.record("Run(%d)", len(cmds)) }
func (r *fakeRenderer) EndFrame()            { r.record("EndFrame") }

func (r *fakeRenderer) CreateFramebuffer(w, h uint32, upscale, autoResize bool) int {
	r.record("CreateFramebuffer(%d,%d,%v,%v)", w, h, upscale, autoResize)
	id := r.nextFB
	r.nextFB++
	return id
}

func (r *fakeRenderer) SetFramebuffer(target int, noise float32) {
	r.record("SetFramebuffer(%d,%g)", target, noise)
}

func (r *fakeRenderer) ResetFramebuffer() { r.record("ResetFramebuffer") }

func (r *fakeRenderer) ResizeFramebuffer(target int, w, h uint32, upscale, autoResize bool) {
	r.record("ResizeFramebuffer(%d,%d,%d,%v,%v)", target, w, h, upscale, autoResize)
}

func (r *fakeRenderer) CopyFramebuffer(dst, src, left, top int, useBack bool) {
	r.record("CopyFramebuffer(%d,%d,%d,%d,%v)", dst, src, left, top, useBack)
}

func (r *fakeRenderer) FramebuffersEnabled() bool { return r.fbEnabled }

func (r *fakeRenderer) SetFramebuffersEnabled(on bool) {
	r.record("SetFramebuffersEnabled(%v)", on)
	r.fbEnabled = on
}

func (r *fakeRenderer) ClearTextureCache() { r.record("ClearTextureCache") }

func (r *fakeRenderer) DeleteCachedTexture(id TextureID) { r.record("DeleteCachedTexture(%d)", id) }

func (r *fakeRenderer) SetTextureFilter(m FilterMode) {
	r.record("SetTextureFilter(%d)", m)
	r.filter = m
}

func (r *fakeRenderer) SetDetailTextures(on bool) {
	r.record("SetDetailTextures(%v)", on)
	r.detail = on
}
func (r *fakeRenderer) SetMSAALevel(level int)   { r.record("SetMSAALevel(%d)", level); r.msaa = level }
func (r *fakeRenderer) NativeViewport() Viewport { return r.viewport }
func (r *fakeRenderer) SetNativeViewport(vp Viewport) {
	r.record("SetNativeViewport(%d,%d)", vp.Width, vp.Height)
	r.viewport = vp
}

func (r *fakeRenderer) Dimensions() Dimensions {
	d := Dimensions{Width: r.wm.w, Height: r.wm.h}
	if d.Height != 0 {
		d.Aspect = float32(d.Width) / float32(d.Height)
	}
	return d
}

func (r *fakeRenderer) SetWindowOffset(x, y int) {
	r.record("SetWindowOffset(%d,%d)", x, y)
	r.offsetX, r.offsetY = x, y
}

// newTestSession builds an initialized desktop session on fresh fakes
func newTestSession() (*Session, *fakeWM, *fakeRenderer) {
	wm := newFakeWM()
	r := newFakeRenderer(wm)
	p := DesktopPlatform()
	s := NewSession(Options{Platform: &p})
	if err := s.Init(wm, r); err != nil {
		panic(err)
	}
	wm.reset()
	r.reset()
	return s, wm, r
}
