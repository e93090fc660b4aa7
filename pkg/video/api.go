package video

import "unsafe"

// FullscreenMode selects how the window manager implements fullscreen
type FullscreenMode int32

const (
	// FullscreenBorderless covers the desktop with a borderless window at desktop resolution
	FullscreenBorderless FullscreenMode = 0
	// FullscreenExclusive switches the display to the requested mode
	FullscreenExclusive FullscreenMode = 1
)

// FilterMode is the texture filtering applied by the renderer
type FilterMode uint32

const (
	FilterNone FilterMode = iota
	FilterLinear
	FilterThreePoint
)

// MaxFilterMode is the highest filter mode a renderer accepts
const MaxFilterMode = FilterThreePoint

func (f FilterMode) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterLinear:
		return "linear"
	case FilterThreePoint:
		return "three-point"
	default:
		return "unknown"
	}
}

// DisplayList is an opaque batch of draw commands. Encoding belongs to the renderer.
type DisplayList []uint64

// TextureID identifies a cached texture by the address of its source data
type TextureID uintptr

// TextureIDOf derives the cache key for pixel data. Empty data has no ID.
func TextureIDOf(pix []byte) TextureID {
	if len(pix) == 0 {
		return 0
	}
	return TextureID(uintptr(unsafe.Pointer(unsafe.SliceData(pix))))
}

// Viewport is the logical resolution the game draws into
type Viewport struct {
	Width  int
	Height int
	Aspect float32
}

// Dimensions is the renderer's current output size
type Dimensions struct {
	Width  int
	Height int
	Aspect float32
}

// WindowSettings describes the window to create
type WindowSettings struct {
	Title               string
	Width               int
	Height              int
	X                   int
	Y                   int
	Fullscreen          bool
	FullscreenExclusive bool
	Maximized           bool
	Centered            bool
	AllowHiDpi          bool
	Samples             int
}

// WindowManager abstracts the windowing system: surface, events, swap control
// and display enumeration. State getters report what is actually on screen.
type WindowManager interface {
	Init(settings WindowSettings) error
	Close()

	FullscreenState() bool
	SetFullscreen(enable bool)
	SetFullscreenFlag(mode FullscreenMode)
	FullscreenFlagMode() FullscreenMode
	MaximizedState() bool
	SetMaximize(enable bool)

	Dimensions() (width, height, x, y int)
	SetDimensions(width, height, x, y int)
	CenteredPositions(width, height int) (x, y int)
	SetClosestResolution(width, height int, center bool)

	// DisplayMode returns base mode i in the backend's native order (largest first)
	DisplayMode(index int) (width, height int)
	NumDisplayModes() int
	CurrentDisplayMode() (width, height int, ok bool)

	HandleEvents()
	StartFrame() bool
	SwapBuffersBegin()
	SwapBuffersEnd()
	Time() float64
	SetTargetFPS(fps int)
	WindowHandle() interface{}
	SetWindowTitle(title string)
	// SetSwapInterval reports false when the interval is not supported
	SetSwapInterval(interval int) bool
}

// RebindKind names the geometry a forced rebind refreshes
type RebindKind int

const (
	RebindMaximize RebindKind = iota
	RebindFullscreen
)

func (k RebindKind) String() string {
	if k == RebindFullscreen {
		return "fullscreen"
	}
	return "maximize"
}

// GeometryRebinder is implemented by window managers that refresh geometry
// their own way. Without it the session toggles the state off and on again.
type GeometryRebinder interface {
	RebindGeometry(kind RebindKind)
}

// Renderer abstracts GPU command submission, render targets and the texture cache
type Renderer interface {
	Init(wm WindowManager) error

	StartFrame()
	Run(cmds DisplayList)
	EndFrame()

	// CreateFramebuffer returns the new target index, or a negative value on failure
	CreateFramebuffer(width, height uint32, upscale, autoResize bool) int
	SetFramebuffer(target int, noiseScale float32)
	ResetFramebuffer()
	ResizeFramebuffer(target int, width, height uint32, upscale, autoResize bool)
	CopyFramebuffer(dst, src, left, top int, useBack bool)
	FramebuffersEnabled() bool
	SetFramebuffersEnabled(enabled bool)

	ClearTextureCache()
	DeleteCachedTexture(id TextureID)
	SetTextureFilter(mode FilterMode)
	SetDetailTextures(enabled bool)
	SetMSAALevel(level int)

	NativeViewport() Viewport
	SetNativeViewport(vp Viewport)
	Dimensions() Dimensions
	SetWindowOffset(x, y int)
}

// ConfigRegistry binds settings to persistent keys. *config.Store satisfies it.
type ConfigRegistry interface {
	RegisterInt(key string, v *int32, min, max int32)
	RegisterUInt(key string, v *uint32, min, max uint32)
	RegisterBool(key string, v *bool)
}
