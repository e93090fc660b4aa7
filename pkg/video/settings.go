package video

import "retroport/internal/util"

// Width is the renderer's current output width
func (s *Session) Width() int {
	if !s.ready() {
		return int(s.state.Width)
	}
	return s.r.Dimensions().Width
}

// Height is the renderer's current output height
func (s *Session) Height() int {
	if !s.ready() {
		return int(s.state.Height)
	}
	return s.r.Dimensions().Height
}

// Aspect is the renderer's current output aspect ratio
func (s *Session) Aspect() float32 {
	if !s.ready() {
		if s.state.Height == 0 {
			return 0
		}
		return float32(s.state.Width) / float32(s.state.Height)
	}
	return s.r.Dimensions().Aspect
}

// UpdateNativeResolution sets the logical resolution the game draws into
func (s *Session) UpdateNativeResolution(width, height int) {
	if !s.ready() || width <= 0 || height <= 0 {
		return
	}
	s.r.SetNativeViewport(Viewport{
		Width:  width,
		Height: height,
		Aspect: float32(width) / float32(height),
	})
}

// NativeWidth is the logical rendering width
func (s *Session) NativeWidth() int {
	if !s.ready() {
		return nativeWidth
	}
	return s.r.NativeViewport().Width
}

// NativeHeight is the logical rendering height
func (s *Session) NativeHeight() int {
	if !s.ready() {
		return nativeHeight
	}
	return s.r.NativeViewport().Height
}

// SetWindowOffset moves the game viewport inside the window
func (s *Session) SetWindowOffset(x, y int) {
	if s.ready() {
		s.r.SetWindowOffset(x, y)
	}
}

// VSync is the swap interval in effect: 0 off, n every n-th vblank, -1 adaptive
func (s *Session) VSync() int {
	return int(s.state.VSync)
}

// SetVSync changes the swap interval with the same fallback as Init
func (s *Session) SetVSync(interval int) {
	st := &s.state
	st.VSync = int32(util.Clamp(interval, minVSync, maxVSync))
	if !s.ready() {
		return
	}
	s.applySwapInterval()
	s.applyFramerateLimit()
}

// FramerateLimit is the enforced target fps, 0 for unlimited. It includes the
// platform cap applied while vsync is off.
func (s *Session) FramerateLimit() int {
	return s.effectiveFramerateLimit()
}

// ConfiguredFramerateLimit is the limit as set and persisted, without the vsync-off cap
func (s *Session) ConfiguredFramerateLimit() int {
	return int(s.state.FramerateLimit)
}

// SetFramerateLimit sets the target fps, clamped to the platform maximum
func (s *Session) SetFramerateLimit(limit int) {
	st := &s.state
	st.FramerateLimit = int32(util.Clamp(limit, 0, int(s.platform.MaxFPS)))
	if s.ready() {
		s.applyFramerateLimit()
	}
}

// MSAA is the requested multisample count
func (s *Session) MSAA() int {
	return int(s.state.MSAA)
}

// SetMSAA changes the multisample count used for new render targets
func (s *Session) SetMSAA(level int) {
	st := &s.state
	st.MSAA = int32(util.Clamp(level, minMSAA, maxMSAA))
	if s.ready() {
		s.r.SetMSAALevel(int(st.MSAA))
	}
}

// TextureFilter is the current texture filter
func (s *Session) TextureFilter() FilterMode {
	return FilterMode(s.state.TextureFilter)
}

// SetTextureFilter changes the texture filter. Values above the highest
// supported mode saturate to it.
func (s *Session) SetTextureFilter(filter FilterMode) {
	if filter > MaxFilterMode {
		filter = MaxFilterMode
	}
	if FilterMode(s.state.TextureFilter) == filter {
		return
	}
	s.state.TextureFilter = uint32(filter)
	if s.ready() {
		s.r.SetTextureFilter(filter)
	}
}

// TextureFilter2D reports whether 2D (HUD, menu) textures are filtered
func (s *Session) TextureFilter2D() bool {
	return s.state.TextureFilter2D
}

// SetTextureFilter2D toggles filtering of 2D textures
func (s *Session) SetTextureFilter2D(enable bool) {
	s.state.TextureFilter2D = enable
}

// DetailTextures reports whether detail textures are drawn
func (s *Session) DetailTextures() bool {
	return s.state.DetailTextures
}

// SetDetailTextures toggles detail textures
func (s *Session) SetDetailTextures(enable bool) {
	s.state.DetailTextures = enable
	if s.ready() {
		s.r.SetDetailTextures(enable)
	}
}
