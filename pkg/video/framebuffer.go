package video

// CreateFramebuffer allocates a render target and returns its index, or -1
func (s *Session) CreateFramebuffer(width, height uint32, upscale, autoResize bool) int {
	if !s.ready() || width == 0 || height == 0 {
		return -1
	}
	return s.r.CreateFramebuffer(width, height, upscale, autoResize)
}

// SetFramebuffer redirects drawing into target
func (s *Session) SetFramebuffer(target int) {
	if !s.ready() || target < 0 {
		return
	}
	s.r.SetFramebuffer(target, 1.0)
}

// ResetFramebuffer redirects drawing back to the window
func (s *Session) ResetFramebuffer() {
	if s.ready() {
		s.r.ResetFramebuffer()
	}
}

// CopyFramebuffer copies src into dst at (left, top). Immediate copies always
// read the front buffer.
func (s *Session) CopyFramebuffer(dst, src, left, top int) {
	if !s.ready() || dst < 0 || src < 0 {
		return
	}
	s.r.CopyFramebuffer(dst, src, left, top, false)
}

// ResizeFramebuffer reallocates target at a new size
func (s *Session) ResizeFramebuffer(target int, width, height uint32, upscale, autoResize bool) {
	if !s.ready() || target < 0 || width == 0 || height == 0 {
		return
	}
	s.r.ResizeFramebuffer(target, width, height, upscale, autoResize)
}

// FramebuffersSupported reports whether framebuffer effects are available
func (s *Session) FramebuffersSupported() bool {
	if !s.ready() {
		return s.state.Framebuffers
	}
	return s.r.FramebuffersEnabled()
}

// ResetTextureCache drops every cached texture
func (s *Session) ResetTextureCache() {
	if s.ready() {
		s.r.ClearTextureCache()
	}
}

// FreeCachedTexture evicts the texture uploaded from id
func (s *Session) FreeCachedTexture(id TextureID) {
	if s.ready() && id != 0 {
		s.r.DeleteCachedTexture(id)
	}
}

// SetFramebufferEffects toggles framebuffer effects
func (s *Session) SetFramebufferEffects(enable bool) {
	s.state.Framebuffers = enable
	if s.ready() {
		s.r.SetFramebuffersEnabled(enable)
	}
}
