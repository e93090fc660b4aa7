package video

// RefreshDisplayModes re-enumerates the window manager's modes. On failure the
// previous catalog is kept; only the remembered desktop mode may change.
func (s *Session) RefreshDisplayModes() error {
	if s.wm == nil {
		return nil
	}
	cat, err := buildCatalog(s.wm)
	s.modes.desktop = cat.desktop
	if err != nil {
		return err
	}
	s.modes.modes = cat.modes
	s.log.Debugf("catalog built with %d modes, desktop %v", cat.len()-1, cat.desktop)
	return nil
}

// NumDisplayModes counts catalog entries, including the Custom entry at index 0
func (s *Session) NumDisplayModes() int {
	return s.modes.len()
}

// DisplayMode returns catalog entry index
func (s *Session) DisplayMode(index int) (DisplayMode, bool) {
	return s.modes.at(index)
}

// DesktopMode is the display mode the window manager reported at enumeration,
// or a 640x480 fallback if it could not be queried
func (s *Session) DesktopMode() DisplayMode {
	return s.modes.desktop
}

// DisplayModeIndex finds the catalog entry matching the renderer's current
// output size. 0 means Custom.
func (s *Session) DisplayModeIndex() int {
	if !s.ready() {
		return 0
	}
	d := s.r.Dimensions()
	return s.modes.indexOf(d.Width, d.Height)
}

// centeredPosition returns the position for the requested size, centered if requested
func (s *Session) centeredPosition() (x, y int) {
	if !s.state.Center {
		return defaultPosX, defaultPosY
	}
	return s.wm.CenteredPositions(int(s.state.Width), int(s.state.Height))
}

// SetDisplayMode applies catalog entry index. Custom (0) has no concrete size
// and changes nothing.
func (s *Session) SetDisplayMode(index int) {
	if index == 0 || !s.ready() {
		return
	}
	dm, ok := s.modes.at(index)
	if !ok {
		s.log.Warnf("display mode %d out of range (have %d)", index, s.modes.len())
		return
	}

	st := &s.state
	st.Width = int32(dm.Width)
	st.Height = int32(dm.Height)

	x, y := s.centeredPosition()

	switch {
	case st.Fullscreen:
		s.wm.SetClosestResolution(dm.Width, dm.Height, st.Center)
	case st.Maximize:
		// a maximized window ignores a plain resize
		s.forceGeometryRebind(RebindMaximize)
	default:
		s.wm.SetDimensions(dm.Width, dm.Height, x, y)
	}
	s.log.Debugf("display mode %d -> %v", index, dm)
}

// SetFullscreen requests fullscreen on or off
func (s *Session) SetFullscreen(enable bool) {
	st := &s.state
	if enable == st.Fullscreen {
		return
	}
	st.Fullscreen = enable
	if !s.ready() {
		return
	}

	s.wm.SetClosestResolution(int(st.Width), int(st.Height), st.Center)
	s.wm.SetFullscreen(enable)
	if !enable && st.Maximize {
		s.forceGeometryRebind(RebindMaximize)
	}
}

// SetFullscreenMode switches between borderless and exclusive fullscreen.
// The change is only visible after fullscreen is re-entered, so an active
// fullscreen window is cycled.
func (s *Session) SetFullscreenMode(mode FullscreenMode) {
	st := &s.state
	st.FullscreenExclusive = mode == FullscreenExclusive
	if !s.ready() {
		return
	}

	s.wm.SetFullscreenFlag(mode)
	if st.Fullscreen {
		s.forceGeometryRebind(RebindFullscreen)
	}
}

// SetMaximizeWindow requests a maximized or restored window. Restoring a
// centered window re-centers it.
func (s *Session) SetMaximizeWindow(enable bool) {
	st := &s.state
	if enable == st.Maximize {
		return
	}
	st.Maximize = enable
	if !s.ready() {
		return
	}

	s.wm.SetMaximize(enable)
	if st.Center && !enable {
		x, y := s.wm.CenteredPositions(int(st.Width), int(st.Height))
		s.wm.SetDimensions(int(st.Width), int(st.Height), x, y)
	}
}

// SetCenterWindow requests centering. Enabling it moves a non-maximized window at once.
func (s *Session) SetCenterWindow(center bool) {
	st := &s.state
	st.Center = center
	if !s.ready() {
		return
	}

	if center && !st.Maximize {
		x, y := s.wm.CenteredPositions(int(st.Width), int(st.Height))
		s.wm.SetDimensions(int(st.Width), int(st.Height), x, y)
	}
}

// forceGeometryRebind makes the window manager recompute the window layout by
// leaving and re-entering a state. Backends that implement GeometryRebinder
// decide for themselves, which may be nothing at all.
func (s *Session) forceGeometryRebind(kind RebindKind) {
	s.log.Debugf("forcing %v geometry rebind", kind)
	if rb, ok := s.wm.(GeometryRebinder); ok {
		rb.RebindGeometry(kind)
		return
	}

	switch kind {
	case RebindMaximize:
		s.wm.SetMaximize(false)
		s.wm.SetMaximize(true)
	case RebindFullscreen:
		s.wm.SetFullscreen(false)
		s.wm.SetFullscreen(true)
	}
}

// Fullscreen reports whether the window is actually fullscreen right now
func (s *Session) Fullscreen() bool {
	if !s.ready() {
		return s.state.Fullscreen
	}
	return s.wm.FullscreenState()
}

// RequestedFullscreen is the last fullscreen state asked for
func (s *Session) RequestedFullscreen() bool {
	return s.state.Fullscreen
}

// FullscreenMode reports the window manager's current fullscreen flavor
func (s *Session) FullscreenMode() FullscreenMode {
	if !s.ready() {
		return s.RequestedFullscreenMode()
	}
	return s.wm.FullscreenFlagMode()
}

// RequestedFullscreenMode is the last fullscreen flavor asked for
func (s *Session) RequestedFullscreenMode() FullscreenMode {
	if s.state.FullscreenExclusive {
		return FullscreenExclusive
	}
	return FullscreenBorderless
}

// MaximizeWindow reports whether the window is actually maximized right now
func (s *Session) MaximizeWindow() bool {
	if !s.ready() {
		return s.state.Maximize
	}
	return s.wm.MaximizedState()
}

// RequestedMaximize is the last maximize state asked for
func (s *Session) RequestedMaximize() bool {
	return s.state.Maximize
}

// CenterWindow reports whether centering is requested
func (s *Session) CenterWindow() bool {
	return s.state.Center
}
