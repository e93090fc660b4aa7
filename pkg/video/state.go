package video

// State is the requested video configuration. It is seeded from the platform
// defaults and the config store, and only the Session's setters change it.
// What the window manager actually shows is queried live, never read from here.
type State struct {
	Width               int32
	Height              int32
	Fullscreen          bool
	FullscreenExclusive bool
	Maximize            bool
	Center              bool
	AllowHiDpi          bool
	VSync               int32
	MSAA                int32
	FramerateLimit      int32
	TextureFilter       uint32
	TextureFilter2D     bool
	DetailTextures      bool
	Framebuffers        bool
}

const (
	minVSync = -1
	maxVSync = 10
	minMSAA  = 1
	maxMSAA  = 16
	maxDim   = 32767
)

func defaultState(p Platform) State {
	return State{
		Width:               p.DefaultWidth,
		Height:              p.DefaultHeight,
		Fullscreen:          p.DefaultFullscreen,
		FullscreenExclusive: p.DefaultExclusive,
		VSync:               1,
		MSAA:                1,
		TextureFilter:       uint32(FilterLinear),
		TextureFilter2D:     true,
		DetailTextures:      true,
		Framebuffers:        true,
	}
}

// RegisterConfig binds every tunable under the Video namespace. Call it before
// the store is loaded and before Init.
func (s *Session) RegisterConfig(reg ConfigRegistry) {
	st := &s.state
	reg.RegisterBool("Video.DefaultFullscreen", &st.Fullscreen)
	reg.RegisterBool("Video.DefaultMaximize", &st.Maximize)
	reg.RegisterInt("Video.DefaultWidth", &st.Width, 0, maxDim)
	reg.RegisterInt("Video.DefaultHeight", &st.Height, 0, maxDim)
	reg.RegisterBool("Video.ExclusiveFullscreen", &st.FullscreenExclusive)
	reg.RegisterBool("Video.CenterWindow", &st.Center)
	reg.RegisterBool("Video.AllowHiDpi", &st.AllowHiDpi)
	reg.RegisterInt("Video.VSync", &st.VSync, minVSync, maxVSync)
	reg.RegisterBool("Video.FramebufferEffects", &st.Framebuffers)
	reg.RegisterInt("Video.FramerateLimit", &st.FramerateLimit, 0, s.platform.MaxFPS)
	reg.RegisterInt("Video.MSAA", &st.MSAA, minMSAA, maxMSAA)
	reg.RegisterUInt("Video.TextureFilter", &st.TextureFilter, 0, uint32(MaxFilterMode))
	reg.RegisterBool("Video.TextureFilter2D", &st.TextureFilter2D)
	reg.RegisterBool("Video.DetailTextures", &st.DetailTextures)
}
