package video

// Platform holds the target-dependent defaults the session is seeded with
type Platform struct {
	Name              string
	DefaultWidth      int32
	DefaultHeight     int32
	DefaultFullscreen bool
	DefaultExclusive  bool
	// MaxFPS is the hard cap applied when vsync is unavailable and no limit is set.
	// The game logic breaks above it.
	MaxFPS int32
}

// DesktopPlatform is a windowed 640x480 default
func DesktopPlatform() Platform {
	return Platform{
		Name:          "desktop",
		DefaultWidth:  640,
		DefaultHeight: 480,
		MaxFPS:        maxFPS,
	}
}

// HandheldPlatform starts in exclusive fullscreen at the panel resolution
func HandheldPlatform() Platform {
	return Platform{
		Name:              "handheld",
		DefaultWidth:      1280,
		DefaultHeight:     720,
		DefaultFullscreen: true,
		DefaultExclusive:  true,
		MaxFPS:            maxFPS,
	}
}
