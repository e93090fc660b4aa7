//go:build !handheld

package video

// DefaultPlatform is the profile this binary was built for
func DefaultPlatform() Platform {
	return DesktopPlatform()
}
