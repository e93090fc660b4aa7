package video

import (
	"errors"
	"fmt"
)

var (
	// ErrModeQueryFailed means the window manager could not report the current display mode
	ErrModeQueryFailed = errors.New("display mode query failed")
	// ErrNoDisplayModes means the window manager enumerated no display modes
	ErrNoDisplayModes = errors.New("no display modes available")
)

// fallbackMode is assumed when the desktop mode cannot be queried
var fallbackMode = DisplayMode{Width: 640, Height: 480}

// DisplayMode is an output resolution. The zero value is the "Custom" sentinel.
type DisplayMode struct {
	Width  int
	Height int
}

// IsCustom reports whether m is the Custom sentinel
func (m DisplayMode) IsCustom() bool {
	return m.Width == 0 && m.Height == 0
}

func (m DisplayMode) String() string {
	if m.IsCustom() {
		return "Custom"
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// catalog is the index-addressable list of output resolutions.
// Entry 0 is always the Custom sentinel.
type catalog struct {
	modes   []DisplayMode
	desktop DisplayMode
}

func newCatalog() catalog {
	return catalog{modes: []DisplayMode{{}}, desktop: fallbackMode}
}

// buildCatalog enumerates the window manager's modes. Duplicates are dropped
// only when adjacent: the backend is trusted to group equal resolutions, so
// unsorted input can leak duplicates into the result.
func buildCatalog(wm WindowManager) (catalog, error) {
	cat := newCatalog()

	w, h, ok := wm.CurrentDisplayMode()
	if !ok {
		return cat, ErrModeQueryFailed
	}
	cat.desktop = DisplayMode{Width: w, Height: h}

	numBaseModes := wm.NumDisplayModes()
	if numBaseModes <= 0 {
		return cat, ErrNoDisplayModes
	}

	modes := make([]DisplayMode, 1, numBaseModes+1)
	prev := DisplayMode{Width: -1, Height: -1}
	for i := 0; i < numBaseModes; i++ {
		nw, nh := wm.DisplayMode(i)
		if nw != prev.Width || nh != prev.Height {
			prev = DisplayMode{Width: nw, Height: nh}
			modes = append(modes, prev)
		}
	}

	cat.modes = modes[:len(modes):len(modes)]
	return cat, nil
}

func (c *catalog) len() int {
	return len(c.modes)
}

func (c *catalog) at(index int) (DisplayMode, bool) {
	if index < 0 || index >= len(c.modes) {
		return DisplayMode{}, false
	}
	return c.modes[index], true
}

// indexOf returns the first index >= 1 matching width x height, or 0 for Custom
func (c *catalog) indexOf(width, height int) int {
	for i := 1; i < len(c.modes); i++ {
		if c.modes[i].Width == width && c.modes[i].Height == height {
			return i
		}
	}
	return 0
}

func (c *catalog) release() {
	c.modes = []DisplayMode{{}}
}
