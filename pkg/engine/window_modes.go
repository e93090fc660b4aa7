package engine

import (
	"sort"
	"time"
)

// videoMode is a monitor mode as the window manager reports it
type videoMode struct {
	Width       int
	Height      int
	RefreshRate int
}

// sortModes orders modes from largest to smallest, highest refresh first.
// Modes of equal size stay adjacent so the catalog can fold them.
func sortModes(modes []videoMode) {
	sort.SliceStable(modes, func(i, j int) bool {
		a, b := modes[i], modes[j]
		if a.Width != b.Width {
			return a.Width > b.Width
		}
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		return a.RefreshRate > b.RefreshRate
	})
}

// closestMode picks the mode nearest to w x h by combined width and height
// difference. Ties keep the earlier mode, which is the larger one in a sorted list.
func closestMode(modes []videoMode, w, h int) (videoMode, bool) {
	if len(modes) == 0 {
		return videoMode{}, false
	}
	best := modes[0]
	bestDist := modeDistance(best, w, h)
	for _, m := range modes[1:] {
		if d := modeDistance(m, w, h); d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, true
}

func modeDistance(m videoMode, w, h int) int {
	return abs(m.Width-w) + abs(m.Height-h)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// centerIn returns the top-left corner that centers a w x h window in the
// area at (areaX, areaY) of size areaW x areaH. Windows larger than the area
// are pinned to its origin.
func centerIn(areaX, areaY, areaW, areaH, w, h int) (int, int) {
	x := areaX + (areaW-w)/2
	y := areaY + (areaH-h)/2
	if x < areaX {
		x = areaX
	}
	if y < areaY {
		y = areaY
	}
	return x, y
}

// frameDelay is how long to sleep to hold fps frames per second when the
// frame took elapsed. Zero fps means unlimited.
func frameDelay(fps int, elapsed time.Duration) time.Duration {
	if fps <= 0 {
		return 0
	}
	target := time.Second / time.Duration(fps)
	if elapsed >= target {
		return 0
	}
	return target - elapsed
}
