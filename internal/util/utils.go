package util

import (
	"cmp"
	"fmt"
	"os"
)

// Clamp restricts a value to be between min and max
func Clamp[T cmp.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampIfRanged clamps value only when the range is non-empty (min < max).
// A degenerate range such as {0, 0} means "unbounded".
func ClampIfRanged[T cmp.Ordered](value, min, max T) T {
	if min < max {
		return Clamp(value, min, max)
	}
	return value
}

// BoolToInt converts a boolean into the 0/1 form used by persisted settings
func BoolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CreateDirIfNotExist creates a directory if it doesn't exist
func CreateDirIfNotExist(dir string) error {
	if dir == "" || DirExists(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
