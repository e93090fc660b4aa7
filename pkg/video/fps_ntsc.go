//go:build !pal

package video

const maxFPS = 240
