package engine

import (
	"testing"
	"time"
)

func TestSortModes(t *testing.T) {
	modes := []videoMode{
		{640, 480, 60},
		{1920, 1080, 60},
		{1280, 720, 60},
		{1920, 1080, 144},
		{1280, 1024, 75},
	}
	sortModes(modes)

	want := []videoMode{
		{1920, 1080, 144},
		{1920, 1080, 60},
		{1280, 1024, 75},
		{1280, 720, 60},
		{640, 480, 60},
	}
	for i := range want {
		if modes[i] != want[i] {
			t.Errorf("modes[%d] = %v, want %v", i, modes[i], want[i])
		}
	}
}

func TestClosestMode(t *testing.T) {
	modes := []videoMode{
		{1920, 1080, 60},
		{1280, 720, 60},
		{800, 600, 60},
		{640, 480, 60},
	}

	tests := []struct {
		name string
		w, h int
		want videoMode
	}{
		{"exact", 1280, 720, videoMode{1280, 720, 60}},
		{"between", 1300, 740, videoMode{1280, 720, 60}},
		{"larger than all", 4000, 3000, videoMode{1920, 1080, 60}},
		{"smaller than all", 320, 200, videoMode{640, 480, 60}},
		{"tie prefers first", 720, 540, videoMode{800, 600, 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := closestMode(modes, tt.w, tt.h)
			if !ok || got != tt.want {
				t.Errorf("closestMode(%d, %d) = %v, %v; want %v", tt.w, tt.h, got, ok, tt.want)
			}
		})
	}

	if _, ok := closestMode(nil, 640, 480); ok {
		t.Errorf("closestMode on empty list should fail")
	}
}

func TestCenterIn(t *testing.T) {
	tests := []struct {
		areaX, areaY, areaW, areaH int
		w, h                       int
		wantX, wantY               int
	}{
		{0, 0, 1920, 1080, 640, 480, 640, 300},
		{1920, 0, 1280, 1024, 640, 480, 2240, 272},
		{0, 0, 1280, 720, 1920, 1080, 0, 0},
	}
	for _, tt := range tests {
		x, y := centerIn(tt.areaX, tt.areaY, tt.areaW, tt.areaH, tt.w, tt.h)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("centerIn(%d,%d,%d,%d,%d,%d) = %d,%d; want %d,%d",
				tt.areaX, tt.areaY, tt.areaW, tt.areaH, tt.w, tt.h, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestFrameDelay(t *testing.T) {
	if d := frameDelay(0, time.Millisecond); d != 0 {
		t.Errorf("unlimited delay = %v", d)
	}
	if d := frameDelay(100, 4*time.Millisecond); d != 6*time.Millisecond {
		t.Errorf("delay = %v, want 6ms", d)
	}
	if d := frameDelay(100, 20*time.Millisecond); d != 0 {
		t.Errorf("slow frame delay = %v, want 0", d)
	}
}
