package video

import (
	"os"
	"path/filepath"
	"testing"

	"retroport/pkg/config"
)

func TestRegisterConfigSeedsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
Video:
  DefaultWidth: 1280
  DefaultHeight: 720
  DefaultFullscreen: 1
  ExclusiveFullscreen: 1
  CenterWindow: 1
  VSync: 42
  MSAA: 0
  FramerateLimit: 100000
  TextureFilter: 7
  DetailTextures: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p := DesktopPlatform()
	s := NewSession(Options{Platform: &p})
	store := config.NewStore()
	s.RegisterConfig(store)
	if err := store.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	st := s.Requested()
	if st.Width != 1280 || st.Height != 720 {
		t.Errorf("size = %dx%d", st.Width, st.Height)
	}
	if !st.Fullscreen || !st.FullscreenExclusive || !st.Center {
		t.Errorf("flags = %+v", st)
	}
	if st.VSync != maxVSync || st.MSAA != minMSAA || st.FramerateLimit != p.MaxFPS {
		t.Errorf("clamped values vsync=%d msaa=%d limit=%d", st.VSync, st.MSAA, st.FramerateLimit)
	}
	if st.TextureFilter != uint32(MaxFilterMode) || st.DetailTextures {
		t.Errorf("filter=%d detail=%v", st.TextureFilter, st.DetailTextures)
	}

	wm := newFakeWM()
	r := newFakeRenderer(wm)
	if err := s.Init(wm, r); err != nil {
		t.Fatal(err)
	}
	if wm.settings.Width != 1280 || !wm.settings.Fullscreen || !wm.settings.FullscreenExclusive {
		t.Errorf("window settings = %+v", wm.settings)
	}
}

func TestRegisterConfigKeys(t *testing.T) {
	s := NewSession(Options{})
	store := config.NewStore()
	s.RegisterConfig(store)

	want := []string{
		"Video.DefaultFullscreen", "Video.DefaultMaximize", "Video.DefaultWidth",
		"Video.DefaultHeight", "Video.ExclusiveFullscreen", "Video.CenterWindow",
		"Video.AllowHiDpi", "Video.VSync", "Video.FramebufferEffects",
		"Video.FramerateLimit", "Video.MSAA", "Video.TextureFilter",
		"Video.TextureFilter2D", "Video.DetailTextures",
	}
	keys := store.Keys()
	if len(keys) != len(want) {
		t.Fatalf("registered %d keys, want %d: %v", len(keys), len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %s, want %s", i, keys[i], want[i])
		}
	}

	// changes made through the session are what gets saved
	s.SetVSync(3)
	if got, err := store.Get("Video.VSync"); err != nil || got != "3" {
		t.Errorf("Video.VSync = %q, %v", got, err)
	}

	// the vsync-off cap is not a configured limit
	s.SetVSync(0)
	if got, err := store.Get("Video.FramerateLimit"); err != nil || got != "0" {
		t.Errorf("Video.FramerateLimit = %q, %v", got, err)
	}
}
