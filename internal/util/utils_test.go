package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 2); got != 2 {
		t.Errorf("Clamp(5, 0, 2) = %d, want 2", got)
	}
	if got := Clamp(-3, 0, 2); got != 0 {
		t.Errorf("Clamp(-3, 0, 2) = %d, want 0", got)
	}
	if got := Clamp(1.5, 1.0, 2.0); got != 1.5 {
		t.Errorf("Clamp(1.5, 1, 2) = %v, want 1.5", got)
	}
}

func TestClampIfRanged(t *testing.T) {
	if got := ClampIfRanged(int32(99), 0, 0); got != 99 {
		t.Errorf("empty range must not clamp, got %d", got)
	}
	if got := ClampIfRanged(int32(99), 0, 10); got != 10 {
		t.Errorf("ClampIfRanged(99, 0, 10) = %d, want 10", got)
	}
}

func TestCreateDirIfNotExist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := CreateDirIfNotExist(dir); err != nil {
		t.Fatalf("CreateDirIfNotExist: %v", err)
	}
	if !DirExists(dir) {
		t.Fatalf("directory %s was not created", dir)
	}

	file := filepath.Join(dir, "f.txt")
	if FileExists(file) {
		t.Fatalf("FileExists reported a missing file")
	}
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(file) {
		t.Errorf("FileExists(%s) = false", file)
	}
	if FileExists(dir) {
		t.Errorf("FileExists must be false for directories")
	}
}
