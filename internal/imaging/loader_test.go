package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// writeTestPNG writes a solid image to a temp file and returns its path.
func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, createInMemoryImage(width, height, color.RGBA{100, 150, 200, 255})); err != nil {
		t.Fatalf("failed to encode temp image: %v", err)
	}
	return path
}

func TestImageCache_LoadAndCache(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 64, 32)

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Errorf("dimensions: got %dx%d, want 64x32", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Second load must come from cache: removing the file must not matter.
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove temp image: %v", err)
	}
	if _, err := cache.Load(path); err != nil {
		t.Errorf("cached load failed: %v", err)
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 8, 8)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Evict(path)
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove temp image: %v", err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load after evict should hit the missing file")
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load should fail for a missing file")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write garbage file: %v", err)
	}
	if _, err := cache.Load(garbage); err == nil {
		t.Error("Load should fail for an undecodable file")
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 40, 20)

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 40 || info.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 40x20", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file size: got %d", info.FileSizeBytes)
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writeTestPNG(t, 12, 34)

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 12 || dims.Height != 34 {
		t.Errorf("dimensions: got %dx%d, want 12x34", dims.Width, dims.Height)
	}
}
