package cartoonify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/codec"
	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
)

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		path, suffix, want string
	}{
		{"photo.png", cartoonSuffix, "photo_cartoon.png"},
		{"holiday.JPG", cartoonSuffix, "holiday_cartoon.jpg"},
		{"a/b/photo.jpeg", blurredSuffix, "a/b/photo_blurred.jpeg"},
		{"a.b/photo.png", edgesSuffix, "a.b/photo_edges.png"},
	}
	for _, tt := range tests {
		if got := derivedPath(tt.path, tt.suffix); got != tt.want {
			t.Errorf("derivedPath(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
		}
	}
}

func TestProcessPhotoSkipsUnknownFiles(t *testing.T) {
	p := NewPipeline(NewConfig())
	result, err := p.ProcessPhoto("notes.txt")
	if err != nil {
		t.Fatalf("unknown file kind should skip, not fail: %v", err)
	}
	if !result.Skipped {
		t.Error("result.Skipped = false, want true")
	}
	if result.OutputPath != "" {
		t.Errorf("skipped photo produced output path %q", result.OutputPath)
	}
}

func TestProcessPhotoMissingFile(t *testing.T) {
	p := NewPipeline(NewConfig())
	if _, err := p.ProcessPhoto(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Error("missing photo: want error")
	}
}

func writeTestPhoto(t *testing.T, path string) {
	t.Helper()
	buf := pixel.New(16, 12)
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			buf.Set(x, y, pixel.Pack(x*15, y*20, 128))
		}
	}
	if err := codec.Encode(buf, path); err != nil {
		t.Fatal(err)
	}
}

func TestProcessPhoto(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	writeTestPhoto(t, in)

	p := NewPipeline(NewConfig())
	result, err := p.ProcessPhoto(in)
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped {
		t.Fatal("valid photo was skipped")
	}
	want := filepath.Join(dir, "photo_cartoon.png")
	if result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}

	cartoon, err := codec.Decode(result.OutputPath)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if cartoon.Width != 16 || cartoon.Height != 12 {
		t.Errorf("output size %dx%d, want 16x12", cartoon.Width, cartoon.Height)
	}

	// Non-debug runs must not leave intermediate files behind.
	for _, suffix := range []string{blurredSuffix, edgesSuffix, coloursSuffix} {
		if _, err := os.Stat(derivedPath(in, suffix)); err == nil {
			t.Errorf("unexpected intermediate file %s", derivedPath(in, suffix))
		}
	}
}

func TestProcessPhotoDebugSavesIntermediates(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	writeTestPhoto(t, in)

	cfg := NewConfig()
	cfg.Debug = true
	p := NewPipeline(cfg)
	if _, err := p.ProcessPhoto(in); err != nil {
		t.Fatal(err)
	}

	for _, suffix := range []string{cartoonSuffix, blurredSuffix, edgesSuffix, coloursSuffix} {
		path := derivedPath(in, suffix)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing expected output %s: %v", path, err)
		}
	}
}

func TestLoadPhotoFixedDimensions(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "first.png")
	if err := codec.Encode(pixel.New(16, 12), first); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "other.png")
	if err := codec.Encode(pixel.New(8, 8), other); err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(NewConfig())
	if err := p.LoadPhoto(first); err != nil {
		t.Fatal(err)
	}
	if err := p.LoadPhoto(other); err == nil {
		t.Error("photo of a different size should be rejected once dimensions are fixed")
	}
}

func TestProcessPhotoReusesPipeline(t *testing.T) {
	dir := t.TempDir()
	p := NewPipeline(NewConfig())
	for _, name := range []string{"first.png", "second.png"} {
		in := filepath.Join(dir, name)
		writeTestPhoto(t, in)
		if _, err := p.ProcessPhoto(in); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}
