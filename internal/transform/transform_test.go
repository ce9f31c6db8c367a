package transform

import (
	"testing"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
)

func solid(width, height uint32, p uint32) *pixel.Buffer {
	b := pixel.New(width, height)
	for i := range b.Data {
		b.Data[i] = p
	}
	return b
}

func TestClampBorder(t *testing.T) {
	tests := []struct {
		pos, size, want int
	}{
		{-3, 5, 0},
		{-1, 5, 0},
		{0, 5, 0},
		{2, 5, 2},
		{4, 5, 4},
		{5, 5, 4},
		{12, 5, 4},
	}
	for _, tt := range tests {
		if got := ClampBorder(tt.pos, tt.size); got != tt.want {
			t.Errorf("ClampBorder(%d, %d) = %d, want %d", tt.pos, tt.size, got, tt.want)
		}
	}
}

func TestConvolveFlatImage(t *testing.T) {
	img := solid(5, 5, pixel.Pack(100, 100, 100))
	// On a constant image the weighted sum is value * sum(weights),
	// including at corners where every sample clamps into the image.
	for _, pos := range [][2]int{{2, 2}, {0, 0}, {4, 4}, {0, 4}} {
		got := Convolve(img, Gaussian5x5, pos[0], pos[1], pixel.Red)
		if got != 100*GaussianSum {
			t.Errorf("Convolve at (%d, %d) = %d, want %d", pos[0], pos[1], got, 100*int32(GaussianSum))
		}
	}
}

func TestNewKernelRejectsNonSquare(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewKernel accepted a non-square weight slice")
		}
	}()
	NewKernel([]int32{1, 2, 3})
}

func TestBlurPreservesFlatImage(t *testing.T) {
	img := solid(6, 4, pixel.Pack(37, 150, 255))
	got := Blur(img)
	for i, p := range got.Data {
		if p != img.Data[i] {
			t.Fatalf("pixel %d: blur of constant image = 0x%06X, want 0x%06X", i, p, img.Data[i])
		}
	}
}

func TestBlurDoesNotMutateInput(t *testing.T) {
	img := pixel.New(4, 4)
	img.Set(1, 1, pixel.White)
	before := img.Clone()
	Blur(img)
	for i := range img.Data {
		if img.Data[i] != before.Data[i] {
			t.Fatal("Blur modified its input")
		}
	}
}

func TestDetectEdgesFlatImageIsAllWhite(t *testing.T) {
	img := solid(5, 5, pixel.Pack(90, 90, 90))
	got := DetectEdges(img, 128)
	for i, p := range got.Data {
		if p != pixel.White {
			t.Fatalf("pixel %d = 0x%06X, want white (no edges in a flat image)", i, p)
		}
	}
}

func TestDetectEdgesZeroThresholdIsAllBlack(t *testing.T) {
	img := solid(3, 3, pixel.Pack(90, 90, 90))
	got := DetectEdges(img, 0)
	for i, p := range got.Data {
		if p != pixel.Black {
			t.Fatalf("pixel %d = 0x%06X, want black (threshold 0 marks everything)", i, p)
		}
	}
}

func TestDetectEdgesHorizontalBoundary(t *testing.T) {
	// Top two rows black, bottom two rows white. The Sobel response is
	// nonzero only on the rows adjacent to the boundary; the outer rows
	// see a constant neighbourhood because of edge clamping.
	img := pixel.New(4, 4)
	for y := 2; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, pixel.White)
		}
	}

	got := DetectEdges(img, 128)
	for y := 0; y < 4; y++ {
		want := pixel.White
		if y == 1 || y == 2 {
			want = pixel.Black
		}
		for x := 0; x < 4; x++ {
			if p := got.At(x, y); p != want {
				t.Errorf("edge image (%d, %d) = 0x%06X, want 0x%06X", x, y, p, want)
			}
		}
	}
}

func TestQuantizeChannel(t *testing.T) {
	tests := []struct {
		name          string
		value         int
		numPerChannel int
		want          int
	}{
		{"zero stays zero", 0, 3, 0},
		{"full stays full k2", 255, 2, 255},
		{"full stays full k3", 255, 3, 255},
		{"full stays full k256", 255, 256, 255},
		{"k2 below midpoint", 127, 2, 0},
		{"k2 at midpoint", 128, 2, 255},
		{"k3 top of first bucket", 85, 3, 0},
		{"k3 bottom of middle bucket", 86, 3, 127},
		{"k3 top of middle bucket", 170, 3, 127},
		{"k3 bottom of last bucket", 171, 3, 255},
		{"k256 is identity low", 1, 256, 1},
		{"k256 is identity mid", 200, 256, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuantizeChannel(tt.value, tt.numPerChannel); got != tt.want {
				t.Errorf("QuantizeChannel(%d, %d) = %d, want %d",
					tt.value, tt.numPerChannel, got, tt.want)
			}
		})
	}
}

func TestQuantizeChannelIsIdentityAt256(t *testing.T) {
	for v := 0; v <= 255; v++ {
		if got := QuantizeChannel(v, 256); got != v {
			t.Fatalf("QuantizeChannel(%d, 256) = %d, want %d", v, got, v)
		}
	}
}

func TestQuantizeAppliesPerChannel(t *testing.T) {
	img := solid(2, 1, pixel.Pack(86, 170, 255))
	got := Quantize(img, 3)
	want := pixel.Pack(127, 127, 255)
	for i, p := range got.Data {
		if p != want {
			t.Errorf("pixel %d = 0x%06X, want 0x%06X", i, p, want)
		}
	}
}

func TestMergeMask(t *testing.T) {
	photo := solid(2, 2, pixel.Pack(10, 20, 30))
	mask := pixel.New(2, 2) // all black
	mask.Set(1, 0, pixel.White)
	mask.Set(0, 1, pixel.White)

	got := MergeMask(mask, pixel.White, photo)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			want := mask.At(x, y)
			if want == pixel.White {
				want = photo.At(x, y)
			}
			if p := got.At(x, y); p != want {
				t.Errorf("merged (%d, %d) = 0x%06X, want 0x%06X", x, y, p, want)
			}
		}
	}

	if mask.At(0, 0) != pixel.Black || photo.At(0, 0) != pixel.Pack(10, 20, 30) {
		t.Error("MergeMask modified an input buffer")
	}
}

func TestMergeMaskRejectsSizeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MergeMask accepted buffers of different sizes")
		}
	}()
	MergeMask(pixel.New(2, 2), pixel.White, pixel.New(3, 3))
}

func TestGrayscale(t *testing.T) {
	img := solid(1, 1, pixel.Pack(255, 0, 0))
	got := Grayscale(img)
	r := pixel.Unpack(got.Data[0], pixel.Red)
	g := pixel.Unpack(got.Data[0], pixel.Green)
	b := pixel.Unpack(got.Data[0], pixel.Blue)
	if r != g || g != b {
		t.Errorf("grayscale pixel has unequal channels: %d %d %d", r, g, b)
	}
	if r == 0 || r == 255 {
		t.Errorf("grayscale of pure red = %d, want a mid value", r)
	}
}
