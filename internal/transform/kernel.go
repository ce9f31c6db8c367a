// Package transform implements the four pixel-level operations of the
// cartoon pipeline (blur, edge detection, colour quantization, mask merge)
// as pure functions from input buffers to a freshly allocated output buffer.
//
// The accelerator backend mirrors these functions as WGSL compute kernels;
// the arithmetic here is the reference the kernels must agree with, so every
// rounding rule is deliberate.
package transform

import (
	"fmt"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
)

// Kernel is a square convolution weight matrix laid out row-major.
// The size must be odd so the kernel has a centre pixel.
type Kernel struct {
	Size    int
	Weights []int32
}

// NewKernel validates and wraps a row-major weight slice.
// A non-square weight slice is a programming error.
func NewKernel(weights []int32) Kernel {
	size := 1
	for size*size < len(weights) {
		size++
	}
	if size*size != len(weights) || size%2 == 0 {
		panic(fmt.Sprintf("transform: non-square or even convolution kernel of %d weights", len(weights)))
	}
	return Kernel{Size: size, Weights: weights}
}

// Gaussian5x5 is the smoothing kernel used by Blur. Its weights sum to
// GaussianSum.
var Gaussian5x5 = NewKernel([]int32{
	2, 4, 5, 4, 2,
	4, 9, 12, 9, 4,
	5, 12, 15, 12, 5,
	4, 9, 12, 9, 4,
	2, 4, 5, 4, 2,
})

// GaussianSum is the weight sum of Gaussian5x5, used for normalization.
const GaussianSum = 159.0

// SobelVertical and SobelHorizontal are the gradient kernels used by
// DetectEdges. Their weights sum to zero and are never normalized; only the
// gradient magnitude matters.
var (
	SobelVertical = NewKernel([]int32{
		-1, 0, +1,
		-2, 0, +2,
		-1, 0, +1,
	})
	SobelHorizontal = NewKernel([]int32{
		+1, +2, +1,
		0, 0, 0,
		-1, -2, -1,
	})
)

// ClampBorder restricts an index to [0, size-1] by clamping to the edge.
// This is the border rule used by all convolutions, on both backends.
// (An earlier revision of the algorithm documented reflect-at-edge; the
// executable behaviour has always been clamp, and clamp is what the
// accelerator kernels implement.)
func ClampBorder(pos, size int) int {
	return max(0, min(pos, size-1))
}

// Convolve applies the kernel centred on (xCentre, yCentre) to one colour
// channel of img and returns the raw weighted sum. No normalization is
// applied; callers divide by the kernel's weight sum as needed.
func Convolve(img *pixel.Buffer, k Kernel, xCentre, yCentre, channel int) int32 {
	half := k.Size / 2
	width := int(img.Width)
	height := int(img.Height)

	var sum int32
	for ky := 0; ky < k.Size; ky++ {
		y := ClampBorder(yCentre+ky-half, height)
		row := y * width
		for kx := 0; kx < k.Size; kx++ {
			x := ClampBorder(xCentre+kx-half, width)
			sum += int32(pixel.Unpack(img.Data[row+x], channel)) * k.Weights[ky*k.Size+kx]
		}
	}
	return sum
}

// clampChannel rounds a normalized channel value to the nearest integer by
// add-0.5-then-truncate and bounds it to [0, 255]. This matches the
// accelerator kernel exactly; do not replace with math.Round.
func clampChannel(value float64) int {
	result := int(value + 0.5)
	if result <= 0 {
		return 0
	}
	if result > pixel.ColourMask {
		return pixel.ColourMask
	}
	return result
}
