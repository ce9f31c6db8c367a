package transform

import "github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"

// Blur returns a new buffer where every channel of every pixel is the
// Gaussian5x5 convolution of img normalized by GaussianSum. The input is not
// modified.
func Blur(img *pixel.Buffer) *pixel.Buffer {
	out := pixel.New(img.Width, img.Height)
	for y := 0; y < int(img.Height); y++ {
		for x := 0; x < int(img.Width); x++ {
			r := clampChannel(float64(Convolve(img, Gaussian5x5, x, y, pixel.Red)) / GaussianSum)
			g := clampChannel(float64(Convolve(img, Gaussian5x5, x, y, pixel.Green)) / GaussianSum)
			b := clampChannel(float64(Convolve(img, Gaussian5x5, x, y, pixel.Blue)) / GaussianSum)
			out.Set(x, y, pixel.Pack(r, g, b))
		}
	}
	return out
}
