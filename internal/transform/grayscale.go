package transform

import "github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"

// Grayscale returns a new buffer where every pixel is replaced by the
// average of its three channels. Not part of the cartoon sequence, but
// useful when inspecting gradient behaviour on test photos.
func Grayscale(img *pixel.Buffer) *pixel.Buffer {
	out := pixel.New(img.Width, img.Height)
	for i, p := range img.Data {
		avg := (pixel.Unpack(p, pixel.Red) + pixel.Unpack(p, pixel.Green) + pixel.Unpack(p, pixel.Blue)) / 3
		out.Data[i] = pixel.Pack(avg, avg, avg)
	}
	return out
}
