package transform

import "github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"

// quantizeRound is the rounding bias used when snapping a channel value to
// its bucket. The obvious constant is 0.5, but the accelerator's round()
// rounds half away from zero while the reference rounds half up, and the two
// disagree at exactly -0.5 (channel value 0). Backing the bias off by 1e-5
// keeps the argument away from the half and makes both backends agree at
// every bucket boundary. Bucket positions are exact multiples of 1/256, so
// the 1e-5 never moves a value across a boundary.
const quantizeRound = 0.49999

// QuantizeChannel maps one channel value in [0, 255] into one of numPerChannel
// evenly spaced output levels spanning exactly 0..255. numPerChannel must be
// at least 2; the config layer rejects anything smaller.
func QuantizeChannel(value, numPerChannel int) int {
	// All arithmetic is float32 so the reference and the f32 accelerator
	// kernel compute bit-identical buckets.
	colour := float32(value) / (pixel.ColourMask + 1.0) * float32(numPerChannel)
	discrete := int(colour - quantizeRound + 0.5)
	if discrete < 0 {
		discrete = 0
	} else if discrete >= numPerChannel {
		discrete = numPerChannel - 1
	}
	return discrete * pixel.ColourMask / (numPerChannel - 1)
}

// Quantize returns a new buffer with every channel of every pixel reduced to
// numPerChannel discrete values. The input is not modified.
func Quantize(img *pixel.Buffer, numPerChannel int) *pixel.Buffer {
	out := pixel.New(img.Width, img.Height)
	for i, p := range img.Data {
		out.Data[i] = pixel.Pack(
			QuantizeChannel(pixel.Unpack(p, pixel.Red), numPerChannel),
			QuantizeChannel(pixel.Unpack(p, pixel.Green), numPerChannel),
			QuantizeChannel(pixel.Unpack(p, pixel.Blue), numPerChannel),
		)
	}
	return out
}
