package transform

import (
	"fmt"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
)

// MergeMask composites a mask image on top of another image. Wherever the
// mask equals maskColour the underlying photo shows through; everywhere else
// the mask's own pixel wins. Neither input is modified; the result is a new
// buffer.
func MergeMask(mask *pixel.Buffer, maskColour uint32, photo *pixel.Buffer) *pixel.Buffer {
	if !mask.SameSize(photo) {
		panic(fmt.Sprintf("transform: merge size mismatch: mask %dx%d, photo %dx%d",
			mask.Width, mask.Height, photo.Width, photo.Height))
	}
	out := pixel.New(mask.Width, mask.Height)
	for i, m := range mask.Data {
		if m == maskColour {
			out.Data[i] = photo.Data[i]
		} else {
			out.Data[i] = m
		}
	}
	return out
}
