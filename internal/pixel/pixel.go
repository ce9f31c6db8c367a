// Package pixel provides the packed-RGB pixel buffer that every pipeline
// stage consumes and produces, plus the stack of buffers that records one
// photo's processing history.
//
// Pixels are packed into the low 24 bits of a uint32 as (red, green, blue)
// with blue in the low byte. The high byte is always zero; any alpha channel
// is stripped at decode time.
package pixel

import "fmt"

// ColourBits is the number of bits per colour channel.
const ColourBits = 8

// ColourMask is the maximum value of one colour channel (0xFF).
const ColourMask = (1 << ColourBits) - 1

// Channel indices for Unpack. The packing order puts blue in the low byte.
const (
	Blue  = 0
	Green = 1
	Red   = 2
)

// Black and White are the two pixel values the edge mask is built from.
const (
	Black uint32 = 0
	White uint32 = ColourMask<<(2*ColourBits) | ColourMask<<ColourBits | ColourMask
)

// Pack combines three channel values into one packed pixel.
// All inputs must already be in [0, ColourMask]; callers are expected to
// have clamped, so out-of-range input is a programming error.
func Pack(r, g, b int) uint32 {
	if uint(r) > ColourMask || uint(g) > ColourMask || uint(b) > ColourMask {
		panic(fmt.Sprintf("pixel: channel out of range: r=%d g=%d b=%d", r, g, b))
	}
	return uint32(r)<<(2*ColourBits) | uint32(g)<<ColourBits | uint32(b)
}

// Unpack extracts one channel (Blue, Green or Red) from a packed pixel.
func Unpack(p uint32, channel int) int {
	return int(p>>(channel*ColourBits)) & ColourMask
}

// Buffer is a fixed-size rectangular grid of packed RGB pixels in row-major
// order. len(Data) == Width*Height always holds for buffers created through
// New; transforms treat their input buffers as read-only.
type Buffer struct {
	Width  uint32
	Height uint32
	Data   []uint32
}

// New creates a zeroed buffer of the given dimensions.
func New(width, height uint32) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Data:   make([]uint32, width*height),
	}
}

// At returns the pixel at (x, y). Coordinates must be in range.
func (b *Buffer) At(x, y int) uint32 {
	return b.Data[y*int(b.Width)+x]
}

// Set writes the pixel at (x, y). Coordinates must be in range.
func (b *Buffer) Set(x, y int, p uint32) {
	b.Data[y*int(b.Width)+x] = p
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Data: make([]uint32, len(b.Data))}
	copy(out.Data, b.Data)
	return out
}

// SameSize reports whether two buffers have identical dimensions.
func (b *Buffer) SameSize(other *Buffer) bool {
	return b.Width == other.Width && b.Height == other.Height
}
