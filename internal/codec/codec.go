// Package codec converts between image files on disk and pixel.Buffers.
//
// Decoding goes through Go's image registry; PNG, JPEG, BMP and TIFF are
// supported, with the encoder chosen by filename extension. Alpha is
// discarded on decode since the pipeline works on packed 24-bit RGB only.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
)

// ErrUnsupportedFormat is returned when the target extension has no encoder.
var ErrUnsupportedFormat = errors.New("codec: unsupported image format")

// jpegQuality is used for JPEG output. The default library quality (75)
// visibly posterizes the flat colour regions the quantizer produces.
const jpegQuality = 90

// HasKnownExtension reports whether the path ends in an extension the codec
// can encode. The orchestrator skips files that fail this check.
func HasKnownExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// Decode reads and decodes the image at path into a pixel buffer,
// auto-detecting the format from the file content.
func Decode(path string) (*pixel.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("codec: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("codec: decode %s: %w", path, err)
	}
	return fromStdImage(img), nil
}

// Encode writes the buffer to path, choosing the format by extension.
func Encode(buf *pixel.Buffer, path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("codec: create file: %w", err)
	}

	img := toStdImage(buf)
	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, nil)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("codec: encode %s: %w", path, err)
	}
	return f.Close()
}

// fromStdImage converts a decoded image into a packed-RGB pixel buffer,
// dropping any alpha channel.
func fromStdImage(img image.Image) *pixel.Buffer {
	bounds := img.Bounds()
	buf := pixel.New(uint32(bounds.Dx()), uint32(bounds.Dy()))
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit premultiplied channels; take the high byte.
			buf.Data[i] = pixel.Pack(int(r>>8), int(g>>8), int(b>>8))
			i++
		}
	}
	return buf
}

// toStdImage converts a pixel buffer into an image.RGBA for encoding.
func toStdImage(buf *pixel.Buffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(buf.Width), int(buf.Height)))
	i := 0
	for y := 0; y < int(buf.Height); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < int(buf.Width); x++ {
			p := buf.Data[i]
			row[x*4+0] = uint8(pixel.Unpack(p, pixel.Red))
			row[x*4+1] = uint8(pixel.Unpack(p, pixel.Green))
			row[x*4+2] = uint8(pixel.Unpack(p, pixel.Blue))
			row[x*4+3] = 0xFF
			i++
		}
	}
	return img
}
