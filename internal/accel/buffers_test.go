//go:build !nogpu

package accel

import (
	"encoding/binary"
	"testing"
)

func TestKernelParamsToBytes(t *testing.T) {
	p := kernelParams{
		Width:         640,
		Height:        480,
		EdgeThreshold: 128,
		NumColours:    3,
		MaskColour:    0xFFFFFF,
	}
	b := p.toBytes()
	if len(b) != 20 {
		t.Fatalf("params encoded to %d bytes, want 20", len(b))
	}
	want := []uint32{640, 480, 128, 3, 0xFFFFFF}
	for i, w := range want {
		if got := binary.LittleEndian.Uint32(b[i*4:]); got != w {
			t.Errorf("word %d = %d, want %d", i, got, w)
		}
	}
}

func TestPixelByteRoundTrip(t *testing.T) {
	data := []uint32{0x000000, 0xFFFFFF, 0x123456, 0xABCDEF}
	b := pixelsToBytes(data)
	if len(b) != len(data)*4 {
		t.Fatalf("encoded %d bytes, want %d", len(b), len(data)*4)
	}
	buf := bytesToBuffer(b, 2, 2)
	for i, w := range data {
		if buf.Data[i] != w {
			t.Errorf("pixel %d = 0x%06X, want 0x%06X", i, buf.Data[i], w)
		}
	}
}
