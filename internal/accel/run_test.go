//go:build !nogpu

package accel

import (
	"testing"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
	"github.com/lucasjli/turning-photos-into-cartoons/internal/transform"
)

func requireDevice(t *testing.T) {
	t.Helper()
	dev, err := acquireDevice()
	if err != nil {
		t.Skipf("GPU not available: %v (expected in CI/test environments)", err)
	}
	dev.release()
}

func gradientImage(width, height uint32) *pixel.Buffer {
	buf := pixel.New(width, height)
	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			buf.Set(x, y, pixel.Pack(x*255/int(width-1), y*255/int(height-1), (x*y)%256))
		}
	}
	return buf
}

// TestRunMatchesReference checks that the accelerator produces the same
// pixels as the host transforms for the same input and parameters.
func TestRunMatchesReference(t *testing.T) {
	requireDevice(t)

	original := gradientImage(64, 48)
	opts := Options{EdgeThreshold: 128, NumColours: 3}

	blurred := transform.Blur(original)
	edges := transform.DetectEdges(blurred, opts.EdgeThreshold)
	quantized := transform.Quantize(original, int(opts.NumColours))
	want := transform.MergeMask(edges, pixel.White, quantized)

	var st pixel.Stack
	st.Push(original)
	if err := Run(&st, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := st.Top()
	if err != nil {
		t.Fatal(err)
	}
	diff := 0
	for i := range want.Data {
		if got.Data[i] != want.Data[i] {
			diff++
		}
	}
	if diff != 0 {
		t.Errorf("accelerator output differs from reference in %d of %d pixels", diff, len(want.Data))
	}
}

// TestRunDebugHistory checks the stack layout a debug run leaves behind.
func TestRunDebugHistory(t *testing.T) {
	requireDevice(t)

	original := gradientImage(32, 32)
	var st pixel.Stack
	st.Push(original)

	if err := Run(&st, Options{EdgeThreshold: 128, NumColours: 3, Debug: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Bottom to top: original, blurred, edges, copy of original,
	// quantized, merged.
	if st.Len() != 6 {
		t.Fatalf("debug stack depth = %d, want 6", st.Len())
	}

	wantBlurred := transform.Blur(original)
	gotBlurred, err := st.At(1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range wantBlurred.Data {
		if gotBlurred.Data[i] != wantBlurred.Data[i] {
			t.Fatalf("blurred intermediate differs from reference at pixel %d", i)
		}
	}

	copyOfOriginal, err := st.At(3)
	if err != nil {
		t.Fatal(err)
	}
	if copyOfOriginal == original {
		t.Error("position 3 should be a copy, not the original buffer")
	}
}

// TestRunEmptyStack checks the failure path before any device work starts.
func TestRunEmptyStack(t *testing.T) {
	var st pixel.Stack
	if err := Run(&st, Options{EdgeThreshold: 128, NumColours: 3}); err == nil {
		t.Error("Run on an empty stack: want error")
	}
}

func TestRunStateStrings(t *testing.T) {
	states := []runState{
		stateUninitialized, stateDeviceAcquired, stateProgramBuilt,
		stateBuffersAllocated, stateDispatched, stateReadBack, stateReleased,
	}
	seen := make(map[string]bool)
	for _, s := range states {
		name := s.String()
		if name == "" {
			t.Errorf("state %d has an empty name", s)
		}
		if seen[name] {
			t.Errorf("duplicate state name %q", name)
		}
		seen[name] = true
	}
}
