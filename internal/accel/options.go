// Package accel runs the cartoon pipeline on a compute accelerator.
//
// The four transforms are compiled as WGSL compute kernels and dispatched
// over a 2D index space of one invocation per pixel. The blur and edge branch
// and the independent quantize branch run on two submission streams with
// explicit completion events between stages, converging at the mask merge;
// the final merged buffer is read back to the host and pushed onto the
// image stack exactly like the reference backend's result.
//
// Every device-side resource created for one photo is released when that
// photo's run ends, on success and on every failure path.
package accel

// Options carries the per-run pipeline parameters. Validation happens at
// the configuration layer; values arriving here are trusted.
type Options struct {
	// EdgeThreshold is the gradient-magnitude cutoff for edge classification.
	EdgeThreshold int32

	// NumColours is the quantization bucket count per channel.
	NumColours int32

	// Debug additionally reads back the intermediate stage buffers and
	// pushes them onto the stack in the same order the reference backend
	// produces them.
	Debug bool
}
