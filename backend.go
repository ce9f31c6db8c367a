package cartoonify

import (
	"time"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/accel"
	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
	"github.com/lucasjli/turning-photos-into-cartoons/internal/transform"
)

// Backend turns the photo on top of the stack into a cartoon.
//
// On success the cartoon is on top of the stack. When cfg.Debug is set the
// backend additionally leaves the intermediate stages underneath it, from
// bottom to top: blurred, edges, a copy of the original, quantized, cartoon.
// On failure the stack is left unchanged.
type Backend interface {
	// Name identifies the backend in logs and error messages.
	Name() string

	// Run executes the pipeline on st using the parameters in cfg.
	Run(st *pixel.Stack, cfg Config) error
}

// NewBackend returns the backend selected by cfg.UseAccelerator.
func NewBackend(cfg Config) Backend {
	if cfg.UseAccelerator {
		return AcceleratorBackend{}
	}
	return ReferenceBackend{}
}

// ReferenceBackend runs the pipeline sequentially on the host. It is the
// semantic reference: the accelerator must produce identical pixels for
// identical inputs.
type ReferenceBackend struct{}

// Name implements Backend.
func (ReferenceBackend) Name() string { return "reference" }

// Run applies blur, edge detection and colour quantization to the top of
// the stack, then merges the edge mask over the quantized image.
func (ReferenceBackend) Run(st *pixel.Stack, cfg Config) error {
	photo, err := st.Top()
	if err != nil {
		return err
	}

	start := time.Now()
	blurred := transform.Blur(photo)
	logStage(cfg, "gaussian_blur", start)

	start = time.Now()
	edges := transform.DetectEdges(blurred, cfg.EdgeThreshold)
	logStage(cfg, "sobel_edge_detect", start)

	start = time.Now()
	quantized := transform.Quantize(photo, int(cfg.NumColours))
	logStage(cfg, "reduce_colours", start)

	start = time.Now()
	merged := transform.MergeMask(edges, pixel.White, quantized)
	logStage(cfg, "merge_mask", start)

	if cfg.Debug {
		st.Push(blurred)
		st.Push(edges)
		// Duplicate the input photo so the debug history records what
		// the quantize stage consumed.
		if err := st.Duplicate(-3); err != nil {
			return err
		}
		st.Push(quantized)
	}
	st.Push(merged)
	return nil
}

// AcceleratorBackend runs the pipeline as compute kernels on a GPU.
// There is no host fallback: if no usable device is found, or any kernel
// fails, the run fails.
type AcceleratorBackend struct{}

// Name implements Backend.
func (AcceleratorBackend) Name() string { return "accelerator" }

// Run implements Backend.
func (AcceleratorBackend) Run(st *pixel.Stack, cfg Config) error {
	return accel.Run(st, accel.Options{
		EdgeThreshold: cfg.EdgeThreshold,
		NumColours:    cfg.NumColours,
		Debug:         cfg.Debug,
	})
}

func logStage(cfg Config, stage string, start time.Time) {
	if !cfg.Debug {
		return
	}
	Logger().Debug("pipeline stage done", "stage", stage, "elapsed", time.Since(start))
}
