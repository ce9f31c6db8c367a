package cartoonify

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/codec"
	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
)

// Output filename suffixes, inserted before the extension.
const (
	cartoonSuffix = "_cartoon"
	blurredSuffix = "_blurred"
	edgesSuffix   = "_edges"
	coloursSuffix = "_colours"
)

// Result describes the outcome of processing one photo.
type Result struct {
	// OutputPath is the path the cartoon was written to. Empty when the
	// photo was skipped.
	OutputPath string

	// Elapsed is the processing time, excluding image decode and encode.
	Elapsed time.Duration

	// Skipped reports that the photo was not an image file and was
	// ignored rather than failed.
	Skipped bool
}

// Pipeline processes photos one at a time through a Backend. It is not
// safe for concurrent use; create one Pipeline per goroutine.
type Pipeline struct {
	cfg     Config
	backend Backend
	stack   pixel.Stack

	// Dimensions fixed by the first loaded photo. Zero until then.
	width, height uint32
}

// NewPipeline creates a pipeline with the backend selected by cfg.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg, backend: NewBackend(cfg)}
}

// Backend returns the backend the pipeline runs on.
func (p *Pipeline) Backend() Backend { return p.backend }

// LoadPhoto decodes the image at path and pushes it onto the stack. The
// first photo fixes the pipeline's dimensions; later photos of a different
// size are rejected.
func (p *Pipeline) LoadPhoto(path string) error {
	photo, err := codec.Decode(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if p.width == 0 && p.height == 0 {
		p.width, p.height = photo.Width, photo.Height
	} else if photo.Width != p.width || photo.Height != p.height {
		return fmt.Errorf("read %s: size %dx%d does not match pipeline size %dx%d",
			path, photo.Width, photo.Height, p.width, p.height)
	}
	p.stack.Push(photo)
	return nil
}

// SavePhoto encodes the image on top of the stack to path, choosing the
// format by extension.
func (p *Pipeline) SavePhoto(path string) error {
	top, err := p.stack.Top()
	if err != nil {
		return err
	}
	if err := codec.Encode(top, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ProcessPhoto reads the photo at path, runs the cartoon pipeline on it and
// writes the result next to the input as name_cartoon.ext. In debug mode
// the blurred, edge and quantized intermediates are written alongside as
// name_blurred.ext, name_edges.ext and name_colours.ext.
//
// Files without a known image extension are skipped, not failed: the
// returned Result has Skipped set and the error is nil. Any other error
// leaves no partial state behind; the pipeline can go on to the next photo.
func (p *Pipeline) ProcessPhoto(path string) (Result, error) {
	if !codec.HasKnownExtension(path) {
		Logger().Warn("skipping non-image file", "path", path)
		return Result{Skipped: true}, nil
	}

	p.stack.Clear()
	if err := p.LoadPhoto(path); err != nil {
		return Result{}, err
	}

	start := time.Now()
	if err := p.backend.Run(&p.stack, p.cfg); err != nil {
		p.stack.Clear()
		return Result{}, fmt.Errorf("%s backend on %s: %w", p.backend.Name(), path, err)
	}
	elapsed := time.Since(start)

	outPath := derivedPath(path, cartoonSuffix)
	if err := p.SavePhoto(outPath); err != nil {
		return Result{}, err
	}
	if _, err := p.stack.Pop(); err != nil {
		return Result{}, err
	}

	if p.cfg.Debug {
		if err := p.saveIntermediates(path); err != nil {
			return Result{}, err
		}
	}
	p.stack.Clear()

	return Result{OutputPath: outPath, Elapsed: elapsed}, nil
}

// saveIntermediates writes the debug history left on the stack by the
// backend. From the top down the stack holds: quantized, a copy of the
// original, edges, blurred.
func (p *Pipeline) saveIntermediates(path string) error {
	if err := p.SavePhoto(derivedPath(path, coloursSuffix)); err != nil {
		return err
	}
	if _, err := p.stack.Pop(); err != nil {
		return err
	}

	// Discard the duplicate of the original.
	if _, err := p.stack.Pop(); err != nil {
		return err
	}

	if err := p.SavePhoto(derivedPath(path, edgesSuffix)); err != nil {
		return err
	}
	if _, err := p.stack.Pop(); err != nil {
		return err
	}

	return p.SavePhoto(derivedPath(path, blurredSuffix))
}

// derivedPath inserts suffix between the base name and the extension, in
// the same directory as path. The extension is lowered so derived files
// get a uniform suffix whatever the camera wrote.
func derivedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + strings.ToLower(ext)
}
