package cartoonify

import "fmt"

// Default pipeline parameters.
const (
	DefaultEdgeThreshold = 128
	DefaultNumColours    = 3

	// MinNumColours is 2 because quantization interpolates between
	// numPerChannel discrete levels; a single level has no spread to
	// interpolate across.
	MinNumColours = 2
	// MaxNumColours is the number of distinct values an 8-bit channel
	// can hold.
	MaxNumColours = 256
)

// Config holds the tunable parameters of the cartoon pipeline.
// The zero value is not ready for use; call NewConfig for defaults.
type Config struct {
	// EdgeThreshold is the minimum summed Sobel response for a pixel to
	// count as an edge. Lower values produce more edge lines.
	EdgeThreshold int32

	// NumColours is the number of discrete values each colour channel is
	// reduced to. Lower values produce flatter cartoon shading.
	NumColours int32

	// UseAccelerator selects the accelerator backend instead of the
	// sequential reference backend.
	UseAccelerator bool

	// Debug enables per-stage diagnostics and intermediate image output.
	Debug bool
}

// NewConfig returns a Config with the default pipeline parameters.
func NewConfig() Config {
	return Config{
		EdgeThreshold: DefaultEdgeThreshold,
		NumColours:    DefaultNumColours,
	}
}

// SetEdgeThreshold validates and applies an edge detection threshold.
// Negative thresholds are rejected; zero marks every pixel as an edge.
func (c *Config) SetEdgeThreshold(threshold int32) error {
	if threshold < 0 {
		return fmt.Errorf("edge threshold must be >= 0, got %d", threshold)
	}
	c.EdgeThreshold = threshold
	return nil
}

// SetNumColours validates and applies the per-channel colour count.
func (c *Config) SetNumColours(numColours int32) error {
	if numColours < MinNumColours || numColours > MaxNumColours {
		return fmt.Errorf("colours per channel must be in [%d, %d], got %d",
			MinNumColours, MaxNumColours, numColours)
	}
	c.NumColours = numColours
	return nil
}
