//go:build !nogpu

package accel

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL kernel sources, one per pipeline stage.

//go:embed shaders/blur.wgsl
var blurShaderWGSL string

//go:embed shaders/edges.wgsl
var edgesShaderWGSL string

//go:embed shaders/quantize.wgsl
var quantizeShaderWGSL string

//go:embed shaders/merge.wgsl
var mergeShaderWGSL string

// kernelStage identifies one of the four compute kernels.
type kernelStage int

const (
	stageBlur kernelStage = iota
	stageEdges
	stageQuantize
	stageMerge
	stageCount
)

// String returns the kernel name, matching the entry comment in each shader.
func (s kernelStage) String() string {
	switch s {
	case stageBlur:
		return "gaussian_blur"
	case stageEdges:
		return "sobel_edge_detect"
	case stageQuantize:
		return "reduce_colours"
	case stageMerge:
		return "merge_mask"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// stageSources maps each stage to its embedded WGSL source.
var stageSources = [stageCount]string{
	stageBlur:     blurShaderWGSL,
	stageEdges:    edgesShaderWGSL,
	stageQuantize: quantizeShaderWGSL,
	stageMerge:    mergeShaderWGSL,
}

// compileShaderToSPIRV compiles WGSL source to a SPIR-V word slice via naga.
// SPIR-V is little-endian 32-bit words.
func compileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("accel: compile shader: %w", err)
	}

	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// createShaderModule compiles one stage's WGSL and wraps it in a HAL module.
func createShaderModule(device hal.Device, stage kernelStage) (hal.ShaderModule, error) {
	spirvCode, err := compileShaderToSPIRV(stageSources[stage])
	if err != nil {
		return nil, fmt.Errorf("accel: stage %s: %w", stage, err)
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: stage.String(),
		Source: hal.ShaderSource{
			SPIRV: spirvCode,
		},
	})
}
