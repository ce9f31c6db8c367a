//go:build !nogpu

package accel

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// program holds the compiled compute pipelines for all four kernels.
// It lives for the duration of one photo's accelerator run.
type program struct {
	device hal.Device

	modules         [stageCount]hal.ShaderModule
	bgLayouts       [stageCount]hal.BindGroupLayout
	pipelineLayouts [stageCount]hal.PipelineLayout
	pipelines       [stageCount]hal.ComputePipeline
}

// stageBindGroupLayoutEntries returns the bind group layout entries for one
// kernel. These match the @group(0) @binding(N) annotations in the
// corresponding WGSL source exactly.
func stageBindGroupLayoutEntries(stage kernelStage) []gputypes.BindGroupLayoutEntry {
	paramsUniform := gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}
	storageRO := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		}
	}
	storageRW := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
		}
	}

	switch stage {
	case stageMerge:
		// @binding(1) mask, @binding(2) photo, @binding(3) dst
		return []gputypes.BindGroupLayoutEntry{
			paramsUniform, storageRO(1), storageRO(2), storageRW(3),
		}
	default:
		// blur/edges/quantize: @binding(1) src, @binding(2) dst
		return []gputypes.BindGroupLayoutEntry{
			paramsUniform, storageRO(1), storageRW(2),
		}
	}
}

// buildProgram compiles all four WGSL kernels and creates their compute
// pipelines. On failure, everything created so far is destroyed before the
// error is returned.
func buildProgram(device hal.Device) (*program, error) {
	p := &program{device: device}

	for stage := kernelStage(0); stage < stageCount; stage++ {
		module, err := createShaderModule(device, stage)
		if err != nil {
			p.close()
			return nil, fmt.Errorf("accel: create shader module for %s: %w", stage, err)
		}
		p.modules[stage] = module

		bgLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   stage.String() + "_bgl",
			Entries: stageBindGroupLayoutEntries(stage),
		})
		if err != nil {
			p.close()
			return nil, fmt.Errorf("accel: create bind group layout for %s: %w", stage, err)
		}
		p.bgLayouts[stage] = bgLayout

		pipelineLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label:            stage.String() + "_pl",
			BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
		})
		if err != nil {
			p.close()
			return nil, fmt.Errorf("accel: create pipeline layout for %s: %w", stage, err)
		}
		p.pipelineLayouts[stage] = pipelineLayout

		pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label:  stage.String(),
			Layout: pipelineLayout,
			Compute: hal.ComputeState{
				Module:     module,
				EntryPoint: "main",
			},
		})
		if err != nil {
			p.close()
			return nil, fmt.Errorf("accel: create compute pipeline for %s: %w", stage, err)
		}
		p.pipelines[stage] = pipeline

		slogger().Debug("accel: pipeline created",
			"stage", stage.String(),
			"shader_bytes", len(stageSources[stage]))
	}

	return p, nil
}

// close destroys every pipeline resource that exists. Safe on partially
// built programs and safe to call more than once.
func (p *program) close() {
	for stage := kernelStage(0); stage < stageCount; stage++ {
		if p.pipelines[stage] != nil {
			p.device.DestroyComputePipeline(p.pipelines[stage])
			p.pipelines[stage] = nil
		}
		if p.pipelineLayouts[stage] != nil {
			p.device.DestroyPipelineLayout(p.pipelineLayouts[stage])
			p.pipelineLayouts[stage] = nil
		}
		if p.bgLayouts[stage] != nil {
			p.device.DestroyBindGroupLayout(p.bgLayouts[stage])
			p.bgLayouts[stage] = nil
		}
		if p.modules[stage] != nil {
			p.device.DestroyShaderModule(p.modules[stage])
			p.modules[stage] = nil
		}
	}
}
