//go:build !nogpu

package accel

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// kernelParams mirrors the Params uniform struct shared by all four WGSL
// kernels: five consecutive u32 fields, uploaded once per run.
type kernelParams struct {
	Width         uint32
	Height        uint32
	EdgeThreshold uint32
	NumColours    uint32
	MaskColour    uint32
}

// toBytes serializes kernelParams in little-endian WGSL layout.
func (p kernelParams) toBytes() []byte {
	buf := make([]byte, 5*4)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.Width)
	le.PutUint32(buf[4:8], p.Height)
	le.PutUint32(buf[8:12], p.EdgeThreshold)
	le.PutUint32(buf[12:16], p.NumColours)
	le.PutUint32(buf[16:20], p.MaskColour)
	return buf
}

// pipelineBuffers holds the device buffers for one photo run: the uploaded
// input, one output per stage, and a staging buffer for readback.
type pipelineBuffers struct {
	device hal.Device

	Params    hal.Buffer
	Input     hal.Buffer
	Blurred   hal.Buffer
	Edges     hal.Buffer
	Quantized hal.Buffer
	Merged    hal.Buffer
	Staging   hal.Buffer
}

// allocateBuffers creates all device buffers for an image of pixelCount
// packed u32 pixels. On failure, buffers created so far are destroyed.
func allocateBuffers(device hal.Device, pixelCount int) (*pipelineBuffers, error) {
	bufs := &pipelineBuffers{device: device}
	size := uint64(pixelCount) * 4

	// Stage outputs carry CopySrc so debug runs can read intermediates back
	// through the same staging buffer as the final result.
	storageIn := gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst
	storageOut := gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc
	staging := gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst
	uniform := gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst

	specs := []struct {
		target *hal.Buffer
		label  string
		size   uint64
		usage  gputypes.BufferUsage
	}{
		{&bufs.Params, "cartoon_params", 5 * 4, uniform},
		{&bufs.Input, "cartoon_input", size, storageIn},
		{&bufs.Blurred, "cartoon_blurred", size, storageOut},
		{&bufs.Edges, "cartoon_edges", size, storageOut},
		{&bufs.Quantized, "cartoon_quantized", size, storageOut},
		{&bufs.Merged, "cartoon_merged", size, storageOut},
		{&bufs.Staging, "cartoon_staging", size, staging},
	}

	for _, s := range specs {
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: s.label,
			Size:  s.size,
			Usage: s.usage,
		})
		if err != nil {
			bufs.destroy()
			return nil, fmt.Errorf("accel: create %s buffer: %w", s.label, err)
		}
		*s.target = buf
	}

	slogger().Debug("accel: buffers allocated",
		"pixels", pixelCount,
		"bytes_per_buffer", size)
	return bufs, nil
}

// destroy releases every buffer that exists. Safe on partially-allocated
// sets and safe to call more than once.
func (b *pipelineBuffers) destroy() {
	destroyBuf := func(target *hal.Buffer) {
		if *target != nil {
			b.device.DestroyBuffer(*target)
			*target = nil
		}
	}
	destroyBuf(&b.Params)
	destroyBuf(&b.Input)
	destroyBuf(&b.Blurred)
	destroyBuf(&b.Edges)
	destroyBuf(&b.Quantized)
	destroyBuf(&b.Merged)
	destroyBuf(&b.Staging)
}
