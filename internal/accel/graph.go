//go:build !nogpu

package accel

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// completionTimeout is the watchdog on every wait for a submission. The
// pipeline has no cancellation of its own; a device that never signals
// would otherwise block the run forever.
const completionTimeout = 60 * time.Second

// pollInterval is how often a waiting goroutine re-polls the queue's
// completed submission index.
const pollInterval = 100 * time.Microsecond

// workgroupDim is the workgroup edge length used by all kernels. It matches
// the @workgroup_size(16, 16) annotation in every WGSL source.
const workgroupDim = 16

// event is the completion handle of one submitted dispatch: the submission
// index the queue returned for it. Submission indices on one queue are
// monotonically increasing, so index comparison orders the two streams'
// submissions consistently. Later stages name the events of their
// input-producing dispatches as wait conditions.
type event struct {
	name  string
	index uint64
}

// wait blocks until the dispatch behind the event has completed, polling
// the queue's completed-submission counter.
func (e *event) wait(queue hal.Queue) error {
	deadline := time.Now().Add(completionTimeout)
	for queue.PollCompleted() < e.index {
		if time.Now().After(deadline) {
			return fmt.Errorf("accel: %s did not complete within %v", e.name, completionTimeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// dispatcher submits kernel dispatches over the device queue and tracks
// every per-run resource (bind groups, command buffers) so cleanup can
// release them all regardless of which submissions succeeded.
//
// Two logical submission streams share the one HAL queue; the HAL manages
// submission synchronization internally, so inter-stage dependencies are
// expressed as host-side waits on submission indices, performed by
// whichever goroutine drives that stream. mu serializes submissions and
// resource tracking from concurrent streams; PollCompleted is safe to call
// without it.
type dispatcher struct {
	dev  *deviceHandle
	prog *program

	mu         sync.Mutex
	bindGroups []hal.BindGroup
	cmdBufs    []hal.CommandBuffer
}

// bufferEntry builds a full-buffer bind group entry at the given binding.
func bufferEntry(binding uint32, buf hal.Buffer) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding: binding,
		Resource: gputypes.BufferBinding{
			Buffer: buf.NativeHandle(),
			Offset: 0,
			Size:   0, // 0 = entire buffer
		},
	}
}

// dispatch encodes and submits one kernel over a width x height index space
// on the named stream, after every prerequisite event has signaled.
// It returns the completion event of the submitted dispatch.
func (d *dispatcher) dispatch(
	stream string,
	stage kernelStage,
	entries []gputypes.BindGroupEntry,
	width, height uint32,
	waits ...*event,
) (*event, error) {
	for _, w := range waits {
		if err := w.wait(d.dev.queue); err != nil {
			return nil, err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	bg, err := d.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   stage.String() + "_bg",
		Layout:  d.prog.bgLayouts[stage],
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("accel: create bind group for %s: %w", stage, err)
	}
	d.bindGroups = append(d.bindGroups, bg)

	encoder, err := d.dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: stream,
	})
	if err != nil {
		return nil, fmt.Errorf("accel: create command encoder for %s: %w", stage, err)
	}
	if err := encoder.BeginEncoding(stage.String()); err != nil {
		return nil, fmt.Errorf("accel: begin encoding %s: %w", stage, err)
	}

	groupsX := (width + workgroupDim - 1) / workgroupDim
	groupsY := (height + workgroupDim - 1) / workgroupDim

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: stage.String()})
	pass.SetPipeline(d.prog.pipelines[stage])
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(groupsX, groupsY, 1)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("accel: end encoding %s: %w", stage, err)
	}
	d.cmdBufs = append(d.cmdBufs, cmdBuf)

	index, err := d.dev.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return nil, fmt.Errorf("accel: submit %s: %w", stage, err)
	}

	slogger().Debug("accel: dispatched stage",
		"stream", stream,
		"stage", stage.String(),
		"submission", index,
		"workgroups_x", groupsX,
		"workgroups_y", groupsY,
		"waits", len(waits))

	return &event{name: stage.String(), index: index}, nil
}

// readback copies a device buffer into the staging buffer and reads it into
// host memory, waiting for the given prerequisite first. This is the only
// point where the orchestrating goroutine blocks on the device.
func (d *dispatcher) readback(src, staging hal.Buffer, size uint64, after *event) ([]byte, error) {
	if after != nil {
		if err := after.wait(d.dev.queue); err != nil {
			return nil, err
		}
	}

	d.mu.Lock()
	encoder, err := d.dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "cartoon_readback",
	})
	if err != nil {
		d.mu.Unlock()
		return nil, fmt.Errorf("accel: create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("cartoon_readback"); err != nil {
		d.mu.Unlock()
		return nil, fmt.Errorf("accel: begin readback encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(src, staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		d.mu.Unlock()
		return nil, fmt.Errorf("accel: end readback encoding: %w", err)
	}
	d.cmdBufs = append(d.cmdBufs, cmdBuf)

	index, err := d.dev.queue.Submit([]hal.CommandBuffer{cmdBuf})
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("accel: submit readback: %w", err)
	}

	copyDone := event{name: "readback copy", index: index}
	if err := copyDone.wait(d.dev.queue); err != nil {
		return nil, fmt.Errorf("accel: wait for readback: %w", err)
	}

	// The copy has completed, so the GPU is no longer writing the staging
	// buffer and mapping it is safe.
	mapping, err := d.dev.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("accel: map staging buffer: %w", err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := d.dev.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("accel: unmap staging buffer: %w", err)
	}
	return out, nil
}

// cleanup releases every resource the dispatcher accumulated. Resources
// that were never created are skipped; a second call is a no-op.
func (d *dispatcher) cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, cb := range d.cmdBufs {
		d.dev.device.FreeCommandBuffer(cb)
	}
	d.cmdBufs = nil
	for _, bg := range d.bindGroups {
		d.dev.device.DestroyBindGroup(bg)
	}
	d.bindGroups = nil
}
