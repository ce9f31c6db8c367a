//go:build !nogpu

package accel

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
)

// Submission stream labels. Stream one carries blur, merge and the final
// readback; stream two carries the edge-detect and quantize dispatches so
// the quantize branch can run while blur is still in flight.
const (
	streamOne = "cartoon_queue1"
	streamTwo = "cartoon_queue2"
)

// Run executes the cartoon pipeline on the accelerator. The top of the
// stack is the input photo; on success the merged cartoon is pushed on top,
// preceded by the intermediate stages when opts.Debug is set, so the stack
// layout matches the reference backend's history.
//
// Every device resource created for the run is released before Run returns,
// on success and on failure. A failed run leaves the stack untouched and is
// not retried on the host.
func Run(st *pixel.Stack, opts Options) error {
	input, err := st.Top()
	if err != nil {
		return fmt.Errorf("accel: no input image: %w", err)
	}

	r := &runner{input: input, opts: opts}
	defer r.release()

	outputs, err := r.run()
	if err != nil {
		return err
	}

	if opts.Debug {
		st.Push(outputs.blurred)
		st.Push(outputs.edges)
		st.Push(input.Clone())
		st.Push(outputs.quantized)
	}
	st.Push(outputs.merged)
	return nil
}

// runOutputs holds the buffers read back from the device. The intermediate
// fields are nil unless the run was a debug run.
type runOutputs struct {
	blurred   *pixel.Buffer
	edges     *pixel.Buffer
	quantized *pixel.Buffer
	merged    *pixel.Buffer
}

// runner owns all device-side state for one photo and tracks the run's
// progress through the accelerator state machine.
type runner struct {
	input *pixel.Buffer
	opts  Options

	state runState
	dev   *deviceHandle
	prog  *program
	bufs  *pipelineBuffers
	disp  *dispatcher
}

// transition advances the state machine, logging the step.
func (r *runner) transition(next runState) {
	slogger().Debug("accel: state transition", "from", r.state.String(), "to", next.String())
	r.state = next
}

// release performs best-effort cleanup of whatever subset of resources was
// created, in reverse order of acquisition, and moves the run to Released.
// Safe to call at any state, including after a previous release.
func (r *runner) release() {
	if r.state == stateReleased {
		return
	}
	if r.disp != nil {
		r.disp.cleanup()
		r.disp = nil
	}
	if r.bufs != nil {
		r.bufs.destroy()
		r.bufs = nil
	}
	if r.prog != nil {
		r.prog.close()
		r.prog = nil
	}
	if r.dev != nil {
		r.dev.release()
		r.dev = nil
	}
	r.transition(stateReleased)
}

func (r *runner) run() (*runOutputs, error) {
	width := r.input.Width
	height := r.input.Height
	pixelCount := len(r.input.Data)
	byteSize := uint64(pixelCount) * 4

	// Uninitialized -> DeviceAcquired
	dev, err := acquireDevice()
	if err != nil {
		return nil, err
	}
	r.dev = dev
	r.transition(stateDeviceAcquired)

	// DeviceAcquired -> ProgramBuilt
	prog, err := buildProgram(dev.device)
	if err != nil {
		return nil, err
	}
	r.prog = prog
	r.transition(stateProgramBuilt)

	// ProgramBuilt -> BuffersAllocated
	bufs, err := allocateBuffers(dev.device, pixelCount)
	if err != nil {
		return nil, err
	}
	r.bufs = bufs
	r.transition(stateBuffersAllocated)

	params := kernelParams{
		Width:         width,
		Height:        height,
		EdgeThreshold: uint32(r.opts.EdgeThreshold),
		NumColours:    uint32(r.opts.NumColours),
		MaskColour:    pixel.White,
	}
	if err := dev.queue.WriteBuffer(bufs.Params, 0, params.toBytes()); err != nil {
		return nil, fmt.Errorf("accel: upload params: %w", err)
	}
	if err := dev.queue.WriteBuffer(bufs.Input, 0, pixelsToBytes(r.input.Data)); err != nil {
		return nil, fmt.Errorf("accel: upload input image: %w", err)
	}

	// BuffersAllocated -> Dispatched
	r.disp = &dispatcher{dev: dev, prog: prog}
	mergeEvent, err := r.dispatchGraph(width, height)
	if err != nil {
		return nil, err
	}
	r.transition(stateDispatched)

	// Dispatched -> ReadBack
	outputs := &runOutputs{}
	mergedBytes, err := r.disp.readback(bufs.Merged, bufs.Staging, byteSize, mergeEvent)
	if err != nil {
		return nil, err
	}
	outputs.merged = bytesToBuffer(mergedBytes, width, height)

	if r.opts.Debug {
		// Every dispatch has completed by now; the extra copies only pay
		// the transfer cost.
		blurredBytes, err := r.disp.readback(bufs.Blurred, bufs.Staging, byteSize, nil)
		if err != nil {
			return nil, err
		}
		outputs.blurred = bytesToBuffer(blurredBytes, width, height)

		edgesBytes, err := r.disp.readback(bufs.Edges, bufs.Staging, byteSize, nil)
		if err != nil {
			return nil, err
		}
		outputs.edges = bytesToBuffer(edgesBytes, width, height)

		quantizedBytes, err := r.disp.readback(bufs.Quantized, bufs.Staging, byteSize, nil)
		if err != nil {
			return nil, err
		}
		outputs.quantized = bytesToBuffer(quantizedBytes, width, height)
	}
	r.transition(stateReadBack)

	r.release()
	return outputs, nil
}

// dispatchGraph submits the four kernels with their dependency structure:
//
//	stream one: blur ----------------------> merge
//	stream two:       edges(after blur)  /
//	stream two:       quantize ---------/
//
// Edge detection runs on its own goroutine so the quantize dispatch does
// not sit behind the host-side wait for the blur event. The returned event
// is the merge completion, the only thing the caller still waits on.
func (r *runner) dispatchGraph(width, height uint32) (*event, error) {
	bufs := r.bufs

	blurEvent, err := r.disp.dispatch(streamOne, stageBlur, []gputypes.BindGroupEntry{
		bufferEntry(0, bufs.Params),
		bufferEntry(1, bufs.Input),
		bufferEntry(2, bufs.Blurred),
	}, width, height)
	if err != nil {
		return nil, err
	}

	type dispatchResult struct {
		ev  *event
		err error
	}
	edgeDone := make(chan dispatchResult, 1)
	go func() {
		ev, err := r.disp.dispatch(streamTwo, stageEdges, []gputypes.BindGroupEntry{
			bufferEntry(0, bufs.Params),
			bufferEntry(1, bufs.Blurred),
			bufferEntry(2, bufs.Edges),
		}, width, height, blurEvent)
		edgeDone <- dispatchResult{ev, err}
	}()

	quantEvent, err := r.disp.dispatch(streamTwo, stageQuantize, []gputypes.BindGroupEntry{
		bufferEntry(0, bufs.Params),
		bufferEntry(1, bufs.Input),
		bufferEntry(2, bufs.Quantized),
	}, width, height)
	if err != nil {
		// The edge goroutine only touches resources the dispatcher
		// tracks; wait for it so cleanup does not race.
		<-edgeDone
		return nil, err
	}

	edge := <-edgeDone
	if edge.err != nil {
		return nil, edge.err
	}

	return r.disp.dispatch(streamOne, stageMerge, []gputypes.BindGroupEntry{
		bufferEntry(0, bufs.Params),
		bufferEntry(1, bufs.Edges),
		bufferEntry(2, bufs.Quantized),
		bufferEntry(3, bufs.Merged),
	}, width, height, edge.ev, quantEvent)
}

// pixelsToBytes serializes packed pixels to little-endian bytes for upload.
func pixelsToBytes(data []uint32) []byte {
	out := make([]byte, len(data)*4)
	for i, p := range data {
		binary.LittleEndian.PutUint32(out[i*4:], p)
	}
	return out
}

// bytesToBuffer deserializes a little-endian readback into a pixel buffer.
func bytesToBuffer(data []byte, width, height uint32) *pixel.Buffer {
	buf := pixel.New(width, height)
	for i := range buf.Data {
		buf.Data[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return buf
}
