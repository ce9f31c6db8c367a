package accel

import "fmt"

// runState tracks how far a single photo's accelerator run has progressed.
// On any failure after stateDeviceAcquired the run transitions directly to
// stateReleased, cleaning up whatever subset of resources exists.
type runState int

const (
	stateUninitialized runState = iota
	stateDeviceAcquired
	stateProgramBuilt
	stateBuffersAllocated
	stateDispatched
	stateReadBack
	stateReleased
)

// String returns the human-readable name of the run state.
func (s runState) String() string {
	switch s {
	case stateUninitialized:
		return "Uninitialized"
	case stateDeviceAcquired:
		return "DeviceAcquired"
	case stateProgramBuilt:
		return "ProgramBuilt"
	case stateBuffersAllocated:
		return "BuffersAllocated"
	case stateDispatched:
		return "Dispatched"
	case stateReadBack:
		return "ReadBack"
	case stateReleased:
		return "Released"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}
