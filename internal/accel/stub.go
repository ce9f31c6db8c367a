//go:build nogpu

package accel

import (
	"errors"

	"github.com/lucasjli/turning-photos-into-cartoons/internal/pixel"
)

// ErrDisabled is returned by Run when the binary was built without
// accelerator support.
var ErrDisabled = errors.New("accel: accelerator support disabled in this build")

// Run always fails under the nogpu build tag.
func Run(st *pixel.Stack, opts Options) error {
	return ErrDisabled
}
