package pixel

import (
	"errors"
	"fmt"
)

// Stack errors.
var (
	// ErrEmptyStack is returned by Pop and Top when no image is loaded.
	ErrEmptyStack = errors.New("pixel: image stack is empty")
)

// Stack is an ordered, growable sequence of Buffers describing one photo's
// processing history. The original photo sits at position 0 and the current
// image at the top. Transforms never mutate entries in place; they push new
// buffers.
//
// Stack is not safe for concurrent use; the pipeline accesses it from a
// single goroutine.
type Stack struct {
	images []*Buffer
}

// Len returns the number of images on the stack.
func (s *Stack) Len() int { return len(s.images) }

// Push appends a buffer, which becomes the new top.
// The buffer must match the size of the images already on the stack.
func (s *Stack) Push(b *Buffer) {
	if len(s.images) > 0 && !s.images[0].SameSize(b) {
		panic(fmt.Sprintf("pixel: pushed %dx%d buffer onto %dx%d stack",
			b.Width, b.Height, s.images[0].Width, s.images[0].Height))
	}
	s.images = append(s.images, b)
}

// Pop removes and returns the top image.
func (s *Stack) Pop() (*Buffer, error) {
	if len(s.images) == 0 {
		return nil, ErrEmptyStack
	}
	top := s.images[len(s.images)-1]
	s.images[len(s.images)-1] = nil
	s.images = s.images[:len(s.images)-1]
	return top, nil
}

// Top returns the current image without removing it.
func (s *Stack) Top() (*Buffer, error) {
	if len(s.images) == 0 {
		return nil, ErrEmptyStack
	}
	return s.images[len(s.images)-1], nil
}

// At returns the image at the given position without removing it, using the
// same addressing as Duplicate.
func (s *Stack) At(position int) (*Buffer, error) {
	idx, err := s.index(position)
	if err != nil {
		return nil, err
	}
	return s.images[idx], nil
}

// Duplicate pushes a copy of the image at the given position. Zero or
// positive positions count from the bottom (0 is the original photo);
// negative positions count from the top (-1 is the current image).
func (s *Stack) Duplicate(position int) error {
	idx, err := s.index(position)
	if err != nil {
		return err
	}
	s.Push(s.images[idx].Clone())
	return nil
}

// index resolves a Duplicate-style position into a slice index.
func (s *Stack) index(position int) (int, error) {
	n := len(s.images)
	idx := position
	if position < 0 {
		idx = n + position
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("pixel: stack position %d out of range [-%d, %d]", position, n, n-1)
	}
	return idx, nil
}

// Clear empties the stack, releasing all buffers. Used to reset the pipeline
// between photos.
func (s *Stack) Clear() {
	for i := range s.images {
		s.images[i] = nil
	}
	s.images = s.images[:0]
}
