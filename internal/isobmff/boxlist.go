package isobmff

import (
	"fmt"

	"github.com/ma-tf/motionheic/internal/bufedit"
)

// BoxList is a flat, in-order parse of every box inside a buffer, read by
// repeatedly parsing a header and jumping to NextOffset until the buffer is
// exhausted. Boxes of a type this repository does not special-case are
// still retained, as plain *Box values, so callers can walk past them or
// reparse one under a typed constructor on demand.
type BoxList struct {
	boxes []*Box
}

// ParseBoxList walks buffer from its start to its end, decoding one header
// at a time.
func ParseBoxList(buffer *bufedit.Buffer) (*BoxList, error) {
	list := &BoxList{}

	var offset int64

	for offset < buffer.Size() {
		box, err := ParseBox(buffer, offset, nil)
		if err != nil {
			return nil, err
		}

		if box.Size() <= 0 {
			return nil, fmt.Errorf("%w: box %q at %d has non-positive size %d", ErrMalformed, box.Type(), offset, box.Size())
		}

		list.boxes = append(list.boxes, box)

		offset = box.NextOffset()
	}

	if offset != buffer.Size() {
		return nil, fmt.Errorf("%w: box list ends at %d, buffer size %d", ErrMalformed, offset, buffer.Size())
	}

	return list, nil
}

// All returns every parsed box, in file order.
func (l *BoxList) All() []*Box { return l.boxes }

// Find returns the first box of type t, or nil if none is present.
func (l *BoxList) Find(t BoxType) *Box {
	for _, box := range l.boxes {
		if box.Type() == t {
			return box
		}
	}

	return nil
}

// FindAll returns every box of type t, in file order.
func (l *BoxList) FindAll(t BoxType) []*Box {
	var out []*Box

	for _, box := range l.boxes {
		if box.Type() == t {
			out = append(out, box)
		}
	}

	return out
}
