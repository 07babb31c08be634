// Package bufedit implements the span-edited bounded buffer that backs every
// ISOBMFF box and content chunk in this repository: a half-open byte window
// over a parent (a raw file or another buffer) that tracks structural edits
// as an ordered list of spans instead of copying bytes on every write.
package bufedit

import "errors"

// ErrBufferShort is returned when a read or seek would run past the end of
// the buffer's current logical size.
var ErrBufferShort = errors.New("bufedit: buffer short")

// ErrUnownedBuffer is returned when a write would need to split a Child
// span. A child buffer's bytes are owned by the child, not the parent, so
// the parent cannot slice into the middle of one.
var ErrUnownedBuffer = errors.New("bufedit: content not owned by this buffer")

// ErrNonMonotonicSpans is returned when an edit would leave the Original
// spans of a buffer out of strictly increasing order. This indicates a bug
// in the caller, not a malformed input file.
var ErrNonMonotonicSpans = errors.New("bufedit: original spans must be strictly increasing")
