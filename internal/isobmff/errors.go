package isobmff

import "errors"

// ErrInvalidType is returned when a box is parsed with an explicit expected
// type and the on-disk tag does not match.
var ErrInvalidType = errors.New("isobmff: unexpected box type")

// ErrMalformed is returned when a field would read past its parent box's
// boundary, or a box list does not land exactly on its parent's end.
var ErrMalformed = errors.New("isobmff: malformed box")
