// Package jpeg implements a minimal JPEG marker walker: it enumerates a
// stream's segments (SOI, SOF0/SOF2, DHT, DQT, DRI, APPn, COM, RSTn, and
// the SOS-prefixed compressed scan) without decoding any of their payloads.
// It shares internal/bufedit with the ISOBMFF/HEIF/QuickTime box readers
// but is otherwise independent of them: a JPEG file carries no iloc/iinf
// tables of its own.
package jpeg

import "errors"

// ErrMalformed is returned when a marker's lead byte is not 0xff.
var ErrMalformed = errors.New("jpeg: malformed marker")
