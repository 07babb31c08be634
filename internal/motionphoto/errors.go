// Package motionphoto assembles a Google-Photos-compatible Motion Photo:
// it mutates an opened HEIF image's XMP item to carry a GCamera metadata
// fragment, then appends the companion movie as a trailing mpvd/mpv2 pair
// (or, in the legacy MicroVideo mode, mpvd alone).
package motionphoto

import "errors"

// ErrNoXMPItem is returned when the image has no item declaring a "mime"
// infe kind, so there is nowhere to carry the GCamera metadata.
var ErrNoXMPItem = errors.New("motionphoto: image has no xmp item")

// ErrNoRDFRoot is returned when the image's XMP payload has no
// rdf:RDF element to append the GCamera Description into.
var ErrNoRDFRoot = errors.New("motionphoto: xmp payload has no rdf:RDF root")

// ErrNoXMPMetaRoot is returned when the image's XMP payload has no
// x:xmpmeta element to stamp the xmptk attribute onto.
var ErrNoXMPMetaRoot = errors.New("motionphoto: xmp payload has no x:xmpmeta root")

// ErrNoFragmentRoot is returned if the GCamera template fails to produce
// an rdf:Description element, which would indicate a bug in the literal
// template rather than anything about the input files.
var ErrNoFragmentRoot = errors.New("motionphoto: gcamera template has no rdf:Description")
