package heif

import (
	"errors"
	"fmt"
	"io"

	"github.com/ma-tf/motionheic/internal/isobmff"
)

// ErrMissingBox is returned when a HEIF file's top-level box list is
// missing a box this recipe requires (meta or mdat).
var ErrMissingBox = errors.New("heif: missing required top-level box")

// File is a HEIF/HEIC file opened for editing: its top-level box list,
// reparsed as the meta item-info tree and the mdat content chunks that
// tree describes.
type File struct {
	*isobmff.File

	Meta    *META
	Content *Content
}

// Open parses a HEIF file backed by r (which must hold exactly size bytes
// starting at offset 0), reparses its meta and mdat top-level boxes, and
// builds the mdat chunk table from meta's item-location entries.
func Open(r io.ReaderAt, size int64) (*File, error) {
	base, err := isobmff.Open(r, size)
	if err != nil {
		return nil, err
	}

	metaBox := base.Boxes.Find(isobmff.TypeMeta)
	if metaBox == nil {
		return nil, fmt.Errorf("%w: meta", ErrMissingBox)
	}

	meta, err := ParseMETA(base.Buffer, metaBox.Offset())
	if err != nil {
		return nil, err
	}

	mdatBox := base.Boxes.Find(isobmff.TypeMdat)
	if mdatBox == nil {
		return nil, fmt.Errorf("%w: mdat", ErrMissingBox)
	}

	content, err := ParseContent(base.Buffer, mdatBox.Offset())
	if err != nil {
		return nil, err
	}

	if err := content.Read(meta); err != nil {
		return nil, err
	}

	return &File{File: base, Meta: meta, Content: content}, nil
}
