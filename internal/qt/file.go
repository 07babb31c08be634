package qt

import (
	"errors"
	"fmt"
	"io"

	"github.com/ma-tf/motionheic/internal/isobmff"
)

// ErrNoMovieAtom is returned when a file has no top-level moov box.
var ErrNoMovieAtom = errors.New("qt: no moov box")

// File is a QuickTime/MP4 movie opened for reading: its top-level box
// list, reparsed as the moov movie atom.
type File struct {
	*isobmff.File

	Moov *MOOV
}

// Open parses a QuickTime/MP4 file backed by r (which must hold exactly
// size bytes starting at offset 0) and reparses its moov top-level box.
func Open(r io.ReaderAt, size int64) (*File, error) {
	base, err := isobmff.Open(r, size)
	if err != nil {
		return nil, err
	}

	moovBox := base.Boxes.Find(isobmff.TypeMoov)
	if moovBox == nil {
		return nil, ErrNoMovieAtom
	}

	moov, err := ParseMOOV(base.Buffer, moovBox.Offset())
	if err != nil {
		return nil, fmt.Errorf("qt: open: %w", err)
	}

	return &File{File: base, Moov: moov}, nil
}
