package isobmff

import (
	"io"

	"github.com/ma-tf/motionheic/internal/bufedit"
)

// File is the root of a box-edited file: its top-level box list plus
// whatever boxes get appended after the main buffer (see AppendedBox).
// internal/heif.File and internal/qt.File build on this by reparsing
// specific top-level boxes (meta, mdat, moov) the same way every other
// typed box reparses a Box's Contents().
//
// Unlike the original this recipe is ported from, File does not need to
// track its own "current size" delta by hand: bufedit.Buffer.Size() is
// always computed live from the span list, so CurrentSize is just
// f.Buffer.Size() plus whatever has already been queued in AddedBoxes.
type File struct {
	Buffer *bufedit.Buffer
	Boxes  *BoxList

	added []AppendedBox
}

// Open parses the top-level box list of a file backed by r, which must
// hold exactly size bytes starting at offset 0.
func Open(r io.ReaderAt, size int64) (*File, error) {
	buffer := bufedit.NewFile(r, size)

	boxes, err := ParseBoxList(buffer)
	if err != nil {
		return nil, err
	}

	return &File{Buffer: buffer, Boxes: boxes}, nil
}

// CurrentSize is the file's total size if committed right now: the main
// buffer's live size plus the header and content size of every box queued
// with AddBox.
func (f *File) CurrentSize() int64 {
	total := f.Buffer.Size()

	for _, box := range f.added {
		total += box.HeaderSize() + box.ContentSize()
	}

	return total
}

// AddBox queues box to be written immediately after the main buffer on
// Commit, in the order AddBox was called.
func (f *File) AddBox(box AppendedBox) {
	f.added = append(f.added, box)
}

// AddedBoxes returns every box queued with AddBox, in commit order.
func (f *File) AddedBoxes() []AppendedBox { return f.added }

// Commit writes the main buffer's current logical contents to w, followed
// by every box queued with AddBox, in order.
func (f *File) Commit(w io.Writer) error {
	if err := f.Buffer.Commit(w); err != nil {
		return err
	}

	for _, box := range f.added {
		if err := box.Commit(w); err != nil {
			return err
		}
	}

	return nil
}
