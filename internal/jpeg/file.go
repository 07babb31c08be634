package jpeg

import (
	"io"

	"github.com/ma-tf/motionheic/internal/bufedit"
)

// File is a JPEG stream opened for read-only marker enumeration.
type File struct {
	Buffer  *bufedit.Buffer
	Markers []*Marker
}

// Open walks every marker in a JPEG stream backed by r (which must hold
// exactly size bytes starting at offset 0), stopping at the first byte that
// doesn't look like the start of a recognized marker (in a well-formed
// file, this is the EOI pair already absorbed by the trailing SOS marker).
func Open(r io.ReaderAt, size int64) (*File, error) {
	buffer := bufedit.NewFile(r, size)

	f := &File{Buffer: buffer}

	offset := int64(0)

	for {
		if err := buffer.Seek(offset + 1); err != nil {
			break
		}

		typeByte, err := buffer.ReadUint8()
		if err != nil {
			break
		}

		if !recognized(typeByte) {
			break
		}

		marker, err := ParseMarker(buffer, offset)
		if err != nil {
			return nil, err
		}

		f.Markers = append(f.Markers, marker)

		offset += marker.Next()
	}

	return f, nil
}
