package isobmff

import (
	"encoding/binary"
	"io"

	"github.com/ma-tf/motionheic/internal/bufedit"
)

// maxNormalBoxSize is the largest size a box can declare in its plain
// 4-byte size field before it must switch to the extended 8-byte form.
const maxNormalBoxSize = 0xFFFFFFFF

// AppendedBox is a box written after the end of the main edited buffer
// rather than spliced into it: the Motion Photo trailer pointer
// (a PointerBox wrapping the whole companion movie) and its sentinel
// (a MemoryBox holding a fixed trailer) are the two shapes this recipe
// needs. Appended boxes never participate in the span-edited buffer's
// resize/relocate bookkeeping; they are written once, in order, after the
// main buffer has been committed.
type AppendedBox interface {
	Type() BoxType
	// ContentSize is the payload length, excluding the header.
	ContentSize() int64
	// HeaderSize is 8 for a normal box, 16 for one whose header + content
	// would otherwise overflow a 32-bit size field.
	HeaderSize() int64
	Commit(w io.Writer) error
}

func headerSizeFor(contentSize int64) int64 {
	if contentSize+8 > maxNormalBoxSize {
		return 16
	}

	return 8
}

func writeHeader(w io.Writer, boxType BoxType, headerSize, contentSize int64) error {
	total := headerSize + contentSize

	if headerSize == 16 {
		var buf [16]byte
		binary.BigEndian.PutUint32(buf[0:4], 1)
		copy(buf[4:8], boxType[:])
		binary.BigEndian.PutUint64(buf[8:16], uint64(total))

		_, err := w.Write(buf[:])
		return err
	}

	var buf [8]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(total))
	copy(buf[4:8], boxType[:])

	_, err := w.Write(buf[:])
	return err
}

// PointerBox is an appended box whose payload is the full committed
// contents of another buffer, such as a companion movie file wrapped
// wholesale into a Motion Photo's "mpvd" trailer.
type PointerBox struct {
	boxType BoxType
	buffer  *bufedit.Buffer
}

// NewPointerBox wraps buffer as the payload of an appended box tagged
// boxType.
func NewPointerBox(boxType BoxType, buffer *bufedit.Buffer) *PointerBox {
	return &PointerBox{boxType: boxType, buffer: buffer}
}

// Type implements AppendedBox.
func (p *PointerBox) Type() BoxType { return p.boxType }

// ContentSize implements AppendedBox.
func (p *PointerBox) ContentSize() int64 { return p.buffer.Size() }

// HeaderSize implements AppendedBox.
func (p *PointerBox) HeaderSize() int64 { return headerSizeFor(p.ContentSize()) }

// Commit writes this box's header followed by its wrapped buffer's
// committed bytes.
func (p *PointerBox) Commit(w io.Writer) error {
	if err := writeHeader(w, p.boxType, p.HeaderSize(), p.ContentSize()); err != nil {
		return err
	}

	return p.buffer.Commit(w)
}

// MemoryBox is an appended box whose payload is a fixed, literal byte
// slice built in memory, such as a Motion Photo's "mpv2" sentinel trailer.
type MemoryBox struct {
	boxType BoxType
	data    []byte
}

// NewMemoryBox wraps data as the payload of an appended box tagged
// boxType.
func NewMemoryBox(boxType BoxType, data []byte) *MemoryBox {
	return &MemoryBox{boxType: boxType, data: data}
}

// Type implements AppendedBox.
func (m *MemoryBox) Type() BoxType { return m.boxType }

// ContentSize implements AppendedBox.
func (m *MemoryBox) ContentSize() int64 { return int64(len(m.data)) }

// HeaderSize implements AppendedBox.
func (m *MemoryBox) HeaderSize() int64 { return headerSizeFor(m.ContentSize()) }

// Commit writes this box's header followed by its literal payload.
func (m *MemoryBox) Commit(w io.Writer) error {
	if err := writeHeader(w, m.boxType, m.HeaderSize(), m.ContentSize()); err != nil {
		return err
	}

	_, err := w.Write(m.data)
	return err
}
