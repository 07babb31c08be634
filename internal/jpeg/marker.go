package jpeg

import (
	"fmt"

	"github.com/ma-tf/motionheic/internal/bufedit"
)

// Well-known marker type bytes (the second byte of a marker's 0xff TT
// header). RST and APPn are ranges, not single values; see isRST/isAPPn.
const (
	TypeSOI  = 0xd8
	TypeEOI  = 0xd9
	TypeSOF0 = 0xc0
	TypeSOF2 = 0xc2
	TypeDHT  = 0xc4
	TypeDQT  = 0xdb
	TypeDRI  = 0xdd
	TypeSOS  = 0xda
	TypeCOM  = 0xfe
)

func isRST(t uint8) bool  { return t >= 0xd0 && t < 0xd8 }
func isAPPn(t uint8) bool { return t >= 0xe0 && t <= 0xef }

// recognized reports whether t is a marker type this walker knows how to
// size. An unrecognized type ends the walk rather than erroring: the
// original parser treats the same byte as the implicit end of the stream
// (in practice this is how 0xd9 EOI, never itself registered as a marker,
// terminates the scan right after the SOS segment absorbs it).
func recognized(t uint8) bool {
	switch t {
	case TypeSOI, TypeSOF0, TypeSOF2, TypeDHT, TypeDQT, TypeDRI, TypeSOS, TypeCOM:
		return true
	}

	return isRST(t) || isAPPn(t)
}

// Marker is one JPEG segment: its 0xff TT header plus, for every type but
// SOI and RSTn, a following payload.
type Marker struct {
	Buffer *bufedit.Buffer
	Offset int64
	Type   uint8
	// ContentOffset is the number of header bytes before Size begins
	// counting, always 2 (the 0xff TT pair).
	ContentOffset int64
	// Size is the marker-type-dependent payload length. For a
	// length-prefixed segment (SOF/DHT/DQT/DRI/APPn/COM) this is the raw
	// value of its 2-byte length field, which by JPEG convention counts
	// itself: Contents() below spans those same 2 bytes again at its start,
	// matching the original parser's own framing rather than trimming them
	// out. For SOS it is the number of bytes scanned up to and including
	// the terminating 0xff 0xd9 EOI pair.
	Size int64

	contents *bufedit.Buffer
}

// ParseMarker reads one marker's header (and, for a variable-length type,
// determines its size) at offset in buffer.
func ParseMarker(buffer *bufedit.Buffer, offset int64) (*Marker, error) {
	if err := buffer.Seek(offset); err != nil {
		return nil, fmt.Errorf("jpeg: seek marker at %d: %w", offset, err)
	}

	lead, err := buffer.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("jpeg: read marker lead at %d: %w", offset, err)
	}

	if lead != 0xff {
		return nil, fmt.Errorf("%w: expected 0xff at %d, got %#02x", ErrMalformed, offset, lead)
	}

	typ, err := buffer.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("jpeg: read marker type at %d: %w", offset+1, err)
	}

	m := &Marker{Buffer: buffer, Offset: offset, Type: typ, ContentOffset: 2}

	switch {
	case typ == TypeSOI, isRST(typ):
		// fixed-width, no payload
	case typ == TypeSOS:
		if err := m.scanStream(); err != nil {
			return nil, err
		}
	default:
		length, err := buffer.ReadUint16BE()
		if err != nil {
			return nil, fmt.Errorf("jpeg: read marker length at %d: %w", offset+2, err)
		}

		m.Size = int64(length)
	}

	return m, nil
}

// scanStream walks the compressed scan data following an SOS header until
// it finds the 0xff 0xd9 EOI pair (including one that ends exactly at the
// file's end), or runs out of buffer first (a scan with no EOI pair).
func (m *Marker) scanStream() error {
	start := m.Buffer.Tell() // right after the 0xff 0xda header

	headerLen, err := m.Buffer.ReadUint16BE()
	if err != nil {
		return fmt.Errorf("jpeg: read sos header length: %w", err)
	}

	if headerLen > 2 {
		if _, err := m.Buffer.Read(int64(headerLen) - 2); err != nil {
			return fmt.Errorf("jpeg: read sos header: %w", err)
		}
	}

	for {
		pos := m.Buffer.Tell()

		if m.Buffer.Size()-pos < 1 {
			m.Size = pos + 1 - start
			return nil
		}

		b, err := m.Buffer.ReadUint8()
		if err != nil {
			return fmt.Errorf("jpeg: scan stream at %d: %w", pos, err)
		}

		if b != 0xff {
			continue
		}

		cur := m.Buffer.Tell()

		if m.Buffer.Size()-cur < 1 {
			m.Size = cur + 1 - start
			return nil
		}

		next, err := m.Buffer.ReadUint8()
		if err != nil {
			return fmt.Errorf("jpeg: scan stream at %d: %w", cur, err)
		}

		if next == TypeEOI {
			m.Size = m.Buffer.Tell() - start
			return nil
		}

		if err := m.Buffer.Seek(cur); err != nil {
			return fmt.Errorf("jpeg: scan stream: %w", err)
		}
	}
}

// Next returns this marker's length, header included: the offset, relative
// to Offset, at which the next marker's header begins.
func (m *Marker) Next() int64 { return m.ContentOffset + m.Size }

// Contents returns (creating once) the sub-buffer spanning this marker's
// payload.
func (m *Marker) Contents() (*bufedit.Buffer, error) {
	if m.contents != nil {
		return m.contents, nil
	}

	child, err := m.Buffer.NewChild(m.Offset+m.ContentOffset, m.Size)
	if err != nil {
		return nil, fmt.Errorf("jpeg: contents of marker %#02x at %d: %w", m.Type, m.Offset, err)
	}

	m.contents = child

	return child, nil
}
