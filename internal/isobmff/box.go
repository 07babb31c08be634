package isobmff

import (
	"fmt"

	"github.com/ma-tf/motionheic/internal/bufedit"
)

// SizeType records which of the three ISOBMFF header shapes a box used, so
// Resize knows whether to rewrite a 4-byte or 8-byte size field, or to
// leave the header alone entirely.
type SizeType int

const (
	// SizeNormal is the common case: a plain 4-byte size field.
	SizeNormal SizeType = iota
	// SizeLong means the 4-byte field was 1, so an 8-byte extended size
	// follows immediately after the type tag.
	SizeLong
	// SizeLast means the 4-byte field was 0: the box runs to the end of
	// its parent and its header is never rewritten.
	SizeLast
)

// Box is a parsed ISOBMFF header plus enough state to produce a content
// sub-buffer and rewrite its own size in place. It plays the role the
// redesign notes call the "Generic" variant: every typed box in
// internal/heif and internal/qt is built by reparsing a Box's content
// buffer, not by subclassing it.
type Box struct {
	buffer        *bufedit.Buffer
	offset        int64
	size          int64
	boxType       BoxType
	sizeType      SizeType
	contentOffset int64
	delta         int64
	onResize      func(delta int64)
	contents      *bufedit.Buffer
}

// ParseBox reads a box header at offset in buffer. If want is non-nil, the
// on-disk type must match it or ErrInvalidType is returned.
func ParseBox(buffer *bufedit.Buffer, offset int64, want *BoxType) (*Box, error) {
	if err := buffer.Seek(offset); err != nil {
		return nil, fmt.Errorf("isobmff: seek to box header at %d: %w", offset, err)
	}

	size32, err := buffer.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("%w: read size at %d: %w", ErrMalformed, offset, err)
	}

	typeBytes, err := buffer.Read(4)
	if err != nil {
		return nil, fmt.Errorf("%w: read type at %d: %w", ErrMalformed, offset+4, err)
	}

	boxType := BoxType{typeBytes[0], typeBytes[1], typeBytes[2], typeBytes[3]}

	if want != nil && *want != boxType {
		return nil, fmt.Errorf("%w: expected %q, got %q at %d", ErrInvalidType, want, boxType, offset)
	}

	b := &Box{
		buffer:        buffer,
		offset:        offset,
		boxType:       boxType,
		size:          int64(size32),
		sizeType:      SizeNormal,
		contentOffset: 8,
	}

	switch size32 {
	case 1:
		size64, err := buffer.ReadUint64BE()
		if err != nil {
			return nil, fmt.Errorf("%w: read extended size at %d: %w", ErrMalformed, offset+8, err)
		}

		b.size = int64(size64)
		b.contentOffset = 16
		b.sizeType = SizeLong
	case 0:
		b.size = buffer.Size() - offset
		b.sizeType = SizeLast
	}

	return b, nil
}

// Type returns the box's 4-byte tag.
func (b *Box) Type() BoxType { return b.boxType }

// Offset returns the box header's offset within its buffer.
func (b *Box) Offset() int64 { return b.offset }

// Size returns the box's current total size (header + payload): its
// as-parsed size plus the net of every Resize call so far.
func (b *Box) Size() int64 { return b.size + b.delta }

// ContentOffset returns the number of header bytes preceding the payload.
func (b *Box) ContentOffset() int64 { return b.contentOffset }

// NextOffset returns the offset immediately following this box, i.e. where
// a box list should look for the next header.
func (b *Box) NextOffset() int64 { return b.offset + b.size }

// SetOnResize installs the callback invoked whenever Resize is called on
// this box or on anything built from its Contents(). Used to bubble a
// content-chunk resize up to an owning mdat and beyond.
func (b *Box) SetOnResize(fn func(delta int64)) { b.onResize = fn }

// Contents returns (creating once) the sub-buffer spanning this box's
// payload, from its original parsed size. Growth of something nested
// inside it is still reflected correctly by the live bufedit.Buffer.Size
// of that sub-buffer; only this accessor's memoised instance needs to be
// reused everywhere so that a later resize call finds the same buffer.
func (b *Box) Contents() (*bufedit.Buffer, error) {
	if b.contents != nil {
		return b.contents, nil
	}

	child, err := b.buffer.NewChild(b.offset+b.contentOffset, b.size-b.contentOffset)
	if err != nil {
		return nil, fmt.Errorf("isobmff: contents of %q at %d: %w", b.boxType, b.offset, err)
	}

	b.contents = child

	return child, nil
}

// Resize records a change of delta bytes in this box's payload, rewrites
// the on-disk size header to match, and bubbles delta to the parent chain
// via the callback installed by SetOnResize. A "last" box is never
// rewritten: it already runs to the end of its parent and grows or shrinks
// implicitly as its parent does.
func (b *Box) Resize(delta int64) error {
	b.delta += delta

	if b.onResize != nil {
		b.onResize(delta)
	}

	newSize := uint64(b.size + b.delta)

	switch b.sizeType {
	case SizeLong:
		if err := b.buffer.Seek(b.offset + 8); err != nil {
			return fmt.Errorf("isobmff: resize %q: %w", b.boxType, err)
		}

		if _, err := b.buffer.WriteUint64BE(newSize); err != nil {
			return fmt.Errorf("isobmff: resize %q: %w", b.boxType, err)
		}
	case SizeNormal:
		if err := b.buffer.Seek(b.offset); err != nil {
			return fmt.Errorf("isobmff: resize %q: %w", b.boxType, err)
		}

		if _, err := b.buffer.WriteUint32BE(uint32(newSize)); err != nil {
			return fmt.Errorf("isobmff: resize %q: %w", b.boxType, err)
		}
	case SizeLast:
		// grows implicitly with its parent; no header to rewrite.
	}

	return nil
}

// FullAtom is a Box whose payload begins with a 1-byte version and a
// 3-byte flags field, the shape ISOBMFF calls a "full box".
type FullAtom struct {
	*Box

	Version uint8
	Flags   uint32
}

// ParseFullAtom reads a box header followed immediately by the
// version/flags pair, advancing ContentOffset by 4.
func ParseFullAtom(buffer *bufedit.Buffer, offset int64, want *BoxType) (*FullAtom, error) {
	box, err := ParseBox(buffer, offset, want)
	if err != nil {
		return nil, err
	}

	version, err := buffer.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: read version of %q: %w", ErrMalformed, box.boxType, err)
	}

	flags, err := buffer.ReadUint24BE()
	if err != nil {
		return nil, fmt.Errorf("%w: read flags of %q: %w", ErrMalformed, box.boxType, err)
	}

	box.contentOffset += 4

	return &FullAtom{Box: box, Version: version, Flags: flags}, nil
}
