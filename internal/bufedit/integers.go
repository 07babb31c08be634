package bufedit

import "fmt"

// ReadUint8 reads a single unsigned byte at the cursor.
func (b *Buffer) ReadUint8() (uint8, error) {
	raw, err := b.Read(1)
	if err != nil {
		return 0, err
	}

	return raw[0], nil
}

// ReadUint16BE reads a big-endian uint16 at the cursor.
func (b *Buffer) ReadUint16BE() (uint16, error) {
	v, err := b.readUintBE(2)
	return uint16(v), err
}

// ReadUint24BE reads a big-endian 3-byte unsigned integer, the width used
// by ISOBMFF full-box flags fields.
func (b *Buffer) ReadUint24BE() (uint32, error) {
	v, err := b.readUintBE(3)
	return uint32(v), err
}

// ReadUint32BE reads a big-endian uint32 at the cursor.
func (b *Buffer) ReadUint32BE() (uint32, error) {
	v, err := b.readUintBE(4)
	return uint32(v), err
}

// ReadUint64BE reads a big-endian uint64 at the cursor.
func (b *Buffer) ReadUint64BE() (uint64, error) {
	return b.readUintBE(8)
}

func (b *Buffer) readUintBE(n int64) (uint64, error) {
	raw, err := b.Read(n)
	if err != nil {
		return 0, err
	}

	var v uint64
	for _, c := range raw {
		v = v<<8 | uint64(c)
	}

	return v, nil
}

// WriteUint8BE overwrites the byte at the cursor with v.
func (b *Buffer) WriteUint8BE(v uint8) (int64, error) {
	return b.Write(1, []byte{v})
}

// WriteUint16BE overwrites the 2 bytes at the cursor with v, big-endian.
func (b *Buffer) WriteUint16BE(v uint16) (int64, error) {
	return b.Write(2, encodeUintBE(uint64(v), 2))
}

// WriteUint24BE overwrites the 3 bytes at the cursor with v, big-endian.
func (b *Buffer) WriteUint24BE(v uint32) (int64, error) {
	return b.Write(3, encodeUintBE(uint64(v), 3))
}

// WriteUint32BE overwrites the 4 bytes at the cursor with v, big-endian.
func (b *Buffer) WriteUint32BE(v uint32) (int64, error) {
	return b.Write(4, encodeUintBE(uint64(v), 4))
}

// WriteUint64BE overwrites the 8 bytes at the cursor with v, big-endian.
func (b *Buffer) WriteUint64BE(v uint64) (int64, error) {
	return b.Write(8, encodeUintBE(v, 8))
}

func encodeUintBE(v uint64, width int) []byte {
	out := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}

	return out
}

// String implements fmt.Stringer for debug output of span-relative
// addresses.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer{abs=%#x size=%#x}", b.AbsoluteOffset(), b.Size())
}
