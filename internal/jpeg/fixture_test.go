package jpeg

import "encoding/binary"

func u16b(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// lengthPrefixedMarker builds a marker segment whose length field (which,
// per JPEG convention, counts itself) equals 2+len(payload).
func lengthPrefixedMarker(typ byte, payload []byte) []byte {
	out := []byte{0xff, typ}
	out = append(out, u16b(uint16(2+len(payload)))...)
	out = append(out, payload...)

	return out
}

func soi() []byte { return []byte{0xff, TypeSOI} }

// sosMarker builds an SOS segment: its own length-prefixed header, followed
// by scanData, followed by the terminating 0xff 0xd9 EOI pair (unless
// omitEOI is set, for the file-ends-mid-scan boundary case).
func sosMarker(header, scanData []byte, omitEOI bool) []byte {
	out := []byte{0xff, TypeSOS}
	out = append(out, u16b(uint16(2+len(header)))...)
	out = append(out, header...)
	out = append(out, scanData...)

	if !omitEOI {
		out = append(out, 0xff, TypeEOI)
	}

	return out
}
