package heif

import (
	"bytes"
	"encoding/binary"
)

// Byte-fixture builders for a minimal, synthetic HEIF file: one ftyp, one
// meta (iinf with an XMP item and a non-XMP item, iloc locating both), and
// one mdat holding their concatenated payloads. Used by every _test.go in
// this package so each test only has to describe what differs.

func u16b(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func u32b(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func box(boxType string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Write(u32b(uint32(8 + len(payload))))
	buf.WriteString(boxType)
	buf.Write(payload)
	return buf.Bytes()
}

func fullBox(boxType string, payload []byte) []byte {
	full := append([]byte{0, 0, 0, 0}, payload...)
	return box(boxType, full)
}

func infeEntry(id uint16, inf, mime string) []byte {
	payload := append(u16b(id), u16b(0)...)
	payload = append(payload, []byte(inf+"\x00")...)

	if inf == "mime" {
		payload = append(payload, []byte(mime+"\x00")...)
	}

	return fullBox("infe", payload)
}

func iinfBox(entries ...[]byte) []byte {
	payload := u16b(uint16(len(entries)))
	for _, e := range entries {
		payload = append(payload, e...)
	}

	return fullBox("iinf", payload)
}

func ilocEntry(id uint16, contentStart, contentSize uint32) []byte {
	out := append([]byte(nil), u16b(id)...)
	out = append(out, u16b(0)...)   // reserved
	out = append(out, u32b(0)...)   // reserved1
	out = append(out, u32b(contentStart)...)
	out = append(out, u32b(contentSize)...)

	return out
}

func ilocBox(entries ...[]byte) []byte {
	payload := append(u16b(0), u16b(uint16(len(entries)))...) // reserved, count
	for _, e := range entries {
		payload = append(payload, e...)
	}

	return fullBox("iloc", payload)
}

func metaBox(children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
	}

	return fullBox("meta", payload)
}

// heifFixture is a synthetic but structurally real HEIF file with two
// items: id 1 ("mime"/"application/rdf+xml", the XMP item) and id 2
// ("hvc1", an opaque non-XMP item). It returns the full file bytes and the
// two items' payloads for assertions.
func heifFixture() (data []byte, xmpPayload, otherPayload []byte) {
	ftyp := box("ftyp", []byte("isom"))

	infe1 := infeEntry(1, "mime", "application/rdf+xml")
	infe2 := infeEntry(2, "hvc1", "")
	iinf := iinfBox(infe1, infe2)

	xmpPayload = []byte("<a><b/></a>")
	otherPayload = []byte("opaquebytes")

	offsetMeta := int64(len(ftyp))

	// Build iloc/meta twice: once to measure meta's total length (the
	// content_start field's value never changes iloc's byte width), then
	// again with the real absolute content_start values once the mdat
	// offset is known.
	placeholderIloc := ilocBox(ilocEntry(1, 0, uint32(len(xmpPayload))), ilocEntry(2, 0, uint32(len(otherPayload))))
	placeholderMeta := metaBox(iinf, placeholderIloc)

	offsetMdat := offsetMeta + int64(len(placeholderMeta))
	mdatContentStart := offsetMdat + 8

	contentStart1 := uint32(mdatContentStart)
	contentStart2 := uint32(mdatContentStart) + uint32(len(xmpPayload))

	iloc := ilocBox(
		ilocEntry(1, contentStart1, uint32(len(xmpPayload))),
		ilocEntry(2, contentStart2, uint32(len(otherPayload))),
	)
	meta := metaBox(iinf, iloc)

	if len(meta) != len(placeholderMeta) {
		panic("heifFixture: patched meta changed length")
	}

	mdat := box("mdat", append(append([]byte(nil), xmpPayload...), otherPayload...))

	data = append(data, ftyp...)
	data = append(data, meta...)
	data = append(data, mdat...)

	return data, xmpPayload, otherPayload
}
