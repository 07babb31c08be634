package motionphoto

import (
	"bytes"
	"encoding/binary"
)

// Byte-fixture builders for a synthetic HEIF image (one ftyp, one meta with
// an XMP item and an opaque item, one mdat) and a synthetic QuickTime movie
// (one ftyp, one moov/mvhd). Mirrors the pattern internal/heif's own fixture
// uses, duplicated here rather than exported from that package since it's
// purely test scaffolding.

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
	out = append(out, u16b(0)...) // reserved
	out = append(out, u32b(0)...) // reserved1
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

const imageXMPPayload = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>` +
	`<x:xmpmeta xmlns:x="adobe:ns:meta/">` +
	`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
	`<rdf:Description rdf:about="" xmlns:tiff="http://ns.adobe.com/tiff/1.0/">` +
	`<tiff:Make>ExampleCam</tiff:Make>` +
	`</rdf:Description>` +
	`</rdf:RDF>` +
	`</x:xmpmeta>` +
	`<?xpacket end="w"?>`

// heifFixture builds a synthetic HEIF file with one XMP item (id 1,
// carrying imageXMPPayload) and one opaque item (id 2).
func heifFixture() []byte {
	ftyp := box("ftyp", []byte("heic"))

	infe1 := infeEntry(1, "mime", "application/rdf+xml")
	infe2 := infeEntry(2, "hvc1", "")
	iinf := iinfBox(infe1, infe2)

	xmpPayload := []byte(imageXMPPayload)
	otherPayload := []byte("opaquebytes")

	offsetMeta := int64(len(ftyp))

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

	var data []byte
	data = append(data, ftyp...)
	data = append(data, meta...)
	data = append(data, mdat...)

	return data
}

func mvhdPayload(timeScale, duration uint32) []byte {
	var p []byte
	p = append(p, u32b(0)...)          // creation_time
	p = append(p, u32b(0)...)          // modification_time
	p = append(p, u32b(timeScale)...)  // time_scale
	p = append(p, u32b(duration)...)   // duration
	p = append(p, u32b(0x00010000)...) // preferred_rate
	p = append(p, u16b(0x0100)...)     // preferred_volume
	p = append(p, make([]byte, 10)...) // reserved
	p = append(p, make([]byte, 36)...) // matrix
	p = append(p, u32b(0)...)          // preview_time
	p = append(p, u32b(0)...)          // preview_duration
	p = append(p, u32b(0)...)          // poster_time
	p = append(p, u32b(0)...)          // selection_time
	p = append(p, u32b(0)...)          // selection_duration
	p = append(p, u32b(0)...)          // current_time
	p = append(p, u32b(2)...)          // next_track_id

	return p
}

// movieFixture builds a synthetic movie file with a 3-second (at a
// 600 time_scale, duration 1800) mvhd and a trailing "free" filler box
// standing in for the actual media data.
func movieFixture() []byte {
	ftyp := box("ftyp", []byte("qt  "))
	mvhd := fullBox("mvhd", mvhdPayload(600, 1800))
	moov := box("moov", mvhd)
	free := box("free", []byte("moviebytes"))

	var data []byte
	data = append(data, ftyp...)
	data = append(data, moov...)
	data = append(data, free...)

	return data
}
