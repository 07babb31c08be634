package qt

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ma-tf/motionheic/internal/bufedit"
)

func newTestBuffer(data []byte) *bufedit.Buffer {
	return bufedit.NewFile(bytes.NewReader(data), int64(len(data)))
}

func u32b(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func u16b(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
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

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
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

func TestParseMVHDAndDurationInUs(t *testing.T) {
	data := fullBox("mvhd", mvhdPayload(600, 3000))

	buf := newTestBuffer(data)

	mvhd, err := ParseMVHD(buf, 0)
	if err != nil {
		t.Fatalf("parse mvhd: %v", err)
	}

	if mvhd.TimeScale != 600 || mvhd.Duration != 3000 {
		t.Fatalf("time_scale/duration = %d/%d, want 600/3000", mvhd.TimeScale, mvhd.Duration)
	}

	if got := mvhd.DurationInUs(); got != 5_000_000 {
		t.Fatalf("DurationInUs() = %d, want 5000000", got)
	}

	if mvhd.NextTrackID != 2 {
		t.Fatalf("NextTrackID = %d, want 2", mvhd.NextTrackID)
	}
}

func TestDurationInUsRoundsToNearest(t *testing.T) {
	// 1_000_000 * 7 / 3 = 2333333.33...
	data := fullBox("mvhd", mvhdPayload(3, 7))
	buf := newTestBuffer(data)

	mvhd, err := ParseMVHD(buf, 0)
	if err != nil {
		t.Fatalf("parse mvhd: %v", err)
	}

	if got := mvhd.DurationInUs(); got != 2_333_333 {
		t.Fatalf("DurationInUs() = %d, want 2333333", got)
	}
}

func hdlrPayload(componentSubtype, name string) []byte {
	var p []byte
	p = append(p, []byte("appl")...)            // component_type
	p = append(p, []byte(componentSubtype)...)  // component_subtype
	p = append(p, []byte("appl")...)            // component_manufacturer
	p = append(p, u32b(0)...)                   // component_flags
	p = append(p, u32b(0)...)                   // component_flags_mask
	p = append(p, []byte(name+"\x00")...)       // component_name

	return p
}

func TestParseMOOVFindsMvhdAndTracks(t *testing.T) {
	mvhd := fullBox("mvhd", mvhdPayload(600, 1200))
	hdlr := fullBox("hdlr", hdlrPayload("vide", "VideoHandler"))
	mdhd := fullBox("mdhd", append(mdhdPayload(600, 1200), u16b(0)...))
	minf := box("minf", box("stbl", nil))
	mdia := box("mdia", concat(mdhd, hdlr, minf))
	tkhd := fullBox("tkhd", tkhdPayload(1))
	trak := box("trak", concat(tkhd, mdia))

	moovData := box("moov", concat(mvhd, trak))

	buf := newTestBuffer(moovData)

	moov, err := ParseMOOV(buf, 0)
	if err != nil {
		t.Fatalf("parse moov: %v", err)
	}

	if moov.MVHD == nil {
		t.Fatal("moov.MVHD is nil")
	}

	if moov.MVHD.TimeScale != 600 {
		t.Fatalf("MVHD.TimeScale = %d, want 600", moov.MVHD.TimeScale)
	}

	if len(moov.Tracks) != 1 {
		t.Fatalf("len(Tracks) = %d, want 1", len(moov.Tracks))
	}

	track := moov.Tracks[0]

	if track.TKHD == nil || track.TKHD.TrackID != 1 {
		t.Fatalf("track.TKHD = %+v, want TrackID 1", track.TKHD)
	}

	if track.MDIA == nil {
		t.Fatal("track.MDIA is nil")
	}

	if track.MDIA.MDHD == nil || track.MDIA.MDHD.TimeScale != 600 {
		t.Fatalf("track.MDIA.MDHD = %+v, want TimeScale 600", track.MDIA.MDHD)
	}

	if track.MDIA.HDLR == nil {
		t.Fatal("track.MDIA.HDLR is nil")
	}

	if track.MDIA.HDLR.ComponentName != "VideoHandler" {
		t.Fatalf("HDLR.ComponentName = %q, want VideoHandler", track.MDIA.HDLR.ComponentName)
	}

	if track.MDIA.MINF == nil || track.MDIA.MINF.STBL == nil {
		t.Fatal("track.MDIA.MINF.STBL is nil")
	}
}

func mdhdPayload(timeScale, duration uint32) []byte {
	var p []byte
	p = append(p, u32b(0)...)
	p = append(p, u32b(0)...)
	p = append(p, u32b(timeScale)...)
	p = append(p, u32b(duration)...)

	return p
}

func tkhdPayload(trackID uint32) []byte {
	var p []byte
	p = append(p, u32b(0)...)       // creation_time
	p = append(p, u32b(0)...)       // modification_time
	p = append(p, u32b(trackID)...) // track_id
	p = append(p, u32b(0)...)       // reserved
	p = append(p, u32b(0)...)       // duration
	p = append(p, make([]byte, 8)...)
	p = append(p, u16b(0)...) // layer
	p = append(p, u16b(0)...) // alternate_group
	p = append(p, u16b(0)...) // volume
	p = append(p, u16b(0)...) // reserved2
	p = append(p, make([]byte, 36)...)
	p = append(p, u32b(0)...) // width
	p = append(p, u32b(0)...) // height

	return p
}
