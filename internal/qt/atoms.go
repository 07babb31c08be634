// Package qt implements the standard QuickTime/MP4 atoms this recipe
// touches: moov, mvhd, trak, mdia, mdhd, hdlr, minf, and stbl. Only mvhd's
// duration_in_us feeds the Motion-Photo assembler directly (for the legacy
// MicroVideo presentation-timestamp variant); the rest are decoded because
// a complete reader for a companion movie file needs to walk its whole
// track tree, not because the assembler consumes their fields.
package qt

import (
	"fmt"
	"math"

	"github.com/ma-tf/motionheic/internal/bufedit"
	"github.com/ma-tf/motionheic/internal/isobmff"
)

// MVHD is the movie header atom: overall timing for the whole movie.
type MVHD struct {
	*isobmff.FullAtom

	CreationTime      uint32
	ModificationTime  uint32
	TimeScale         uint32
	Duration          uint32
	PreferredRate     uint32
	PreferredVolume   uint16
	Reserved          []byte // 10 bytes
	Matrix            []byte // 36 bytes, the 3x3 fixed-point transform
	PreviewTime       uint32
	PreviewDuration   uint32
	PosterTime        uint32
	SelectionTime     uint32
	SelectionDuration uint32
	CurrentTime       uint32
	NextTrackID       uint32
}

// ParseMVHD reparses box's contents as a movie header atom.
func ParseMVHD(buffer *bufedit.Buffer, offset int64) (*MVHD, error) {
	want := isobmff.TypeMvhd

	full, err := isobmff.ParseFullAtom(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	m := &MVHD{FullAtom: full}

	fields := []struct {
		name string
		dst  *uint32
	}{
		{"creation_time", &m.CreationTime},
		{"modification_time", &m.ModificationTime},
		{"time_scale", &m.TimeScale},
		{"duration", &m.Duration},
		{"preferred_rate", &m.PreferredRate},
	}

	for _, f := range fields {
		v, err := buffer.ReadUint32BE()
		if err != nil {
			return nil, fmt.Errorf("qt: mvhd %s: %w", f.name, err)
		}

		*f.dst = v
	}

	if m.PreferredVolume, err = buffer.ReadUint16BE(); err != nil {
		return nil, fmt.Errorf("qt: mvhd preferred_volume: %w", err)
	}

	if m.Reserved, err = buffer.Read(10); err != nil {
		return nil, fmt.Errorf("qt: mvhd reserved: %w", err)
	}

	if m.Matrix, err = buffer.Read(36); err != nil {
		return nil, fmt.Errorf("qt: mvhd matrix: %w", err)
	}

	tail := []struct {
		name string
		dst  *uint32
	}{
		{"preview_time", &m.PreviewTime},
		{"preview_duration", &m.PreviewDuration},
		{"poster_time", &m.PosterTime},
		{"selection_time", &m.SelectionTime},
		{"selection_duration", &m.SelectionDuration},
		{"current_time", &m.CurrentTime},
		{"next_track_id", &m.NextTrackID},
	}

	for _, f := range tail {
		v, err := buffer.ReadUint32BE()
		if err != nil {
			return nil, fmt.Errorf("qt: mvhd %s: %w", f.name, err)
		}

		*f.dst = v
	}

	return m, nil
}

// DurationInUs converts the movie's duration (expressed in TimeScale units
// per second) to microseconds, rounding to the nearest integer.
func (m *MVHD) DurationInUs() int64 {
	if m.TimeScale == 0 {
		return 0
	}

	us := float64(m.Duration) / float64(m.TimeScale) * 1_000_000
	return int64(math.Round(us))
}

// TKHD is a track header atom: per-track timing, geometry, and enablement.
type TKHD struct {
	*isobmff.FullAtom

	CreationTime     uint32
	ModificationTime uint32
	TrackID          uint32
	Reserved         uint32
	Duration         uint32
	Reserved1        []byte // 8 bytes
	Layer            uint16
	AlternateGroup   uint16
	Volume           uint16
	Reserved2        uint16
	Matrix           []byte // 36 bytes
	Width            uint32 // 16.16 fixed point
	Height           uint32 // 16.16 fixed point
}

// ParseTKHD reparses box's contents as a track header atom.
func ParseTKHD(buffer *bufedit.Buffer, offset int64) (*TKHD, error) {
	want := isobmff.TypeTkhd

	full, err := isobmff.ParseFullAtom(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	t := &TKHD{FullAtom: full}

	u32 := func(name string, dst *uint32) error {
		v, err := buffer.ReadUint32BE()
		if err != nil {
			return fmt.Errorf("qt: tkhd %s: %w", name, err)
		}

		*dst = v
		return nil
	}

	if err := u32("creation_time", &t.CreationTime); err != nil {
		return nil, err
	}

	if err := u32("modification_time", &t.ModificationTime); err != nil {
		return nil, err
	}

	if err := u32("track_id", &t.TrackID); err != nil {
		return nil, err
	}

	if err := u32("reserved", &t.Reserved); err != nil {
		return nil, err
	}

	if err := u32("duration", &t.Duration); err != nil {
		return nil, err
	}

	if t.Reserved1, err = buffer.Read(8); err != nil {
		return nil, fmt.Errorf("qt: tkhd reserved1: %w", err)
	}

	u16 := func(name string, dst *uint16) error {
		v, err := buffer.ReadUint16BE()
		if err != nil {
			return fmt.Errorf("qt: tkhd %s: %w", name, err)
		}

		*dst = v
		return nil
	}

	if err := u16("layer", &t.Layer); err != nil {
		return nil, err
	}

	if err := u16("alternate_group", &t.AlternateGroup); err != nil {
		return nil, err
	}

	if err := u16("volume", &t.Volume); err != nil {
		return nil, err
	}

	if err := u16("reserved2", &t.Reserved2); err != nil {
		return nil, err
	}

	if t.Matrix, err = buffer.Read(36); err != nil {
		return nil, fmt.Errorf("qt: tkhd matrix: %w", err)
	}

	if err := u32("width", &t.Width); err != nil {
		return nil, err
	}

	if err := u32("height", &t.Height); err != nil {
		return nil, err
	}

	return t, nil
}

// MDHD is a media header atom: per-media-track timing and language.
type MDHD struct {
	*isobmff.FullAtom

	CreationTime     uint32
	ModificationTime uint32
	TimeScale        uint32
	Duration         uint32
	Language         uint16
	Quality          uint16
}

// ParseMDHD reparses box's contents as a media header atom.
func ParseMDHD(buffer *bufedit.Buffer, offset int64) (*MDHD, error) {
	want := isobmff.TypeMdhd

	full, err := isobmff.ParseFullAtom(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	m := &MDHD{FullAtom: full}

	for _, f := range []struct {
		name string
		dst  *uint32
	}{
		{"creation_time", &m.CreationTime},
		{"modification_time", &m.ModificationTime},
		{"time_scale", &m.TimeScale},
		{"duration", &m.Duration},
	} {
		v, err := buffer.ReadUint32BE()
		if err != nil {
			return nil, fmt.Errorf("qt: mdhd %s: %w", f.name, err)
		}

		*f.dst = v
	}

	if m.Language, err = buffer.ReadUint16BE(); err != nil {
		return nil, fmt.Errorf("qt: mdhd language: %w", err)
	}

	if m.Quality, err = buffer.ReadUint16BE(); err != nil {
		return nil, fmt.Errorf("qt: mdhd quality: %w", err)
	}

	return m, nil
}

// HDLR is a handler-reference atom: declares the kind of data a media or
// metadata track carries.
type HDLR struct {
	*isobmff.FullAtom

	ComponentType         isobmff.BoxType
	ComponentSubtype      isobmff.BoxType
	ComponentManufacturer isobmff.BoxType
	ComponentFlags        uint32
	ComponentFlagsMask    uint32
	ComponentName         string
}

// ParseHDLR reparses box's contents as a handler-reference atom.
func ParseHDLR(buffer *bufedit.Buffer, offset int64) (*HDLR, error) {
	want := isobmff.TypeHdlr

	full, err := isobmff.ParseFullAtom(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	h := &HDLR{FullAtom: full}

	readTag := func(name string, dst *isobmff.BoxType) error {
		raw, err := buffer.Read(4)
		if err != nil {
			return fmt.Errorf("qt: hdlr %s: %w", name, err)
		}

		*dst = isobmff.BoxType{raw[0], raw[1], raw[2], raw[3]}
		return nil
	}

	if err := readTag("component_type", &h.ComponentType); err != nil {
		return nil, err
	}

	if err := readTag("component_subtype", &h.ComponentSubtype); err != nil {
		return nil, err
	}

	if err := readTag("component_manufacturer", &h.ComponentManufacturer); err != nil {
		return nil, err
	}

	if h.ComponentFlags, err = buffer.ReadUint32BE(); err != nil {
		return nil, fmt.Errorf("qt: hdlr component_flags: %w", err)
	}

	if h.ComponentFlagsMask, err = buffer.ReadUint32BE(); err != nil {
		return nil, fmt.Errorf("qt: hdlr component_flags_mask: %w", err)
	}

	if h.ComponentName, err = buffer.ReadCString(); err != nil {
		return nil, fmt.Errorf("qt: hdlr component_name: %w", err)
	}

	return h, nil
}

// STBL is the sample table atom: every child is retained generically since
// nothing downstream of the Motion-Photo recipe inspects sample tables.
type STBL struct {
	*isobmff.Box

	children *isobmff.BoxList
}

// ParseSTBL reparses box's contents as a sample table container.
func ParseSTBL(buffer *bufedit.Buffer, offset int64) (*STBL, error) {
	want := isobmff.TypeStbl

	box, err := isobmff.ParseBox(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	contents, err := box.Contents()
	if err != nil {
		return nil, fmt.Errorf("qt: stbl contents: %w", err)
	}

	list, err := isobmff.ParseBoxList(contents)
	if err != nil {
		return nil, fmt.Errorf("qt: stbl children: %w", err)
	}

	return &STBL{Box: box, children: list}, nil
}

// Children returns every box parsed directly under stbl.
func (s *STBL) Children() []*isobmff.Box { return s.children.All() }

// MINF is the media information atom: wraps (among boxes this recipe does
// not decode further) the sample table.
type MINF struct {
	*isobmff.Box

	STBL     *STBL
	children *isobmff.BoxList
}

// ParseMINF reparses box's contents as a media-information container and
// its stbl child, if present.
func ParseMINF(buffer *bufedit.Buffer, offset int64) (*MINF, error) {
	want := isobmff.TypeMinf

	box, err := isobmff.ParseBox(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	contents, err := box.Contents()
	if err != nil {
		return nil, fmt.Errorf("qt: minf contents: %w", err)
	}

	list, err := isobmff.ParseBoxList(contents)
	if err != nil {
		return nil, fmt.Errorf("qt: minf children: %w", err)
	}

	minf := &MINF{Box: box, children: list}

	if stblBox := list.Find(isobmff.TypeStbl); stblBox != nil {
		stbl, err := ParseSTBL(contents, stblBox.Offset())
		if err != nil {
			return nil, err
		}

		minf.STBL = stbl
	}

	return minf, nil
}

// Children returns every box parsed directly under minf, generic or typed.
func (m *MINF) Children() []*isobmff.Box { return m.children.All() }

// MDIA is the media atom: wraps a media header, a handler reference, and
// media information for one track.
type MDIA struct {
	*isobmff.Box

	MDHD     *MDHD
	HDLR     *HDLR
	MINF     *MINF
	children *isobmff.BoxList
}

// ParseMDIA reparses box's contents as a media container and its mdhd/
// hdlr/minf children.
func ParseMDIA(buffer *bufedit.Buffer, offset int64) (*MDIA, error) {
	want := isobmff.TypeMdia

	box, err := isobmff.ParseBox(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	contents, err := box.Contents()
	if err != nil {
		return nil, fmt.Errorf("qt: mdia contents: %w", err)
	}

	list, err := isobmff.ParseBoxList(contents)
	if err != nil {
		return nil, fmt.Errorf("qt: mdia children: %w", err)
	}

	mdia := &MDIA{Box: box, children: list}

	for _, b := range list.All() {
		switch b.Type() {
		case isobmff.TypeMdhd:
			mdhd, err := ParseMDHD(contents, b.Offset())
			if err != nil {
				return nil, err
			}

			mdia.MDHD = mdhd
		case isobmff.TypeHdlr:
			hdlr, err := ParseHDLR(contents, b.Offset())
			if err != nil {
				return nil, err
			}

			mdia.HDLR = hdlr
		case isobmff.TypeMinf:
			minf, err := ParseMINF(contents, b.Offset())
			if err != nil {
				return nil, err
			}

			mdia.MINF = minf
		}
	}

	return mdia, nil
}

// Children returns every box parsed directly under mdia, generic or typed.
func (m *MDIA) Children() []*isobmff.Box { return m.children.All() }

// TRAK is a track atom: wraps a track header and its media.
type TRAK struct {
	*isobmff.Box

	TKHD     *TKHD
	MDIA     *MDIA
	children *isobmff.BoxList
}

// ParseTRAK reparses box's contents as a track container and its tkhd/
// mdia children.
func ParseTRAK(buffer *bufedit.Buffer, offset int64) (*TRAK, error) {
	want := isobmff.TypeTrak

	box, err := isobmff.ParseBox(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	contents, err := box.Contents()
	if err != nil {
		return nil, fmt.Errorf("qt: trak contents: %w", err)
	}

	list, err := isobmff.ParseBoxList(contents)
	if err != nil {
		return nil, fmt.Errorf("qt: trak children: %w", err)
	}

	trak := &TRAK{Box: box, children: list}

	for _, b := range list.All() {
		switch b.Type() {
		case isobmff.TypeTkhd:
			tkhd, err := ParseTKHD(contents, b.Offset())
			if err != nil {
				return nil, err
			}

			trak.TKHD = tkhd
		case isobmff.TypeMdia:
			mdia, err := ParseMDIA(contents, b.Offset())
			if err != nil {
				return nil, err
			}

			trak.MDIA = mdia
		}
	}

	return trak, nil
}

// Children returns every box parsed directly under trak, generic or typed.
func (t *TRAK) Children() []*isobmff.Box { return t.children.All() }

// MOOV is the movie atom: the root of a QuickTime/MP4 movie's metadata
// tree. Its mvhd child and every trak child are reparsed when the atom is
// parsed (into MVHD and Tracks); all children stay available generically via
// Children.
type MOOV struct {
	*isobmff.Box

	MVHD     *MVHD
	Tracks   []*TRAK
	children *isobmff.BoxList
}

// ParseMOOV reparses box's contents as a movie container, its mvhd child,
// and every trak child.
func ParseMOOV(buffer *bufedit.Buffer, offset int64) (*MOOV, error) {
	want := isobmff.TypeMoov

	box, err := isobmff.ParseBox(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	contents, err := box.Contents()
	if err != nil {
		return nil, fmt.Errorf("qt: moov contents: %w", err)
	}

	list, err := isobmff.ParseBoxList(contents)
	if err != nil {
		return nil, fmt.Errorf("qt: moov children: %w", err)
	}

	moov := &MOOV{Box: box, children: list}

	for _, b := range list.All() {
		switch b.Type() {
		case isobmff.TypeMvhd:
			mvhd, err := ParseMVHD(contents, b.Offset())
			if err != nil {
				return nil, err
			}

			moov.MVHD = mvhd
		case isobmff.TypeTrak:
			trak, err := ParseTRAK(contents, b.Offset())
			if err != nil {
				return nil, err
			}

			moov.Tracks = append(moov.Tracks, trak)
		}
	}

	return moov, nil
}

// Children returns every box parsed directly under moov, generic or typed.
func (m *MOOV) Children() []*isobmff.Box { return m.children.All() }
