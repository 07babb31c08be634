// Package heif implements the HEIF item-info / item-location typed boxes
// (meta, iinf, infe, iloc) and the content chunk layer that maps each iloc
// entry onto a sub-buffer of mdat.
package heif

import (
	"errors"
	"fmt"

	"github.com/ma-tf/motionheic/internal/bufedit"
	"github.com/ma-tf/motionheic/internal/isobmff"
)

// ErrEntryCountMismatch is returned when a box's declared entry count does
// not match the number of entries actually parsed from its payload.
var ErrEntryCountMismatch = errors.New("heif: entry count mismatch")

// ErrUnknownID is returned by INFE/ILOC lookups for an id with no entry.
var ErrUnknownID = errors.New("heif: unknown item id")

// INFE is one item-info entry: an id, a 4-character kind tag ("inf"), and,
// when that tag is "mime", the item's MIME type.
type INFE struct {
	*isobmff.FullAtom

	ID       uint16
	Reserved uint16
	Inf      string
	Mime     string // empty unless Inf == "mime"
}

// ParseINFE reparses box's contents as an INFE entry.
func ParseINFE(buffer *bufedit.Buffer, offset int64) (*INFE, error) {
	want := isobmff.TypeInfe

	full, err := isobmff.ParseFullAtom(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	id, err := buffer.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("heif: infe id: %w", err)
	}

	reserved, err := buffer.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("heif: infe reserved: %w", err)
	}

	inf, err := buffer.ReadCString()
	if err != nil {
		return nil, fmt.Errorf("heif: infe inf: %w", err)
	}

	entry := &INFE{FullAtom: full, ID: id, Reserved: reserved, Inf: inf}

	if inf == "mime" {
		mime, err := buffer.ReadCString()
		if err != nil {
			return nil, fmt.Errorf("heif: infe mime: %w", err)
		}

		entry.Mime = mime
	}

	return entry, nil
}

// IsXMP reports whether this item declares an application/rdf+xml MIME
// payload, the marker used to classify a chunk as carrying XMP metadata.
func (e *INFE) IsXMP() bool {
	return e.Inf == "mime" && e.Mime == "application/rdf+xml"
}

// IINF is the item-info container: a count followed by that many infe
// boxes.
type IINF struct {
	*isobmff.FullAtom

	Count   uint16
	entries []*INFE
	byID    map[uint16]*INFE
}

// ParseIINF reparses box's contents as an IINF container and all of its
// infe children.
func ParseIINF(buffer *bufedit.Buffer, offset int64) (*IINF, error) {
	want := isobmff.TypeIinf

	full, err := isobmff.ParseFullAtom(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	count, err := buffer.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("heif: iinf count: %w", err)
	}

	iinf := &IINF{FullAtom: full, Count: count, byID: map[uint16]*INFE{}}

	contents, err := full.Contents()
	if err != nil {
		return nil, fmt.Errorf("heif: iinf contents: %w", err)
	}

	// iinf's content_offset is never advanced past the count field, so the
	// first infe entry is located by skipping 2 bytes into the contents
	// buffer rather than by bumping ContentOffset (which only matters for
	// Resize, and iinf is never resized in this recipe).
	if err := contents.Seek(2); err != nil {
		return nil, fmt.Errorf("heif: iinf skip count: %w", err)
	}

	var offsetInContents int64 = 2

	for i := 0; i < int(count); i++ {
		entry, err := ParseINFE(contents, offsetInContents)
		if err != nil {
			return nil, err
		}

		iinf.entries = append(iinf.entries, entry)
		iinf.byID[entry.ID] = entry
		offsetInContents = entry.NextOffset()
	}

	if len(iinf.entries) != int(count) {
		return nil, fmt.Errorf("%w: iinf declared %d, parsed %d", ErrEntryCountMismatch, count, len(iinf.entries))
	}

	return iinf, nil
}

// Entries returns every infe entry, in on-disk order.
func (i *IINF) Entries() []*INFE { return i.entries }

// FirstIDOfKind returns the id of the first infe entry whose Inf field
// equals kind, or ok=false if none matches.
func (i *IINF) FirstIDOfKind(kind string) (id uint16, ok bool) {
	for _, e := range i.entries {
		if e.Inf == kind {
			return e.ID, true
		}
	}

	return 0, false
}

// IDsOfKind returns the ids of every infe entry whose Inf field equals
// kind, in on-disk order.
func (i *IINF) IDsOfKind(kind string) []uint16 {
	var ids []uint16

	for _, e := range i.entries {
		if e.Inf == kind {
			ids = append(ids, e.ID)
		}
	}

	return ids
}

// Find returns the infe entry with the given id.
func (i *IINF) Find(id uint16) (*INFE, error) {
	entry, ok := i.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%04x", ErrUnknownID, id)
	}

	return entry, nil
}

// ilocEntrySize is the fixed on-disk width of one ILOCEntry.
const ilocEntrySize = 16

const (
	ilocOffsetContentStart = 8
	ilocOffsetContentSize  = 12
)

// ILOCEntry is one fixed-width item-location record. It remembers its own
// byte offset in the iloc buffer so SetContentStart/SetContentSize can
// rewrite fields in place without reparsing the whole box.
type ILOCEntry struct {
	buffer *bufedit.Buffer
	offset int64

	ID           uint16
	Reserved     uint16
	Reserved1    uint32
	ContentStart uint32
	ContentSize  uint32
}

func parseILOCEntry(buffer *bufedit.Buffer) (*ILOCEntry, error) {
	offset := buffer.Tell()

	id, err := buffer.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("heif: iloc entry id: %w", err)
	}

	reserved, err := buffer.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("heif: iloc entry reserved: %w", err)
	}

	reserved1, err := buffer.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("heif: iloc entry reserved1: %w", err)
	}

	contentStart, err := buffer.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("heif: iloc entry content_start: %w", err)
	}

	contentSize, err := buffer.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("heif: iloc entry content_size: %w", err)
	}

	return &ILOCEntry{
		buffer:       buffer,
		offset:       offset,
		ID:           id,
		Reserved:     reserved,
		Reserved1:    reserved1,
		ContentStart: contentStart,
		ContentSize:  contentSize,
	}, nil
}

// SetContentStart rewrites this entry's content_start field in place.
func (e *ILOCEntry) SetContentStart(n uint32) error {
	if err := e.buffer.Seek(e.offset + ilocOffsetContentStart); err != nil {
		return fmt.Errorf("heif: set content_start: %w", err)
	}

	if _, err := e.buffer.WriteUint32BE(n); err != nil {
		return fmt.Errorf("heif: set content_start: %w", err)
	}

	e.ContentStart = n

	return nil
}

// SetContentSize rewrites this entry's content_size field in place.
func (e *ILOCEntry) SetContentSize(n uint32) error {
	if err := e.buffer.Seek(e.offset + ilocOffsetContentSize); err != nil {
		return fmt.Errorf("heif: set content_size: %w", err)
	}

	if _, err := e.buffer.WriteUint32BE(n); err != nil {
		return fmt.Errorf("heif: set content_size: %w", err)
	}

	e.ContentSize = n

	return nil
}

// ILOC is the item-location container: a reserved word, a count, and that
// many fixed-width entries.
type ILOC struct {
	*isobmff.FullAtom

	Reserved uint16
	Count    uint16
	entries  []*ILOCEntry
	byID     map[uint16]*ILOCEntry
}

// ParseILOC reparses box's contents as an ILOC container and all of its
// entries.
func ParseILOC(buffer *bufedit.Buffer, offset int64) (*ILOC, error) {
	want := isobmff.TypeIloc

	full, err := isobmff.ParseFullAtom(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	reserved, err := buffer.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("heif: iloc reserved: %w", err)
	}

	count, err := buffer.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("heif: iloc count: %w", err)
	}

	iloc := &ILOC{FullAtom: full, Reserved: reserved, Count: count, byID: map[uint16]*ILOCEntry{}}

	contents, err := full.Contents()
	if err != nil {
		return nil, fmt.Errorf("heif: iloc contents: %w", err)
	}

	if err := contents.Seek(4); err != nil {
		return nil, fmt.Errorf("heif: iloc skip header: %w", err)
	}

	for i := 0; i < int(count); i++ {
		entry, err := parseILOCEntry(contents)
		if err != nil {
			return nil, err
		}

		iloc.entries = append(iloc.entries, entry)
		iloc.byID[entry.ID] = entry
	}

	if len(iloc.entries) != int(count) {
		return nil, fmt.Errorf("%w: iloc declared %d, parsed %d", ErrEntryCountMismatch, count, len(iloc.entries))
	}

	return iloc, nil
}

// Ordered returns every entry sorted by ascending content_start, the order
// content-chunk construction and in-order shifting rely on.
func (l *ILOC) Ordered() []*ILOCEntry {
	out := append([]*ILOCEntry(nil), l.entries...)
	sortEntriesByContentStart(out, false)

	return out
}

// Reversed returns every entry sorted by descending content_start, for
// callers that must shift entries back-to-front to avoid clobbering a
// not-yet-moved entry.
func (l *ILOC) Reversed() []*ILOCEntry {
	out := append([]*ILOCEntry(nil), l.entries...)
	sortEntriesByContentStart(out, true)

	return out
}

func sortEntriesByContentStart(entries []*ILOCEntry, descending bool) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0; j-- {
			less := entries[j].ContentStart < entries[j-1].ContentStart
			if descending {
				less = entries[j].ContentStart > entries[j-1].ContentStart
			}

			if !less {
				break
			}

			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

// Get returns the entry with the given id.
func (l *ILOC) Get(id uint16) (*ILOCEntry, error) {
	entry, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%04x", ErrUnknownID, id)
	}

	return entry, nil
}

// META is the top-level metadata container: exactly one iinf and one iloc
// among its children, plus whatever other boxes are present, retained
// generically.
type META struct {
	*isobmff.FullAtom

	IINF     *IINF
	ILOC     *ILOC
	children *isobmff.BoxList
}

// ParseMETA reparses box's contents as a META container and its iinf/iloc
// children.
func ParseMETA(buffer *bufedit.Buffer, offset int64) (*META, error) {
	want := isobmff.TypeMeta

	full, err := isobmff.ParseFullAtom(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	contents, err := full.Contents()
	if err != nil {
		return nil, fmt.Errorf("heif: meta contents: %w", err)
	}

	list, err := isobmff.ParseBoxList(contents)
	if err != nil {
		return nil, fmt.Errorf("heif: meta children: %w", err)
	}

	meta := &META{FullAtom: full, children: list}

	for _, box := range list.All() {
		switch box.Type() {
		case isobmff.TypeIinf:
			iinf, err := ParseIINF(contents, box.Offset())
			if err != nil {
				return nil, err
			}

			meta.IINF = iinf
		case isobmff.TypeIloc:
			iloc, err := ParseILOC(contents, box.Offset())
			if err != nil {
				return nil, err
			}

			meta.ILOC = iloc
		}
	}

	return meta, nil
}

// Children returns every box parsed directly under meta, generic or typed.
func (m *META) Children() []*isobmff.Box { return m.children.All() }
