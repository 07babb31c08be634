package heif

import (
	"fmt"

	"github.com/ma-tf/motionheic/internal/bufedit"
	"github.com/ma-tf/motionheic/internal/isobmff"
	"github.com/ma-tf/motionheic/internal/xmp"
)

// Chunk is one iloc entry projected onto its payload bytes: either a
// sub-buffer of mdat (an owned chunk) or nothing at all (a PointerChunk,
// whose data lives outside mdat and is never resized by this repository).
type Chunk struct {
	ID    uint16
	Index int
	Info  *INFE
	Entry *ILOCEntry
	// Buffer is nil for a PointerChunk.
	Buffer *bufedit.Buffer

	delta                    int64
	originalPositionAbsolute uint32
	size                     int64
	parent                   *Content
}

func newChunk(id uint16, index int, info *INFE, entry *ILOCEntry, buffer *bufedit.Buffer, parent *Content) *Chunk {
	var size int64
	if buffer != nil {
		size = buffer.Size()
	}

	return &Chunk{
		ID:                       id,
		Index:                    index,
		Info:                     info,
		Entry:                    entry,
		Buffer:                   buffer,
		originalPositionAbsolute: entry.ContentStart,
		size:                     size,
		parent:                   parent,
	}
}

// Relocate shifts this chunk's recorded content_start by delta relative to
// its original position, without touching any bytes. Called on every chunk
// after the one that actually resized, in index order.
func (c *Chunk) Relocate(delta int64) error {
	c.delta += delta

	return c.Entry.SetContentStart(uint32(int64(c.originalPositionAbsolute) + c.delta))
}

// Resize records a delta-byte change in this chunk's payload size, rewrites
// its iloc entry's content_size, and notifies the owning mdat so later
// chunks can be relocated and the mdat box header can grow or shrink to
// match.
func (c *Chunk) Resize(delta int64) error {
	c.size += delta

	if err := c.Entry.SetContentSize(uint32(c.size)); err != nil {
		return err
	}

	return c.parent.onChunkResized(c.Index, delta)
}

// XMPChunk is a Chunk whose item declares an application/rdf+xml MIME
// payload: the Motion Photo GCamera metadata lives here.
type XMPChunk struct {
	*Chunk

	doc *xmp.Document
}

func newXMPChunk(chunk *Chunk) *XMPChunk { return &XMPChunk{Chunk: chunk} }

// Parse lazily decodes the chunk's current bytes as an XML document. A
// second call is a no-op: the parsed tree, not the buffer, is the source of
// truth for subsequent mutation and re-serialisation.
func (x *XMPChunk) Parse() error {
	if x.doc != nil {
		return nil
	}

	if err := x.Buffer.Seek(0); err != nil {
		return fmt.Errorf("heif: xmp chunk: %w", err)
	}

	raw, err := x.Buffer.Read(x.Buffer.Size())
	if err != nil {
		return fmt.Errorf("heif: xmp chunk: %w", err)
	}

	doc, err := xmp.Parse(raw)
	if err != nil {
		return fmt.Errorf("heif: xmp chunk: %w", err)
	}

	x.doc = doc

	return nil
}

// Document returns the parsed XMP document, parsing it first if needed.
func (x *XMPChunk) Document() (*xmp.Document, error) {
	if err := x.Parse(); err != nil {
		return nil, err
	}

	return x.doc, nil
}

// Commit reserialises the parsed document and writes it back into the
// chunk's buffer, resizing the chunk (and bubbling that resize up through
// mdat) by however much the serialised form grew or shrank.
func (x *XMPChunk) Commit() error {
	if x.doc == nil {
		return fmt.Errorf("heif: commit xmp chunk 0x%04x before parsing it", x.ID)
	}

	content := x.doc.Serialize()

	if err := x.Buffer.Seek(0); err != nil {
		return fmt.Errorf("heif: commit xmp chunk: %w", err)
	}

	oldSize := x.Buffer.Size()

	if _, err := x.Buffer.Write(oldSize, content); err != nil {
		return fmt.Errorf("heif: commit xmp chunk: %w", err)
	}

	return x.Resize(int64(len(content)) - oldSize)
}

// Content is the mdat box reinterpreted as the container for every item
// payload indexed by iloc.content_start.
type Content struct {
	*isobmff.Box

	chunks  []*Chunk
	byID    map[uint16]*Chunk
	xmpByID map[uint16]*XMPChunk
}

// ParseContent reparses box as mdat. Read must be called afterwards once
// the sibling meta box has been parsed, since chunk construction needs the
// iinf/iloc tables.
func ParseContent(buffer *bufedit.Buffer, offset int64) (*Content, error) {
	want := isobmff.TypeMdat

	box, err := isobmff.ParseBox(buffer, offset, &want)
	if err != nil {
		return nil, err
	}

	return &Content{Box: box, byID: map[uint16]*Chunk{}, xmpByID: map[uint16]*XMPChunk{}}, nil
}

// Read builds the chunk list from meta's iloc table. Calling it again once
// chunks are already populated is a no-op.
func (c *Content) Read(meta *META) error {
	if c.chunks != nil {
		return nil
	}

	contents, err := c.Contents()
	if err != nil {
		return fmt.Errorf("heif: mdat contents: %w", err)
	}

	mdatOffset := contents.AbsoluteOffset()

	index := 0

	for _, entry := range meta.ILOC.Ordered() {
		info, err := meta.IINF.Find(entry.ID)
		if err != nil {
			return fmt.Errorf("heif: mdat chunk for item 0x%04x: %w", entry.ID, err)
		}

		var chunk *Chunk

		if int64(entry.ContentStart) >= mdatOffset {
			sub, err := contents.NewChild(int64(entry.ContentStart)-mdatOffset, int64(entry.ContentSize))
			if err != nil {
				return fmt.Errorf("heif: mdat chunk for item 0x%04x: %w", entry.ID, err)
			}

			base := newChunk(entry.ID, index, info, entry, sub, c)

			if info.IsXMP() {
				xmpChunk := newXMPChunk(base)
				chunk = xmpChunk.Chunk
				c.xmpByID[entry.ID] = xmpChunk
			} else {
				chunk = base
			}
		} else {
			chunk = newChunk(entry.ID, index, info, entry, nil, c)
		}

		c.chunks = append(c.chunks, chunk)
		c.byID[entry.ID] = chunk
		index++
	}

	return nil
}

// Chunks returns every chunk, in iloc content_start order.
func (c *Content) Chunks() []*Chunk { return c.chunks }

// Get returns the chunk for the given item id.
func (c *Content) Get(id uint16) (*Chunk, error) {
	chunk, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%04x", ErrUnknownID, id)
	}

	return chunk, nil
}

// XMP returns the XMPChunk for the given item id, if that item is an XMP
// item; ok is false for a non-XMP or pointer chunk.
func (c *Content) XMP(id uint16) (chunk *XMPChunk, ok bool) {
	chunk, ok = c.xmpByID[id]
	return chunk, ok
}

// onChunkResized bubbles a chunk's size delta to mdat's own box size and
// relocates every later chunk (by index) to account for the shift.
func (c *Content) onChunkResized(index int, delta int64) error {
	if err := c.Resize(delta); err != nil {
		return fmt.Errorf("heif: resize mdat: %w", err)
	}

	for _, chunk := range c.chunks[index+1:] {
		if err := chunk.Relocate(delta); err != nil {
			return fmt.Errorf("heif: relocate chunk 0x%04x: %w", chunk.ID, err)
		}
	}

	return nil
}
