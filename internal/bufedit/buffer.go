package bufedit

import (
	"fmt"
	"io"
)

type spanKind int

const (
	spanOriginal spanKind = iota
	spanInline
	spanChild
)

// span is one entry in a Buffer's edit log. Original spans reference a byte
// range of the backing file at the coordinates the buffer was constructed
// with; they are never invalidated by edits elsewhere in the buffer because
// reads always go straight to the file. Inline spans own their bytes
// outright. Child spans delegate both size and commit to another Buffer,
// which is how nested boxes and content chunks compose.
type span struct {
	kind   spanKind
	start  int64 // spanOriginal only
	length int64 // spanOriginal only
	data   []byte
	child  *Buffer
}

func (s span) size() int64 {
	switch s.kind {
	case spanInline:
		return int64(len(s.data))
	case spanChild:
		return s.child.Size()
	default:
		return s.length
	}
}

// Buffer is a bounded, edit-tracking window over a parent. The root of a
// buffer tree wraps an io.ReaderAt (typically an *os.File); every other
// buffer's parent is another Buffer, and its offset is expressed in the
// parent's original coordinate space.
//
// Edits never touch the backing file. Write and NewChild only rewrite
// the span list; Commit is what turns the span list back into bytes.
type Buffer struct {
	parent *Buffer
	file   io.ReaderAt
	offset int64
	ptr    int64
	spans  []span
}

// NewFile creates the root buffer of a tree, backed directly by file, which
// is assumed to hold exactly size bytes starting at offset 0.
func NewFile(file io.ReaderAt, size int64) *Buffer {
	return &Buffer{
		file:  file,
		spans: []span{{kind: spanOriginal, start: 0, length: size}},
	}
}

// Size reports the buffer's current logical length: the sum of its spans.
// Because Child spans delegate to Size() on the child, this is always
// correct even after a descendant has grown or shrunk, with no separate
// bookkeeping required.
func (b *Buffer) Size() int64 {
	var total int64
	for i := range b.spans {
		total += b.spans[i].size()
	}
	return total
}

// Tell returns the current read/write cursor.
func (b *Buffer) Tell() int64 { return b.ptr }

// Seek repositions the cursor. Seeking to Size() (one past the last valid
// byte) is allowed, so that Write can append at the end of the buffer.
func (b *Buffer) Seek(offset int64) error {
	if offset < 0 || offset > b.Size() {
		return fmt.Errorf("%w: seek to %d, size %d", ErrBufferShort, offset, b.Size())
	}

	b.ptr = offset

	return nil
}

// AbsoluteOffset returns this buffer's offset relative to the root file.
func (b *Buffer) AbsoluteOffset() int64 {
	if b.parent == nil {
		return b.offset
	}

	return b.offset + b.parent.AbsoluteOffset()
}

func (b *Buffer) root() *Buffer {
	cur := b
	for cur.parent != nil {
		cur = cur.parent
	}

	return cur
}

// Read reads n bytes at the cursor and advances it. The bytes reflect the
// buffer's current logical content: untouched regions come from the
// backing file, rewritten regions come from the span that now covers them,
// and reads into a Child span recurse into the child's own spans.
func (b *Buffer) Read(n int64) ([]byte, error) {
	if n < 0 || b.ptr+n > b.Size() {
		return nil, fmt.Errorf("%w: read %d at %d, size %d", ErrBufferShort, n, b.ptr, b.Size())
	}

	out, err := b.readRange(b.ptr, n)
	if err != nil {
		return nil, err
	}

	b.ptr += n

	return out, nil
}

// readRange reads n logical bytes starting at pos without touching the
// cursor, walking the span list to find where each byte currently lives.
func (b *Buffer) readRange(pos, n int64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	out := make([]byte, 0, n)

	var cum int64

	remaining := n
	next := pos

	for i := range b.spans {
		if remaining == 0 {
			break
		}

		s := b.spans[i]
		l := s.size()
		spanEnd := cum + l

		if spanEnd > next {
			localStart := next - cum

			take := l - localStart
			if take > remaining {
				take = remaining
			}

			chunk, err := b.readSpan(s, localStart, take)
			if err != nil {
				return nil, err
			}

			out = append(out, chunk...)
			next += take
			remaining -= take
		}

		cum += l
	}

	return out, nil
}

func (b *Buffer) readSpan(s span, localStart, n int64) ([]byte, error) {
	switch s.kind {
	case spanInline:
		return append([]byte(nil), s.data[localStart:localStart+n]...), nil
	case spanChild:
		return s.child.readRange(localStart, n)
	default:
		return b.readAbsolute(s.start+localStart, n)
	}
}

func (b *Buffer) readAbsolute(relOffset, n int64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	out := make([]byte, n)

	root := b.root()
	if root.file == nil {
		return nil, fmt.Errorf("%w: buffer has no backing file", ErrBufferShort)
	}

	_, err := root.file.ReadAt(out, b.AbsoluteOffset()+relOffset)
	if err != nil {
		return nil, fmt.Errorf("bufedit: read at %d: %w", b.AbsoluteOffset()+relOffset, err)
	}

	return out, nil
}

// ReadCString reads bytes up to (and consuming) the next NUL byte. If no NUL
// is found, it consumes the rest of the buffer but leaves the buffer's last
// byte out of the returned string.
func (b *Buffer) ReadCString() (string, error) {
	if b.ptr == b.Size() {
		return "", nil
	}

	var out []byte

	lastPos := b.Size() - 1

	c, err := b.Read(1)
	if err != nil {
		return "", err
	}

	for len(c) > 0 && c[0] != 0 && b.ptr <= lastPos {
		out = append(out, c[0])

		c, err = b.Read(1)
		if err != nil {
			return "", err
		}
	}

	return string(out), nil
}

// Write replaces the n bytes at the cursor with content and advances the
// cursor by n (the length consumed from the old layout, not the new one).
// It returns the signed change in the buffer's size.
func (b *Buffer) Write(n int64, content []byte) (int64, error) {
	before := b.Size()

	if err := b.splice(b.ptr, n, span{kind: spanInline, data: content}); err != nil {
		return 0, err
	}

	b.ptr += n

	return b.Size() - before, nil
}

// attachChild splices a freshly constructed child buffer into this buffer's
// span list at child's offset, replacing whatever Original bytes used to
// occupy that range. Must be called before any edit has touched the region
// being replaced, since the splice position is expressed in this buffer's
// original coordinates.
func (b *Buffer) attachChild(child *Buffer) error {
	return b.splice(child.offset, child.Size(), span{kind: spanChild, child: child})
}

// NewChild creates a child buffer covering [offset, offset+size) of this
// buffer's original coordinate space and attaches it as a Child span.
func (b *Buffer) NewChild(offset, size int64) (*Buffer, error) {
	child := &Buffer{
		parent: b,
		offset: offset,
		spans:  []span{{kind: spanOriginal, start: 0, length: size}},
	}

	if err := b.attachChild(child); err != nil {
		return nil, err
	}

	return child, nil
}

// splice replaces [offset, offset+length) of the current span list with
// newSpan, trimming the spans at either edge as needed.
func (b *Buffer) splice(offset, length int64, newSpan span) error {
	if err := b.checkMonotonic(); err != nil {
		return err
	}

	startIdx, startCum, startFound := b.locate(offset)
	endIdx, endCum, endFound := b.locate(offset + length)

	result := make([]span, 0, len(b.spans)+2)

	if startFound {
		result = append(result, b.spans[:startIdx]...)

		if prefixLen := offset - startCum; prefixLen > 0 {
			trimmed, err := trimPrefix(b.spans[startIdx], prefixLen)
			if err != nil {
				return err
			}

			result = append(result, trimmed)
		}
	} else {
		// offset == current size: pure append, nothing ahead of newSpan to trim.
		result = append(result, b.spans...)
	}

	if newSpan.size() > 0 {
		result = append(result, newSpan)
	}

	if endFound {
		end := b.spans[endIdx]
		if suffixStart := offset + length - endCum; suffixStart < end.size() {
			trimmed, err := trimSuffix(end, suffixStart)
			if err != nil {
				return err
			}

			result = append(result, trimmed)
		}

		result = append(result, b.spans[endIdx+1:]...)
	}

	b.spans = result

	return b.checkMonotonic()
}

// locate finds the span containing pos, returning its index and the
// cumulative size of every span before it. found is false when pos equals
// the buffer's total size (the append-at-end case).
func (b *Buffer) locate(pos int64) (idx int, cumStart int64, found bool) {
	var cum int64

	for i := range b.spans {
		l := b.spans[i].size()
		if cum+l > pos {
			return i, cum, true
		}

		cum += l
	}

	return len(b.spans), cum, false
}

func trimPrefix(s span, keep int64) (span, error) {
	switch s.kind {
	case spanChild:
		return span{}, fmt.Errorf("%w: cannot split a child span", ErrUnownedBuffer)
	case spanInline:
		return span{kind: spanInline, data: s.data[:keep]}, nil
	default:
		return span{kind: spanOriginal, start: s.start, length: keep}, nil
	}
}

func trimSuffix(s span, skip int64) (span, error) {
	switch s.kind {
	case spanChild:
		return span{}, fmt.Errorf("%w: cannot split a child span", ErrUnownedBuffer)
	case spanInline:
		return span{kind: spanInline, data: s.data[skip:]}, nil
	default:
		return span{kind: spanOriginal, start: s.start + skip, length: s.length - skip}, nil
	}
}

// checkMonotonic asserts that every Original span starts no earlier than
// the end of the previous one. A violation means the splice logic has a
// bug, not that the input file is malformed, so it is treated as fatal.
func (b *Buffer) checkMonotonic() error {
	var (
		lastEnd int64
		seen    bool
	)

	for _, s := range b.spans {
		if s.kind != spanOriginal {
			continue
		}

		if seen && s.start < lastEnd {
			return fmt.Errorf("%w: span at %d precedes previous end %d", ErrNonMonotonicSpans, s.start, lastEnd)
		}

		lastEnd = s.start + s.length
		seen = true
	}

	return nil
}

// Commit writes the buffer's current logical contents to w, recursing into
// Child spans and reading Original spans straight from the backing file.
func (b *Buffer) Commit(w io.Writer) error {
	for _, s := range b.spans {
		switch s.kind {
		case spanOriginal:
			data, err := b.readAbsolute(s.start, s.length)
			if err != nil {
				return err
			}

			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("bufedit: commit: %w", err)
			}
		case spanInline:
			if _, err := w.Write(s.data); err != nil {
				return fmt.Errorf("bufedit: commit: %w", err)
			}
		case spanChild:
			if err := s.child.Commit(w); err != nil {
				return err
			}
		}
	}

	return nil
}
