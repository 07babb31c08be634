package bufedit

import (
	"bytes"
	"errors"
	"testing"
)

func newTestFile(t *testing.T, data []byte) *Buffer {
	t.Helper()

	return NewFile(bytes.NewReader(data), int64(len(data)))
}

func TestRoundTripNoEdits(t *testing.T) {
	data := []byte("hello, motion photo")

	buf := newTestFile(t, data)

	var out bytes.Buffer
	if err := buf.Commit(&out); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("round trip mismatch: got %q want %q", out.Bytes(), data)
	}
}

func TestWriteExactBoundary(t *testing.T) {
	data := []byte("0123456789")

	buf := newTestFile(t, data)

	if err := buf.Seek(3); err != nil {
		t.Fatalf("seek: %v", err)
	}

	delta, err := buf.Write(4, []byte("XXXX"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	if delta != 0 {
		t.Fatalf("delta = %d, want 0", delta)
	}

	if got, want := buf.Size(), int64(len(data)); got != want {
		t.Fatalf("size = %d, want %d", got, want)
	}

	var out bytes.Buffer
	if err := buf.Commit(&out); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got, want := out.String(), "012XXXX789"; got != want {
		t.Fatalf("commit = %q, want %q", got, want)
	}
}

func TestWriteGrowsAndShrinks(t *testing.T) {
	data := []byte("0123456789")

	buf := newTestFile(t, data)

	if err := buf.Seek(2); err != nil {
		t.Fatalf("seek: %v", err)
	}

	delta, err := buf.Write(3, []byte("ABCDE"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	if delta != 2 {
		t.Fatalf("delta = %d, want 2", delta)
	}

	var out bytes.Buffer
	if err := buf.Commit(&out); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got, want := out.String(), "01ABCDE56789"; got != want {
		t.Fatalf("commit = %q, want %q", got, want)
	}

	if got, want := buf.Size(), int64(len("01ABCDE56789")); got != want {
		t.Fatalf("size = %d, want %d", got, want)
	}
}

func TestAppendAtEnd(t *testing.T) {
	data := []byte("0123456789")

	buf := newTestFile(t, data)

	if err := buf.Seek(int64(len(data))); err != nil {
		t.Fatalf("seek: %v", err)
	}

	delta, err := buf.Write(0, []byte("tail"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	if delta != 4 {
		t.Fatalf("delta = %d, want 4", delta)
	}

	var out bytes.Buffer
	if err := buf.Commit(&out); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got, want := out.String(), "0123456789tail"; got != want {
		t.Fatalf("commit = %q, want %q", got, want)
	}
}

func TestChildSizeIsLive(t *testing.T) {
	data := []byte("0123456789ABCDEF")

	buf := newTestFile(t, data)

	child, err := buf.NewChild(4, 4) // covers "4567"
	if err != nil {
		t.Fatalf("new child: %v", err)
	}

	if got, want := buf.Size(), int64(len(data)); got != want {
		t.Fatalf("parent size before child write = %d, want %d", got, want)
	}

	if err := child.Seek(0); err != nil {
		t.Fatalf("seek: %v", err)
	}

	if _, err := child.Write(4, []byte("XYZ")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got, want := buf.Size(), int64(len(data))-1; got != want {
		t.Fatalf("parent size after child shrink = %d, want %d", got, want)
	}

	var out bytes.Buffer
	if err := buf.Commit(&out); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got, want := out.String(), "0123XYZ89ABCDEF"; got != want {
		t.Fatalf("commit = %q, want %q", got, want)
	}
}

func TestWriteIntoChildSpanFromParentIsUnowned(t *testing.T) {
	data := []byte("0123456789ABCDEF")

	buf := newTestFile(t, data)

	if _, err := buf.NewChild(4, 4); err != nil {
		t.Fatalf("new child: %v", err)
	}

	if err := buf.Seek(5); err != nil {
		t.Fatalf("seek: %v", err)
	}

	_, err := buf.Write(2, []byte("zz"))
	if !errors.Is(err, ErrUnownedBuffer) {
		t.Fatalf("err = %v, want ErrUnownedBuffer", err)
	}
}

func TestReadPastEndIsBufferShort(t *testing.T) {
	buf := newTestFile(t, []byte("abc"))

	if err := buf.Seek(2); err != nil {
		t.Fatalf("seek: %v", err)
	}

	if _, err := buf.Read(5); !errors.Is(err, ErrBufferShort) {
		t.Fatalf("err = %v, want ErrBufferShort", err)
	}
}

func TestSeekPastEndIsBufferShort(t *testing.T) {
	buf := newTestFile(t, []byte("abc"))

	if err := buf.Seek(4); !errors.Is(err, ErrBufferShort) {
		t.Fatalf("err = %v, want ErrBufferShort", err)
	}

	if err := buf.Seek(3); err != nil {
		t.Fatalf("seek to size should be valid for append: %v", err)
	}
}

func TestReadCString(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "terminated", data: []byte("mime\x00rest"), want: "mime"},
		{name: "empty", data: []byte("\x00rest"), want: ""},
		{name: "unterminated", data: []byte("tail"), want: "tai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newTestFile(t, tt.data)

			got, err := buf.ReadCString()
			if err != nil {
				t.Fatalf("read cstring: %v", err)
			}

			if got != tt.want {
				t.Fatalf("read cstring = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	data := make([]byte, 8)

	buf := newTestFile(t, data)

	if err := buf.Seek(0); err != nil {
		t.Fatalf("seek: %v", err)
	}

	if _, err := buf.WriteUint32BE(0xDEADBEEF); err != nil {
		t.Fatalf("write uint32: %v", err)
	}

	if _, err := buf.WriteUint32BE(1); err != nil {
		t.Fatalf("write uint32: %v", err)
	}

	if err := buf.Seek(0); err != nil {
		t.Fatalf("seek: %v", err)
	}

	v, err := buf.ReadUint32BE()
	if err != nil {
		t.Fatalf("read uint32: %v", err)
	}

	if v != 0xDEADBEEF {
		t.Fatalf("v = %#x, want 0xDEADBEEF", v)
	}
}

func TestNonMonotonicSpansIsFatal(t *testing.T) {
	buf := newTestFile(t, []byte("0123456789"))

	// Force a structurally invalid span list to exercise the assertion path;
	// this can never happen through the public API, only through a bug in it.
	buf.spans = []span{
		{kind: spanOriginal, start: 5, length: 3},
		{kind: spanOriginal, start: 2, length: 3},
	}

	if err := buf.checkMonotonic(); !errors.Is(err, ErrNonMonotonicSpans) {
		t.Fatalf("err = %v, want ErrNonMonotonicSpans", err)
	}
}
