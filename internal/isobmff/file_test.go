package isobmff

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ma-tf/motionheic/internal/bufedit"
)

func newTestBuffer(data []byte) *bufedit.Buffer {
	return bufedit.NewFile(bytes.NewReader(data), int64(len(data)))
}

func TestPointerBoxAndMemoryBoxAppendAfterMainBuffer(t *testing.T) {
	main := box32("ftyp", []byte("isom"))

	f, err := Open(bytes.NewReader(main), int64(len(main)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	movie := []byte("a whole quicktime movie's worth of bytes")
	movieBuf := newTestBuffer(movie)

	f.AddBox(NewPointerBox(NewBoxType("mpvd"), movieBuf))
	f.AddBox(NewMemoryBox(NewBoxType("mpv2"), []byte("MotionPhoto_Datampv2")))

	wantSize := int64(len(main)) + 8 + int64(len(movie)) + 8 + int64(len("MotionPhoto_Datampv2"))
	if got := f.CurrentSize(); got != wantSize {
		t.Fatalf("CurrentSize = %d, want %d", got, wantSize)
	}

	var out bytes.Buffer
	if err := f.Commit(&out); err != nil {
		t.Fatalf("commit: %v", err)
	}

	committed := out.Bytes()

	if !bytes.Equal(committed[:len(main)], main) {
		t.Fatalf("main buffer not written first")
	}

	rest := committed[len(main):]

	mpvdSize := binary.BigEndian.Uint32(rest[0:4])
	if mpvdSize != uint32(8+len(movie)) {
		t.Fatalf("mpvd size = %d, want %d", mpvdSize, 8+len(movie))
	}

	if string(rest[4:8]) != "mpvd" {
		t.Fatalf("mpvd tag = %q", rest[4:8])
	}

	if !bytes.Equal(rest[8:8+len(movie)], movie) {
		t.Fatalf("mpvd payload = %q, want %q", rest[8:8+len(movie)], movie)
	}

	rest = rest[8+len(movie):]

	mpv2Size := binary.BigEndian.Uint32(rest[0:4])
	if mpv2Size != uint32(8+len("MotionPhoto_Datampv2")) {
		t.Fatalf("mpv2 size = %d, want %d", mpv2Size, 8+len("MotionPhoto_Datampv2"))
	}

	if string(rest[4:8]) != "mpv2" {
		t.Fatalf("mpv2 tag = %q", rest[4:8])
	}
}

func TestOpenFindsTopLevelBoxes(t *testing.T) {
	var data []byte
	data = append(data, box32("ftyp", []byte("isom"))...)
	data = append(data, box32("free", []byte("Z"))...)

	f, err := Open(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if len(f.Boxes.All()) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(f.Boxes.All()))
	}

	if f.Boxes.Find(TypeFree) == nil {
		t.Fatal("Find(free) = nil")
	}
}
