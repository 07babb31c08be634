package qt

import (
	"bytes"
	"testing"
)

func TestOpenParsesMoov(t *testing.T) {
	ftyp := box("ftyp", []byte("qt  "))
	mvhd := fullBox("mvhd", mvhdPayload(600, 1800))
	moov := box("moov", mvhd)

	data := concat(ftyp, moov)

	f, err := Open(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if f.Moov == nil || f.Moov.MVHD == nil {
		t.Fatal("Moov or Moov.MVHD is nil")
	}

	if got := f.Moov.MVHD.DurationInUs(); got != 3_000_000 {
		t.Fatalf("DurationInUs() = %d, want 3000000", got)
	}
}

func TestOpenMissingMoovIsError(t *testing.T) {
	data := box("ftyp", []byte("qt  "))

	if _, err := Open(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Fatal("expected error for a file with no moov box")
	}
}
