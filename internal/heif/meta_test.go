package heif

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ma-tf/motionheic/internal/bufedit"
	"github.com/ma-tf/motionheic/internal/isobmff"
)

func TestParseMETAPopulatesIINFAndILOC(t *testing.T) {
	data, _, _ := heifFixture()

	buf := bufedit.NewFile(bytes.NewReader(data), int64(len(data)))

	boxes, err := isobmff.ParseBoxList(buf)
	if err != nil {
		t.Fatalf("parse box list: %v", err)
	}

	metaBox := boxes.Find(isobmff.TypeMeta)
	if metaBox == nil {
		t.Fatal("meta box not found")
	}

	meta, err := ParseMETA(buf, metaBox.Offset())
	if err != nil {
		t.Fatalf("parse meta: %v", err)
	}

	if meta.IINF == nil || meta.ILOC == nil {
		t.Fatal("meta.IINF or meta.ILOC is nil")
	}

	if len(meta.IINF.Entries()) != 2 {
		t.Fatalf("len(Entries()) = %d, want 2", len(meta.IINF.Entries()))
	}

	xmpID, ok := meta.IINF.FirstIDOfKind("mime")
	if !ok || xmpID != 1 {
		t.Fatalf("FirstIDOfKind(mime) = %d, %v; want 1, true", xmpID, ok)
	}

	ids := meta.IINF.IDsOfKind("hvc1")
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("IDsOfKind(hvc1) = %v, want [2]", ids)
	}

	info, err := meta.IINF.Find(1)
	if err != nil {
		t.Fatalf("find 1: %v", err)
	}

	if !info.IsXMP() {
		t.Fatal("item 1 should be classified as XMP")
	}

	other, err := meta.IINF.Find(2)
	if err != nil {
		t.Fatalf("find 2: %v", err)
	}

	if other.IsXMP() {
		t.Fatal("item 2 should not be classified as XMP")
	}

	if _, err := meta.IINF.Find(99); !errors.Is(err, ErrUnknownID) {
		t.Fatalf("find 99: err = %v, want ErrUnknownID", err)
	}

	entry1, err := meta.ILOC.Get(1)
	if err != nil {
		t.Fatalf("get 1: %v", err)
	}

	entry2, err := meta.ILOC.Get(2)
	if err != nil {
		t.Fatalf("get 2: %v", err)
	}

	if entry1.ContentStart >= entry2.ContentStart {
		t.Fatalf("entry1.ContentStart (%d) should precede entry2's (%d)", entry1.ContentStart, entry2.ContentStart)
	}

	ordered := meta.ILOC.Ordered()
	if ordered[0].ID != 1 || ordered[1].ID != 2 {
		t.Fatalf("Ordered() = [%d %d], want [1 2]", ordered[0].ID, ordered[1].ID)
	}

	reversed := meta.ILOC.Reversed()
	if reversed[0].ID != 2 || reversed[1].ID != 1 {
		t.Fatalf("Reversed() = [%d %d], want [2 1]", reversed[0].ID, reversed[1].ID)
	}
}

func TestILOCEntrySetContentStartAndSizeRewriteInPlace(t *testing.T) {
	data, _, _ := heifFixture()

	buf := bufedit.NewFile(bytes.NewReader(data), int64(len(data)))

	boxes, err := isobmff.ParseBoxList(buf)
	if err != nil {
		t.Fatalf("parse box list: %v", err)
	}

	meta, err := ParseMETA(buf, boxes.Find(isobmff.TypeMeta).Offset())
	if err != nil {
		t.Fatalf("parse meta: %v", err)
	}

	entry, err := meta.ILOC.Get(1)
	if err != nil {
		t.Fatalf("get 1: %v", err)
	}

	if err := entry.SetContentStart(12345); err != nil {
		t.Fatalf("set content start: %v", err)
	}

	if entry.ContentStart != 12345 {
		t.Fatalf("ContentStart = %d, want 12345", entry.ContentStart)
	}

	if err := entry.SetContentSize(999); err != nil {
		t.Fatalf("set content size: %v", err)
	}

	if entry.ContentSize != 999 {
		t.Fatalf("ContentSize = %d, want 999", entry.ContentSize)
	}

	// Re-fetching from the table reflects the same mutated entry.
	again, err := meta.ILOC.Get(1)
	if err != nil {
		t.Fatalf("get 1 again: %v", err)
	}

	if again.ContentStart != 12345 || again.ContentSize != 999 {
		t.Fatalf("re-fetched entry = %+v, want ContentStart=12345 ContentSize=999", again)
	}
}
