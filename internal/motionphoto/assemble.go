package motionphoto

import (
	"fmt"

	"github.com/ma-tf/motionheic/internal/heif"
	"github.com/ma-tf/motionheic/internal/isobmff"
	"github.com/ma-tf/motionheic/internal/qt"
)

// mpv2TrailerMagic is the literal 20-byte sentinel every mpv2 box's payload
// begins with, followed by the two big-endian offsets this package fills
// in: the absolute byte offset of the appended movie and its length.
const mpv2TrailerMagic = "MotionPhoto_Datampv2"

// Mode selects which GCamera recipe Assemble writes.
type Mode int

const (
	// ModeMotionPhoto is the standard Google Photos Motion Photo recipe: the
	// GCamera timestamp is fixed at "-1" and the movie is appended as an
	// mpvd box followed by an mpv2 sentinel trailer that locates it.
	ModeMotionPhoto Mode = iota

	// ModeMicroVideo is the legacy MicroVideo recipe some older consumers
	// still expect: the GCamera timestamp is the movie's actual duration,
	// the motion item's declared length is the carrying image's pre-append
	// size, and no mpv2 trailer is written — the bare mpvd box is the only
	// signal that a movie follows.
	ModeMicroVideo
)

// Assemble turns image into a Motion Photo by grafting a GCamera XMP
// fragment into its XMP item and appending movie as a trailing box (or
// boxes, depending on mode). It mutates image in place; the caller commits
// the result with image.Commit.
func Assemble(image *heif.File, movie *qt.File, mode Mode) error {
	id, ok := image.Meta.IINF.FirstIDOfKind("mime")
	if !ok {
		return ErrNoXMPItem
	}

	xmpChunk, ok := image.Content.XMP(id)
	if !ok {
		return fmt.Errorf("%w: item 0x%04x is not an xmp item", ErrNoXMPItem, id)
	}

	doc, err := xmpChunk.Document()
	if err != nil {
		return err
	}

	rdfRoots := doc.ElementsByNS(rdfNamespace, "RDF")
	if len(rdfRoots) == 0 {
		return ErrNoRDFRoot
	}

	durationUs := movie.Moov.MVHD.DurationInUs()
	imageCurrentSize := image.CurrentSize()

	fragment, err := buildGCameraFragment(mode, durationUs, imageCurrentSize)
	if err != nil {
		return err
	}

	rdfRoots[0].AppendChild(fragment)

	xmpMetas := doc.ElementsByNS(xmpMetaNamespace, "xmpmeta")
	if len(xmpMetas) == 0 {
		return ErrNoXMPMetaRoot
	}

	xmpMetas[0].SetAttributeNS(xmpMetaNamespace, "x:xmptk", xmpToolkit)

	if err := xmpChunk.Commit(); err != nil {
		return fmt.Errorf("motionphoto: commit xmp item: %w", err)
	}

	// current_size must be read before mpvd is queued: it is where mpvd's
	// own header will start, and the mpv2 trailer's offset word adds mpvd's
	// header size to it to point at where mpvd's content begins.
	sizeBeforeMpvd := image.CurrentSize()

	mpvd := isobmff.NewPointerBox(isobmff.TypeMpvd, movie.Buffer)
	image.AddBox(mpvd)

	if mode == ModeMotionPhoto {
		movieOffset := sizeBeforeMpvd + mpvd.HeaderSize()
		trailer := buildMpv2Trailer(movieOffset, movie.Buffer.Size())
		image.AddBox(isobmff.NewMemoryBox(isobmff.TypeMpv2, trailer))
	}

	return nil
}

// buildMpv2Trailer renders the 28-byte mpv2 sentinel payload: the literal
// "MotionPhoto_Datampv2" magic, the appended movie's absolute byte offset,
// and its length, each as a big-endian uint32.
func buildMpv2Trailer(movieOffset, movieSize int64) []byte {
	out := make([]byte, 0, 28)
	out = append(out, mpv2TrailerMagic...)
	out = appendUint32BE(out, uint32(movieOffset))
	out = appendUint32BE(out, uint32(movieSize))

	return out
}

func appendUint32BE(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
