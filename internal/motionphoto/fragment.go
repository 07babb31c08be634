package motionphoto

import (
	"fmt"
	"strconv"

	"github.com/ma-tf/motionheic/internal/xmp"
)

// rdfNamespace and xmpMetaNamespace are the two namespace URIs this package
// needs to locate elements by, independent of whatever prefix a given file
// happens to use for them.
const (
	rdfNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmpMetaNamespace = "adobe:ns:meta/"
)

// xmpToolkit is the literal x:xmptk value stamped onto the carrying item's
// xmpmeta root, matching the value every known GCamera writer uses.
const xmpToolkit = "Adobe XMP Core 5.1.0-jc003"

// gcameraTemplate is the literal GCamera metadata fragment grafted into the
// carrying image's XMP. presentationTimestampUs and motionItemLength are
// substituted per Mode: the standard recipe (mpv2 trailer) marks the
// timestamp "-1" and the motion resource length "12"; the MicroVideo legacy
// recipe uses the movie's actual duration and the image's pre-append size.
const gcameraTemplate = `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description rdf:about=""
    xmlns:GCamera="http://ns.google.com/photos/1.0/camera/"
    xmlns:Container="http://ns.google.com/photos/1.0/container/"
    xmlns:Item="http://ns.google.com/photos/1.0/container/item/"
  GCamera:MotionPhoto="1"
  GCamera:MotionPhotoVersion="1"
  GCamera:MotionPhotoPresentationTimestampUs="%s">
  <Container:Directory>
    <rdf:Seq>
      <rdf:li rdf:parseType="Resource">
        <Container:Item
          Item:Mime="image/heic"
          Item:Semantic="Primary"
          Item:Length="0"
          Item:Padding="16"/>
      </rdf:li>
      <rdf:li rdf:parseType="Resource">
        <Container:Item
          Item:Mime="video/mp4"
          Item:Semantic="MotionPhoto"
          Item:Length="%s"
          Item:Padding="0"/>
      </rdf:li>
    </rdf:Seq>
  </Container:Directory>
</rdf:Description>
</rdf:RDF>`

// buildGCameraFragment renders gcameraTemplate for the given mode and
// returns its rdf:Description element, ready to be grafted into a real
// XMP document's rdf:RDF root.
func buildGCameraFragment(mode Mode, durationUs, imageCurrentSize int64) (*xmp.Element, error) {
	timestamp := "-1"
	motionItemLength := "12"

	if mode == ModeMicroVideo {
		timestamp = strconv.FormatInt(durationUs, 10)
		motionItemLength = strconv.FormatInt(imageCurrentSize, 10)
	}

	text := fmt.Sprintf(gcameraTemplate, timestamp, motionItemLength)

	doc, err := xmp.Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("motionphoto: gcamera template: %w", err)
	}

	descriptions := doc.ElementsByNS(rdfNamespace, "Description")
	if len(descriptions) == 0 {
		return nil, ErrNoFragmentRoot
	}

	return descriptions[0], nil
}
