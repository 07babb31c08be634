package xmp

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Attr is one attribute on an Element, keeping both its literal qualified
// name (as written in the source, or as supplied to SetAttributeNS) and the
// namespace URI it resolves to, if any.
type Attr struct {
	Prefix string // "" for an unprefixed attribute
	Local  string
	NS     string // resolved namespace URI, "" if unprefixed
	Value  string
}

// QualifiedName returns the attribute's name exactly as it should be
// serialised: "prefix:local", or just "local" when unprefixed.
func (a Attr) QualifiedName() string {
	if a.Prefix == "" {
		return a.Local
	}

	return a.Prefix + ":" + a.Local
}

// Element is one XML element, preserving its literal namespace prefix and
// its attribute order exactly as parsed (or as subsequently mutated).
type Element struct {
	Prefix string // "" for an unprefixed element
	Local  string
	NS     string // resolved namespace URI, "" if unprefixed
	Attrs  []Attr

	Children []Node
}

// QualifiedName returns the element's name exactly as it should be
// serialised: "prefix:local", or just "local" when unprefixed.
func (e *Element) QualifiedName() string {
	if e.Prefix == "" {
		return e.Local
	}

	return e.Prefix + ":" + e.Local
}

// Attribute returns the value of the first attribute with the given
// namespace URI and local name, and whether it was found.
func (e *Element) Attribute(ns, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.NS == ns && a.Local == local {
			return a.Value, true
		}
	}

	return "", false
}

// SetAttributeNS sets the value of the attribute identified by namespace URI
// and literal qualified name (e.g. "x:xmptk"), overwriting an existing
// attribute with the same resolved namespace and local name, or appending a
// new one. The qualified name's prefix is used verbatim, matching DOM's
// setAttributeNS contract: the caller is responsible for using a prefix
// already meaningful in context.
func (e *Element) SetAttributeNS(ns, qualifiedName, value string) {
	prefix, local := splitQName(qualifiedName)

	for i, a := range e.Attrs {
		if a.NS == ns && a.Local == local {
			e.Attrs[i].Value = value
			return
		}
	}

	e.Attrs = append(e.Attrs, Attr{Prefix: prefix, Local: local, NS: ns, Value: value})
}

// AppendChild appends child as the last child node of e.
func (e *Element) AppendChild(child Node) {
	e.Children = append(e.Children, child)
}

// ChildElements returns e's immediate child nodes that are elements.
func (e *Element) ChildElements() []*Element {
	var out []*Element

	for _, n := range e.Children {
		if el, ok := n.(*Element); ok {
			out = append(out, el)
		}
	}

	return out
}

// ElementsByNS returns every element in the subtree rooted at e (e included)
// whose resolved namespace URI and local name match, in document order.
func (e *Element) ElementsByNS(ns, local string) []*Element {
	var out []*Element

	var walk func(*Element)

	walk = func(el *Element) {
		if el.NS == ns && el.Local == local {
			out = append(out, el)
		}

		for _, child := range el.ChildElements() {
			walk(child)
		}
	}

	walk(e)

	return out
}

// Node is either an *Element, CharData, a ProcInst, or a Comment.
type Node interface {
	isNode()
}

// CharData is a run of text content.
type CharData string

func (CharData) isNode() {}

func (*Element) isNode() {}

// ProcInst is an XML processing instruction, such as the xpacket markers
// that wrap an Adobe XMP payload outside its root element.
type ProcInst struct {
	Target string
	Inst   string
}

func (ProcInst) isNode() {}

// Comment is a literal XML comment.
type Comment string

func (Comment) isNode() {}

// Document is a parsed XMP/XML packet: an ordered list of top-level nodes,
// typically a leading xpacket ProcInst, a single root Element, and a
// trailing xpacket ProcInst.
type Document struct {
	Nodes []Node
}

// Root returns the document's first top-level Element, if any.
func (d *Document) Root() *Element {
	for _, n := range d.Nodes {
		if el, ok := n.(*Element); ok {
			return el
		}
	}

	return nil
}

// ElementsByNS returns every element across the whole document whose
// resolved namespace URI and local name match, in document order.
func (d *Document) ElementsByNS(ns, local string) []*Element {
	var out []*Element

	for _, n := range d.Nodes {
		if el, ok := n.(*Element); ok {
			out = append(out, el.ElementsByNS(ns, local)...)
		}
	}

	return out
}

func splitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}

	return "", qname
}

type nsScope map[string]string // prefix ("" for default) -> URI

func (s nsScope) clone() nsScope {
	out := make(nsScope, len(s))
	for k, v := range s {
		out[k] = v
	}

	return out
}

func (s nsScope) resolve(prefix string) string {
	return s[prefix]
}

// Parse decodes an XMP/XML byte payload into a Document, preserving literal
// namespace prefixes instead of resolving them away. It uses
// xml.Decoder.RawToken rather than Token (or Unmarshal) specifically because
// RawToken does not translate prefixes to namespace URIs, which is what
// lets the original "rdf", "x", "GCamera" and similar prefixes survive a
// parse/mutate/serialise round trip unchanged. Namespace URIs are instead
// resolved by hand against a scope stack built from each element's own
// xmlns declarations, giving DOM-style getElementsByNS lookups without
// losing prefix fidelity.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	doc := &Document{}

	var stack []*Element

	scopes := []nsScope{{}}

	for {
		tok, err := dec.RawToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			scope := scopes[len(scopes)-1].clone()

			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					scope[""] = a.Value
				case a.Name.Space == "xmlns":
					scope[a.Name.Local] = a.Value
				}
			}

			scopes = append(scopes, scope)

			el := &Element{
				Prefix: t.Name.Space,
				Local:  t.Name.Local,
				NS:     scope.resolve(t.Name.Space),
			}

			for _, a := range t.Attr {
				attr := Attr{Prefix: a.Name.Space, Local: a.Name.Local, Value: a.Value}
				if attr.Prefix != "" && attr.Prefix != "xmlns" {
					attr.NS = scope.resolve(attr.Prefix)
				}

				el.Attrs = append(el.Attrs, attr)
			}

			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unmatched end element %q", ErrMalformed, t.Name.Local)
			}

			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			scopes = scopes[:len(scopes)-1]

			if len(stack) == 0 {
				doc.Nodes = append(doc.Nodes, el)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}

		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue // whitespace-only text node, dropped like remove_whitespaces()
			}

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, CharData(append([]byte(nil), t...)))
			}

		case xml.ProcInst:
			pi := ProcInst{Target: t.Target, Inst: string(t.Inst)}

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, pi)
			} else {
				doc.Nodes = append(doc.Nodes, pi)
			}

		case xml.Comment:
			c := Comment(append([]byte(nil), t...))

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, c)
			} else {
				doc.Nodes = append(doc.Nodes, c)
			}
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed element %q", ErrMalformed, stack[len(stack)-1].QualifiedName())
	}

	return doc, nil
}

// ParseFragment parses a standalone XML fragment (such as a hand-written
// metadata template) and returns its single root element.
func ParseFragment(data []byte) (*Element, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: fragment has no root element", ErrMalformed)
	}

	return root, nil
}

// Serialize renders the document back to bytes, preserving every literal
// namespace prefix and attribute order exactly as parsed or mutated.
func (d *Document) Serialize() []byte {
	var buf bytes.Buffer

	for _, n := range d.Nodes {
		writeNode(&buf, n)
	}

	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n Node) {
	switch t := n.(type) {
	case *Element:
		writeElement(buf, t)
	case CharData:
		xml.EscapeText(buf, []byte(t)) //nolint:errcheck
	case ProcInst:
		buf.WriteString("<?")
		buf.WriteString(t.Target)
		buf.WriteByte(' ')
		buf.WriteString(t.Inst)
		buf.WriteString("?>")
	case Comment:
		buf.WriteString("<!--")
		buf.WriteString(string(t))
		buf.WriteString("-->")
	}
}

func writeElement(buf *bytes.Buffer, e *Element) {
	name := e.QualifiedName()

	buf.WriteByte('<')
	buf.WriteString(name)

	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.QualifiedName())
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.Value)) //nolint:errcheck
		buf.WriteByte('"')
	}

	if len(e.Children) == 0 {
		buf.WriteString("/>")
		return
	}

	buf.WriteByte('>')

	for _, child := range e.Children {
		writeNode(buf, child)
	}

	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteByte('>')
}
