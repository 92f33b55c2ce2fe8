package httpclient

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
)

// JSONParser parses response bodies as JSON and encodes request bodies as
// JSON. It is the parser most providers use.
type JSONParser struct{}

// Parse decodes body into a generic value (map, slice or scalar).
func (JSONParser) Parse(body []byte) (any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode json body: %w", err)
	}
	return v, nil
}

// Encode serializes v as compact JSON.
func (JSONParser) Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json body: %w", err)
	}
	return b, nil
}

// XMLNode is a generic XML element tree: name, attributes, character data
// and child elements in document order.
type XMLNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []XMLNode  `xml:",any"`
}

// Find returns the first direct child with the given local name, or nil.
func (n *XMLNode) Find(local string) *XMLNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

// FindAll returns every direct child with the given local name.
func (n *XMLNode) FindAll(local string) []*XMLNode {
	var out []*XMLNode
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// Attr returns the value of the named attribute, or "".
func (n *XMLNode) Attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// XMLParser parses response bodies into an XMLNode tree.
type XMLParser struct{}

// Parse decodes body into the root *XMLNode.
func (XMLParser) Parse(body []byte) (any, error) {
	var root XMLNode
	dec := xml.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode xml body: %w", err)
	}
	// Reject trailing garbage after the document element.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode xml body: trailing data after document element")
	}
	return &root, nil
}

// Encode serializes v as XML.
func (XMLParser) Encode(v any) ([]byte, error) {
	b, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode xml body: %w", err)
	}
	return b, nil
}
