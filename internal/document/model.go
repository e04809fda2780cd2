package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
)

// CurrentVersion is written into every saved scene.
const CurrentVersion = 1

// NoGroup is the group id of ungrouped shapes.
const NoGroup = -1

// SceneDoc is the persisted form of a scene: one root node holding the
// shapes in draw order.
type SceneDoc struct {
	XMLName xml.Name    `xml:"scene" json:"-"`
	Name    string      `xml:"name,attr,omitempty" json:"name"`
	Version int         `xml:"version,attr" json:"version"`
	Shapes  []ShapeNode `xml:"shape" json:"shapes"`
}

// ShapeNode carries the common shape fields plus the type-specific ones.
// Type selects the factory constructor on load.
type ShapeNode struct {
	Type     string       `xml:"type,attr" json:"type"`
	ID       string       `xml:"id,attr,omitempty" json:"id,omitempty"`
	Name     string       `xml:"name,attr,omitempty" json:"name,omitempty"`
	GroupID  int          `xml:"groupId,attr" json:"groupId"`
	Position geom.Point   `xml:"position" json:"position"`
	Vertices []geom.Point `xml:"vertex,omitempty" json:"vertices,omitempty"`
	Radius   *geom.Point  `xml:"radius,omitempty" json:"radius,omitempty"`
}

// Encode writes doc as an indented XML document.
func Encode(w io.Writer, doc *SceneDoc) error {
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode reads an XML scene document.
func Decode(r io.Reader) (*SceneDoc, error) {
	var doc SceneDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := Validate(&doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &doc, nil
}

// Validate checks a decoded document: the version must not be newer than
// CurrentVersion and every shape needs a type.
func Validate(doc *SceneDoc) error {
	if doc.Version > CurrentVersion {
		return fmt.Errorf("unsupported version %d", doc.Version)
	}
	for i, s := range doc.Shapes {
		if s.Type == "" {
			return fmt.Errorf("shape %d has no type", i)
		}
	}
	return nil
}

// Marshal returns the XML encoding of doc.
func Marshal(doc *SceneDoc) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses an XML scene document.
func Unmarshal(data []byte) (*SceneDoc, error) {
	return Decode(bytes.NewReader(data))
}
