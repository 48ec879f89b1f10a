package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/slidelens/deck-analyzer/internal/domain"
)

// relationship is one entry from an OPC .rels part.
type relationship struct {
	ID     string
	Type   string
	Target string
}

// relsXML mirrors the .rels document shape.
type relsXML struct {
	XMLName       xml.Name `xml:"Relationships"`
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// parseRelationships reads a .rels part into an id-keyed map.
func parseRelationships(parts map[string]*zip.File, name string) (map[string]relationship, error) {
	data, err := readPart(parts, name)
	if err != nil {
		return nil, err
	}

	var doc relsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	rels := make(map[string]relationship, len(doc.Relationships))
	for _, r := range doc.Relationships {
		rels[r.ID] = relationship{ID: r.ID, Type: r.Type, Target: r.Target}
	}
	return rels, nil
}

// relsOfType returns the targets of relationships whose Type URI ends with
// the given suffix, e.g. "notesSlide".
func relsOfType(rels map[string]relationship, suffix string) []string {
	var targets []string
	for _, r := range rels {
		if strings.HasSuffix(r.Type, "/"+suffix) {
			targets = append(targets, r.Target)
		}
	}
	return targets
}

// slideRelationshipIDs walks presentation.xml and returns the r:id of each
// slide in the sldIdLst, preserving presentation order. Only entries inside
// sldIdLst count; master and layout ids live in sibling lists.
func slideRelationshipIDs(presXML []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(presXML))

	var ids []string
	inList := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sldIdLst":
				inList = true
			case "sldId":
				if !inList {
					continue
				}
				for _, attr := range el.Attr {
					// The relationship id is the namespaced id attribute;
					// the plain id attribute is the numeric slide id.
					if attr.Name.Local == "id" && attr.Name.Space != "" {
						ids = append(ids, attr.Value)
					}
				}
			}
		case xml.EndElement:
			if el.Name.Local == "sldIdLst" {
				inList = false
			}
		}
	}

	return ids, nil
}

// shapeContent is what one slide (or notes) part contributes: text
// fragments per shape in document order, and image relationship ids in
// shape order.
type shapeContent struct {
	fragments []domain.TextFragment
	imageRels []string
}

// shapeBuilder accumulates one shape's text while walking its subtree.
// skip marks chrome placeholders (slide number, header, footer, date)
// whose text is not deck content.
type shapeBuilder struct {
	kind      domain.FragmentKind
	skip      bool
	lines     []string
	paragraph strings.Builder
}

// parseShapeTree token-walks a slide or notes part. Element names are
// matched by local name: DrawingML and PresentationML prefixes vary by
// producer but local names do not.
func parseShapeTree(slideXML []byte) (shapeContent, error) {
	dec := xml.NewDecoder(bytes.NewReader(slideXML))

	var content shapeContent
	var stack []*shapeBuilder
	inText := false

	top := func() *shapeBuilder {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return shapeContent{}, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sp":
				stack = append(stack, &shapeBuilder{kind: domain.FragmentBody})
			case "ph":
				if b := top(); b != nil {
					for _, attr := range el.Attr {
						if attr.Name.Local != "type" {
							continue
						}
						switch attr.Value {
						case "title", "ctrTitle":
							b.kind = domain.FragmentTitle
						case "sldNum", "ftr", "hdr", "dt":
							b.skip = true
						}
					}
				}
			case "t":
				inText = true
			case "br":
				if b := top(); b != nil {
					b.paragraph.WriteString("\n")
				}
			case "blip":
				for _, attr := range el.Attr {
					if attr.Name.Local == "embed" {
						content.imageRels = append(content.imageRels, attr.Value)
					}
				}
			}

		case xml.CharData:
			if inText {
				if b := top(); b != nil {
					b.paragraph.Write(el)
				}
			}

		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if b := top(); b != nil {
					if line := b.paragraph.String(); strings.TrimSpace(line) != "" {
						b.lines = append(b.lines, line)
					}
					b.paragraph.Reset()
				}
			case "sp":
				if b := top(); b != nil {
					stack = stack[:len(stack)-1]
					if b.skip {
						continue
					}
					text := strings.TrimSpace(strings.Join(b.lines, "\n"))
					if text != "" {
						content.fragments = append(content.fragments, domain.TextFragment{
							Kind: b.kind,
							Text: text,
						})
					}
				}
			}
		}
	}

	return content, nil
}
