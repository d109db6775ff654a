package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const fragmentWrapper = "docfill-fragment"

// Parse reads a complete XML part and returns its document node
func Parse(r io.Reader) (*Node, error) {
	doc := &Node{Type: DocumentNode}
	if err := parseInto(doc, r); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("failed to parse document: no root element")
	}
	return doc, nil
}

// ParseBytes is a convenience wrapper around Parse
func ParseBytes(data []byte) (*Node, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFragment parses a sequence of sibling nodes, such as a run-level OOXML
// snippet. Prefixes do not need to be declared in the fragment; they resolve
// against the tree the nodes are later attached to.
func ParseFragment(fragment string) ([]*Node, error) {
	wrapper := &Node{Type: DocumentNode}
	src := "<" + fragmentWrapper + ">" + fragment + "</" + fragmentWrapper + ">"
	if err := parseInto(wrapper, strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	root := wrapper.Root()
	nodes := make([]*Node, len(root.Children))
	copy(nodes, root.Children)
	for _, n := range nodes {
		n.Parent = nil
	}
	root.Children = nil
	return nodes, nil
}

func parseInto(doc *Node, r io.Reader) error {
	decoder := xml.NewDecoder(r)
	current := doc

	for {
		tok, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to parse document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Node{
				Type:   ElementNode,
				Name:   t.Name,
				Parent: current,
			}
			if len(t.Attr) > 0 {
				el.Attr = make([]xml.Attr, len(t.Attr))
				copy(el.Attr, t.Attr)
			}
			current.Children = append(current.Children, el)
			current = el
		case xml.EndElement:
			if current.Type != ElementNode || current.Name != t.Name {
				return fmt.Errorf("failed to parse document: unexpected end element </%s>", qualified(t.Name))
			}
			current = current.Parent
		case xml.CharData:
			current.Children = append(current.Children, &Node{Type: TextNode, Data: string(t), Parent: current})
		case xml.Comment:
			current.Children = append(current.Children, &Node{Type: CommentNode, Data: string(t), Parent: current})
		case xml.ProcInst:
			current.Children = append(current.Children, &Node{
				Type:   ProcInstNode,
				Name:   xml.Name{Local: t.Target},
				Data:   string(t.Inst),
				Parent: current,
			})
		case xml.Directive:
			current.Children = append(current.Children, &Node{Type: DirectiveNode, Data: string(t), Parent: current})
		}
	}

	if current != doc {
		return fmt.Errorf("failed to parse document: unclosed element <%s>", current.QualifiedName())
	}
	return nil
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
