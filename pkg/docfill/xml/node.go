package xml

import (
	"encoding/xml"
	"strings"
)

// NamespaceXML is the namespace bound to the reserved xml prefix
const NamespaceXML = "http://www.w3.org/XML/1998/namespace"

// NodeType identifies the kind of a Node
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "procinst"
	case DirectiveNode:
		return "directive"
	default:
		return "unknown"
	}
}

// Node is a single node of a parsed XML part.
//
// For elements Name.Space holds the literal prefix ("w" for <w:p>), not the
// namespace URI. For processing instructions Name.Local holds the target and Data
// the instruction. Text, comment and directive nodes keep their content in Data.
type Node struct {
	Type     NodeType
	Name     xml.Name
	Attr     []xml.Attr
	Data     string
	Children []*Node
	Parent   *Node
}

// NewElement creates a detached element with the given prefix and local name
func NewElement(prefix, local string, attrs ...xml.Attr) *Node {
	return &Node{
		Type: ElementNode,
		Name: xml.Name{Space: prefix, Local: local},
		Attr: attrs,
	}
}

// NewText creates a detached character data node
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// Attr builds an attribute with a literal prefix
func Attr(prefix, local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: prefix, Local: local}, Value: value}
}

// QualifiedName returns the name as written in the source, e.g. "w:p"
func (n *Node) QualifiedName() string {
	if n.Name.Space == "" {
		return n.Name.Local
	}
	return n.Name.Space + ":" + n.Name.Local
}

// Clone returns a deep copy of n. The copy has no parent.
func (n *Node) Clone() *Node {
	c := &Node{
		Type: n.Type,
		Name: n.Name,
		Data: n.Data,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]xml.Attr, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			cc := child.Clone()
			cc.Parent = c
			c.Children[i] = cc
		}
	}
	return c
}

// AppendChild detaches child from its current parent and appends it to n
func (n *Node) AppendChild(child *Node) {
	child.Detach()
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertBefore inserts child before ref. If ref is not a child of n, child is appended.
func (n *Node) InsertBefore(child, ref *Node) {
	idx := n.indexOf(ref)
	if idx < 0 {
		n.AppendChild(child)
		return
	}
	child.Detach()
	// ref may have moved if child was an earlier sibling
	idx = n.indexOf(ref)
	child.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[idx+1:], n.Children[idx:])
	n.Children[idx] = child
}

// RemoveChild removes child from n and reports whether it was found
func (n *Node) RemoveChild(child *Node) bool {
	idx := n.indexOf(child)
	if idx < 0 {
		return false
	}
	n.Children = append(n.Children[:idx], n.Children[idx+1:]...)
	child.Parent = nil
	return true
}

// Detach removes n from its parent, if any
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceWith puts replacements in the place of n and detaches n
func (n *Node) ReplaceWith(replacements ...*Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for _, r := range replacements {
		parent.InsertBefore(r, n)
	}
	parent.RemoveChild(n)
}

// Index returns the position of n among its parent's children, or -1
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	return n.Parent.indexOf(n)
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Root returns the first element child of a document node, or n itself for any other node
func (n *Node) Root() *Node {
	if n.Type != DocumentNode {
		return n
	}
	for _, c := range n.Children {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// Elements returns the element children of n
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated character data of n and its descendants
func (n *Node) Text() string {
	if n.Type == TextNode {
		return n.Data
	}
	var b strings.Builder
	Walk(n, func(c *Node) WalkResult {
		if c.Type == TextNode {
			b.WriteString(c.Data)
		}
		return WalkContinue
	})
	return b.String()
}

// SetText replaces all children of n with a single text node
func (n *Node) SetText(data string) {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	n.AppendChild(NewText(data))
}

// AttrValue returns the value of the first attribute with the given local name,
// regardless of prefix
func (n *Node) AttrValue(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// AttrNS returns the value of the attribute in namespace uri with the given local name
func (n *Node) AttrNS(uri, local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local != local || a.Name.Space == "xmlns" {
			continue
		}
		if a.Name.Space == "" {
			// unprefixed attributes are in no namespace
			if uri == "" {
				return a.Value, true
			}
			continue
		}
		if n.LookupNamespace(a.Name.Space) == uri {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or adds the attribute with the given prefix and local name
func (n *Node) SetAttr(prefix, local, value string) {
	for i, a := range n.Attr {
		if a.Name.Space == prefix && a.Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, Attr(prefix, local, value))
}

// LookupNamespace resolves prefix to a namespace URI using the xmlns declarations
// on n and its ancestors. The empty prefix resolves the default namespace.
func (n *Node) LookupNamespace(prefix string) string {
	if prefix == "xml" {
		return NamespaceXML
	}
	for cur := n; cur != nil; cur = cur.Parent {
		for _, a := range cur.Attr {
			if prefix == "" && a.Name.Space == "" && a.Name.Local == "xmlns" {
				return a.Value
			}
			if prefix != "" && a.Name.Space == "xmlns" && a.Name.Local == prefix {
				return a.Value
			}
		}
	}
	return ""
}

// NamespaceURI returns the namespace URI of an element
func (n *Node) NamespaceURI() string {
	if n.Type != ElementNode {
		return ""
	}
	return n.LookupNamespace(n.Name.Space)
}

// Is reports whether n is an element with the given namespace URI and local name
func (n *Node) Is(uri, local string) bool {
	return n != nil && n.Type == ElementNode && n.Name.Local == local && n.NamespaceURI() == uri
}

// Child returns the first element child matching uri and local
func (n *Node) Child(uri, local string) *Node {
	for _, c := range n.Children {
		if c.Is(uri, local) {
			return c
		}
	}
	return nil
}

// Find returns the first descendant of n matching uri and local
func (n *Node) Find(uri, local string) *Node {
	var found *Node
	Walk(n, func(c *Node) WalkResult {
		if c != n && c.Is(uri, local) {
			found = c
			return WalkStop
		}
		return WalkContinue
	})
	return found
}

// FindAll returns all descendants of n matching uri and local in document order
func (n *Node) FindAll(uri, local string) []*Node {
	var out []*Node
	Walk(n, func(c *Node) WalkResult {
		if c != n && c.Is(uri, local) {
			out = append(out, c)
		}
		return WalkContinue
	})
	return out
}

// Ancestor returns the nearest ancestor of n matching uri and local
func (n *Node) Ancestor(uri, local string) *Node {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Is(uri, local) {
			return cur
		}
	}
	return nil
}
