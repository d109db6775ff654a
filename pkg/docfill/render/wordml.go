package render

import (
	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

const (
	// NamespaceW is the main WordprocessingML namespace
	NamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	// NamespaceR is the office document relationships namespace
	NamespaceR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	// PrefixW is the prefix used for elements created by this package
	PrefixW = "w"
)

// IsW reports whether n is a WordprocessingML element with the given local name
func IsW(n *xml.Node, local string) bool {
	return n.Is(NamespaceW, local)
}

// W creates a detached WordprocessingML element
func W(local string, attrs ...string) *xml.Node {
	el := xml.NewElement(PrefixW, local)
	for i := 0; i+1 < len(attrs); i += 2 {
		el.SetAttr(PrefixW, attrs[i], attrs[i+1])
	}
	return el
}

// WVal returns the w:val attribute of the first child named local, if any
func WVal(n *xml.Node, local string) (string, bool) {
	if n == nil {
		return "", false
	}
	child := n.Child(NamespaceW, local)
	if child == nil {
		return "", false
	}
	if v, ok := child.AttrNS(NamespaceW, "val"); ok {
		return v, true
	}
	return child.AttrValue("val")
}
