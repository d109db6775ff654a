package render

import (
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// RunBuilder produces the run-level nodes inserted by SplitRun. rPr is the
// property element of the run being split and may be nil; builders must clone it
// before attaching it anywhere.
type RunBuilder func(rPr *xml.Node) []*xml.Node

// SplitRun splits the run containing pos.Text at pos.Offset and inserts the
// nodes returned by build between the two halves. Halves left without content
// are dropped.
func SplitRun(pos Position, build RunBuilder) error {
	t := pos.Text
	if t == nil || t.Parent == nil || !IsW(t.Parent, "r") {
		return fmt.Errorf("text segment is not inside a run")
	}
	run := t.Parent
	parent := run.Parent
	if parent == nil {
		return fmt.Errorf("run is detached")
	}

	txt := t.Text()
	if pos.Offset < 0 || pos.Offset > len(txt) {
		return fmt.Errorf("offset %d outside segment of length %d", pos.Offset, len(txt))
	}
	before, after := txt[:pos.Offset], txt[pos.Offset:]
	rPr := run.Child(NamespaceW, "rPr")

	tail := make([]*xml.Node, 0, len(run.Children))
	idx := t.Index()
	tail = append(tail, run.Children[idx+1:]...)

	afterRun := xml.NewElement(run.Name.Space, run.Name.Local, append(run.Attr[:0:0], run.Attr...)...)
	if rPr != nil {
		afterRun.AppendChild(rPr.Clone())
	}
	if after != "" {
		nt := xml.NewElement(t.Name.Space, t.Name.Local)
		setSegmentText(nt, after)
		afterRun.AppendChild(nt)
	}
	for _, c := range tail {
		afterRun.AppendChild(c)
	}

	if before == "" {
		t.Detach()
	} else {
		setSegmentText(t, before)
	}

	inserted := build(rPr)
	if runHasContent(afterRun) {
		inserted = append(inserted, afterRun)
	}
	insertAfter(parent, run, inserted)

	if !runHasContent(run) {
		run.Detach()
	}
	return nil
}

func insertAfter(parent, ref *xml.Node, nodes []*xml.Node) {
	idx := ref.Index()
	var next *xml.Node
	if idx >= 0 && idx+1 < len(parent.Children) {
		next = parent.Children[idx+1]
	}
	for _, n := range nodes {
		if next == nil {
			parent.AppendChild(n)
		} else {
			parent.InsertBefore(n, next)
		}
	}
}

// NewRun creates a run with a copy of rPr followed by children
func NewRun(rPr *xml.Node, children ...*xml.Node) *xml.Node {
	run := W("r")
	if rPr != nil {
		run.AppendChild(rPr.Clone())
	}
	for _, c := range children {
		run.AppendChild(c)
	}
	return run
}

// TextChildren converts s into run content: text becomes <w:t>, "\n" becomes
// <w:br/> and "\t" becomes <w:tab/>
func TextChildren(s string) []*xml.Node {
	var out []*xml.Node
	var buf strings.Builder
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		t := W("t")
		setSegmentText(t, buf.String())
		out = append(out, t)
		buf.Reset()
	}
	for _, r := range s {
		switch r {
		case '\n':
			flush()
			out = append(out, W("br"))
		case '\t':
			flush()
			out = append(out, W("tab"))
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return out
}

// rPrOrder is the child order of <w:rPr> required by the schema
var rPrOrder = []string{
	"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike",
	"dstrike", "outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid",
	"vanish", "webHidden", "color", "spacing", "w", "kern", "position", "sz",
	"szCs", "highlight", "u", "effect", "bdr", "shd", "fitText", "vertAlign",
	"rtl", "cs", "em", "lang", "eastAsianLayout", "specVanish", "oMath",
}

func rPrRank(local string) int {
	for i, name := range rPrOrder {
		if name == local {
			return i
		}
	}
	return len(rPrOrder)
}

// EnsureRunProperty returns a copy of rPr (or a new rPr) carrying the property
// element named local, e.g. "b" for bold, at its schema position
func EnsureRunProperty(rPr *xml.Node, local string, attrs ...string) *xml.Node {
	var out *xml.Node
	if rPr != nil {
		out = rPr.Clone()
	} else {
		out = W("rPr")
	}
	// out may be detached, so children are matched by local name only
	for _, c := range out.Elements() {
		if c.Name.Local == local {
			c.Detach()
		}
	}
	prop := W(local, attrs...)
	rank := rPrRank(local)
	for _, c := range out.Elements() {
		if rPrRank(c.Name.Local) > rank {
			out.InsertBefore(prop, c)
			return out
		}
	}
	out.AppendChild(prop)
	return out
}
