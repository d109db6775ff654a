package render

import (
	"strings"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// Span is the coalesced text of one paragraph. Segments are the <w:t> elements
// of the paragraph in document order; nested paragraphs (text boxes) are not
// part of the span.
type Span struct {
	Paragraph *xml.Node
	Segments  []*xml.Node

	emptied []*xml.Node
}

// Position addresses a byte offset inside the text of a segment
type Position struct {
	Text   *xml.Node
	Offset int
}

// CollectSpan gathers the text segments of paragraph p
func CollectSpan(p *xml.Node) *Span {
	span := &Span{Paragraph: p}
	xml.Walk(p, func(n *xml.Node) xml.WalkResult {
		if n == p {
			return xml.WalkContinue
		}
		if IsW(n, "p") {
			return xml.WalkSkip
		}
		if IsW(n, "t") {
			span.Segments = append(span.Segments, n)
			return xml.WalkSkip
		}
		return xml.WalkContinue
	})
	return span
}

// Text returns the concatenated text of all segments
func (s *Span) Text() string {
	var b strings.Builder
	for _, seg := range s.Segments {
		b.WriteString(seg.Text())
	}
	return b.String()
}

// Splice replaces the byte range [start, end) of the span text with repl. The
// replacement is written into the segment the range starts in; the covered parts
// of following segments are removed. The returned position marks where the
// replacement begins.
//
// Splicing from the end of the text towards its start keeps earlier offsets
// valid, so callers applying several replacements should go right to left.
func (s *Span) Splice(start, end int, repl string) Position {
	var pos Position
	placed := false
	off := 0

	for _, seg := range s.Segments {
		txt := seg.Text()
		segStart, segEnd := off, off+len(txt)
		off = segEnd

		if !placed {
			if segEnd <= start {
				continue
			}
			inner := start - segStart
			innerEnd := min(end, segEnd) - segStart
			setSegmentText(seg, txt[:inner]+repl+txt[innerEnd:])
			pos = Position{Text: seg, Offset: inner}
			placed = true
			if seg.Text() == "" {
				s.emptied = append(s.emptied, seg)
			}
			continue
		}

		if segStart >= end {
			break
		}
		cut := min(end, segEnd) - segStart
		setSegmentText(seg, txt[cut:])
		if cut == len(txt) {
			s.emptied = append(s.emptied, seg)
		}
	}
	return pos
}

// Prune removes segments emptied by Splice, and the runs left without content
func (s *Span) Prune() {
	for _, seg := range s.emptied {
		if seg.Parent == nil || seg.Text() != "" {
			continue
		}
		run := seg.Parent
		seg.Detach()
		if IsW(run, "r") && !runHasContent(run) {
			run.Detach()
		}
	}
	s.emptied = nil
}

func setSegmentText(t *xml.Node, text string) {
	t.SetText(text)
	t.SetAttr("xml", "space", "preserve")
}

// runHasContent matches by local name so it also works on detached runs
func runHasContent(run *xml.Node) bool {
	for _, c := range run.Children {
		if c.Type == xml.ElementNode && c.Name.Local != "rPr" {
			return true
		}
	}
	return false
}
