// Package render provides pure helper functions for placeholder rendering on
// WordprocessingML trees.
//
// Word splits the text of a paragraph into runs whenever formatting, spell
// checking or revision tracking changes, so a single placeholder such as
// ${NAME} may end up spread over three <w:t> elements. The helpers here hide
// that: a Span coalesces the text segments of one paragraph, offsets are taken in
// the concatenated text, and Splice writes a replacement back into the
// underlying nodes, keeping the formatting of the run the range starts in.
//
// # Structure Organization
//
//   - wordml.go: namespace constants and element predicates
//   - span.go: Span collection, splicing and pruning of emptied runs
//   - run.go: run construction and splitting for rich content (breaks, tabs,
//     drawings, formatted text)
//
// # Design Principles
//
// The functions do not keep state and do not import the docfill package, so
// they can be tested on hand-built trees:
//
//	span := render.CollectSpan(paragraph)
//	pos := span.Splice(6, 13, "")
//	err := render.SplitRun(pos, func(rPr *xml.Node) []*xml.Node {
//	    return []*xml.Node{render.NewRun(rPr, render.TextChildren("line 1\nline 2")...)}
//	})
//	span.Prune()
package render
