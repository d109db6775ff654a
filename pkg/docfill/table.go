package docfill

import (
	"strings"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// processContainer resolves every paragraph below n and expands the tables
// anchored to a DataTable visible through chain
func (r *resolver) processContainer(n *xml.Node, chain *scopeChain) error {
	children := n.Elements()
	for _, c := range children {
		var err error
		switch {
		case render.IsW(c, "p"):
			err = r.processParagraph(c, chain)
		case render.IsW(c, "tbl"):
			err = r.processTable(c, chain)
		default:
			err = r.processContainer(c, chain)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// tableAnchor returns the DataTable name a table is bound to through its
// caption, or its description when no caption is set
func tableAnchor(tbl *xml.Node) string {
	tblPr := tbl.Child(render.NamespaceW, "tblPr")
	for _, prop := range []string{"tblCaption", "tblDescription"} {
		if v, ok := render.WVal(tblPr, prop); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (r *resolver) processTable(tbl *xml.Node, chain *scopeChain) error {
	name := tableAnchor(tbl)
	if name == "" {
		return r.processContainer(tbl, chain)
	}
	dt, ok := chain.table(name)
	if !ok {
		r.logger.Debug("No data for table %q, resolving it in the enclosing scope", name)
		return r.processContainer(tbl, chain)
	}
	return r.expandTable(tbl, dt, chain)
}

// expandTable repeats the region of tbl once per row of dt. The region runs
// from the first to the last non-header row holding a placeholder; the rows
// around it are kept once and resolved in the enclosing scope.
func (r *resolver) expandTable(tbl *xml.Node, dt *DataTable, chain *scopeChain) error {
	rows := tableRows(tbl)
	first, last := -1, -1
	for i, tr := range rows {
		if isHeaderRow(tr) || !r.rowHasPlaceholder(tr) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		r.logger.Debug("Table %q has no repeating region", dt.Name())
		return r.processContainer(tbl, chain)
	}

	r.logger.WithFields(Fields{
		"table":  dt.Name(),
		"rows":   dt.Len(),
		"region": last - first + 1,
	}).Debug("Expanding table")

	for _, tr := range rows[:first] {
		if err := r.processContainer(tr, chain); err != nil {
			return err
		}
	}

	region := rows[first : last+1]
	anchor := region[0]
	for _, dataRow := range dt.Rows() {
		rowChain := chain.push(dataRow)
		for _, tr := range region {
			clone := tr.Clone()
			tbl.InsertBefore(clone, anchor)
			if err := r.processContainer(clone, rowChain); err != nil {
				return err
			}
		}
	}
	for _, tr := range region {
		tr.Detach()
	}

	for _, tr := range rows[last+1:] {
		if err := r.processContainer(tr, chain); err != nil {
			return err
		}
	}
	return nil
}

func tableRows(tbl *xml.Node) []*xml.Node {
	var rows []*xml.Node
	for _, c := range tbl.Elements() {
		if render.IsW(c, "tr") {
			rows = append(rows, c)
		}
	}
	return rows
}

// isHeaderRow reports whether tr repeats as a table header
func isHeaderRow(tr *xml.Node) bool {
	trPr := tr.Child(render.NamespaceW, "trPr")
	if trPr == nil || trPr.Child(render.NamespaceW, "tblHeader") == nil {
		return false
	}
	v, ok := render.WVal(trPr, "tblHeader")
	return !ok || (v != "0" && v != "false" && v != "off")
}

// rowHasPlaceholder reports whether a paragraph of tr, nested tables included,
// holds a placeholder. Rows that fail to tokenize count as holding one so the
// error surfaces during resolution.
func (r *resolver) rowHasPlaceholder(tr *xml.Node) bool {
	found := false
	xml.Walk(tr, func(n *xml.Node) xml.WalkResult {
		if !render.IsW(n, "p") {
			return xml.WalkContinue
		}
		text := render.CollectSpan(n).Text()
		if strings.Contains(text, r.delims.Start) {
			tokens, err := tokenize(text, r.delims)
			if err != nil {
				found = true
				return xml.WalkStop
			}
			for _, tok := range tokens {
				if !tok.Escape {
					found = true
					return xml.WalkStop
				}
			}
		}
		return xml.WalkContinue
	})
	return found
}
