package docfill

import (
	"path"
	"strings"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// HeaderFooterKind tells headers from footers
type HeaderFooterKind int

const (
	Header HeaderFooterKind = iota
	Footer
)

func (k HeaderFooterKind) String() string {
	if k == Footer {
		return "footer"
	}
	return "header"
}

// HeaderFooterDescriptor names one designation of a header or footer region.
// A region is offered under its base name ("header1"), its part path
// ("word/header1.xml") and each section reference type ("default", "first",
// "even") in turn.
type HeaderFooterDescriptor struct {
	Kind HeaderFooterKind
	Name string
	Part string
}

// HeaderFooterInstruction selects the page a header or footer region is
// resolved with. Instructions are asked in registration order and the first
// one to accept any designation of a region wins.
type HeaderFooterInstruction struct {
	name     string
	selectFn func(HeaderFooterDescriptor) (*DataPage, bool)
}

// NewHeaderFooterInstruction creates an instruction from a selection function.
// name is only used for logging.
func NewHeaderFooterInstruction(name string, fn func(HeaderFooterDescriptor) (*DataPage, bool)) *HeaderFooterInstruction {
	return &HeaderFooterInstruction{name: name, selectFn: fn}
}

// HeaderFooterFunc adapts fn to a HeaderFooterInstruction
func HeaderFooterFunc(fn func(HeaderFooterDescriptor) (*DataPage, bool)) *HeaderFooterInstruction {
	return NewHeaderFooterInstruction("func", fn)
}

// Select returns the page for d, if the instruction accepts it
func (h *HeaderFooterInstruction) Select(d HeaderFooterDescriptor) (*DataPage, bool) {
	if h == nil || h.selectFn == nil {
		return nil, false
	}
	page, ok := h.selectFn(d)
	if ok && page == nil {
		page = NewDataPage()
	}
	return page, ok
}

func (h *HeaderFooterInstruction) String() string { return h.name }

// MatchAll accepts every header and footer
func MatchAll(page *DataPage) *HeaderFooterInstruction {
	return NewHeaderFooterInstruction("all", func(HeaderFooterDescriptor) (*DataPage, bool) {
		return page, true
	})
}

// MatchName accepts headers and footers with the given designation, ignoring case
func MatchName(name string, page *DataPage) *HeaderFooterInstruction {
	return NewHeaderFooterInstruction("name:"+name, func(d HeaderFooterDescriptor) (*DataPage, bool) {
		return page, strings.EqualFold(d.Name, name)
	})
}

// HeaderOnly accepts every header
func HeaderOnly(page *DataPage) *HeaderFooterInstruction {
	return NewHeaderFooterInstruction("headers", func(d HeaderFooterDescriptor) (*DataPage, bool) {
		return page, d.Kind == Header
	})
}

// FooterOnly accepts every footer
func FooterOnly(page *DataPage) *HeaderFooterInstruction {
	return NewHeaderFooterInstruction("footers", func(d HeaderFooterDescriptor) (*DataPage, bool) {
		return page, d.Kind == Footer
	})
}

// HeaderByName accepts headers with the given designation, ignoring case
func HeaderByName(name string, page *DataPage) *HeaderFooterInstruction {
	return NewHeaderFooterInstruction("header:"+name, func(d HeaderFooterDescriptor) (*DataPage, bool) {
		return page, d.Kind == Header && strings.EqualFold(d.Name, name)
	})
}

// FooterByName accepts footers with the given designation, ignoring case
func FooterByName(name string, page *DataPage) *HeaderFooterInstruction {
	return NewHeaderFooterInstruction("footer:"+name, func(d HeaderFooterDescriptor) (*DataPage, bool) {
		return page, d.Kind == Footer && strings.EqualFold(d.Name, name)
	})
}

// headerFooterRegion is one header or footer part referenced by the body
type headerFooterRegion struct {
	kind  HeaderFooterKind
	part  string
	types []string
}

// designations lists the names a region is offered under, in query order
func (hf *headerFooterRegion) designations() []HeaderFooterDescriptor {
	base := strings.TrimSuffix(path.Base(hf.part), path.Ext(hf.part))
	names := append([]string{base, hf.part}, hf.types...)
	out := make([]HeaderFooterDescriptor, 0, len(names))
	for _, n := range names {
		out = append(out, HeaderFooterDescriptor{Kind: hf.kind, Name: n, Part: hf.part})
	}
	return out
}

// selectPage queries instructions for the region. Instruction order takes
// precedence over designation order.
func (hf *headerFooterRegion) selectPage(instructions []*HeaderFooterInstruction) (*DataPage, *HeaderFooterInstruction, bool) {
	designations := hf.designations()
	for _, in := range instructions {
		for _, d := range designations {
			if page, ok := in.Select(d); ok {
				return page, in, true
			}
		}
	}
	return nil, nil, false
}

// findHeaderFooterRegions collects the header and footer parts referenced by
// the section properties of body, in document order
func findHeaderFooterRegions(body *xml.Node, bodyPart string, rels *relationships) []*headerFooterRegion {
	var regions []*headerFooterRegion
	byPart := make(map[string]*headerFooterRegion)

	for _, sectPr := range body.FindAll(render.NamespaceW, "sectPr") {
		for _, ref := range sectPr.Elements() {
			var kind HeaderFooterKind
			switch {
			case render.IsW(ref, "headerReference"):
				kind = Header
			case render.IsW(ref, "footerReference"):
				kind = Footer
			default:
				continue
			}
			id, ok := ref.AttrNS(render.NamespaceR, "id")
			if !ok {
				continue
			}
			target, ok := rels.target(id)
			if !ok {
				continue
			}
			part := resolvePartName(bodyPart, target)
			refType, ok := ref.AttrNS(render.NamespaceW, "type")
			if !ok || refType == "" {
				refType = "default"
			}

			region, exists := byPart[part]
			if !exists {
				region = &headerFooterRegion{kind: kind, part: part}
				byPart[part] = region
				regions = append(regions, region)
			}
			if !containsString(region.types, refType) {
				region.types = append(region.types, refType)
			}
		}
	}
	return regions
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
