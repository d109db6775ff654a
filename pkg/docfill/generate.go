package docfill

import (
	"bytes"
	"fmt"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// generation holds the state of generating one page
type generation struct {
	doc      *Document
	settings *settings
	page     *DataPage
	pages    []*DataPage
	globals  globalValues
	trees    map[string]*xml.Node
	rels     map[string]*relationships
	media    *mediaSet
	logger   *Logger
}

func (d *Document) newGeneration(s *settings, page *DataPage, pages []*DataPage, globals globalValues) *generation {
	g := &generation{
		doc:      d,
		settings: s,
		page:     page,
		pages:    pages,
		globals:  globals,
		trees:    make(map[string]*xml.Node),
		rels:     make(map[string]*relationships),
		logger:   d.logger,
	}
	g.media = newMediaSet(g)
	return g
}

// tree returns the working tree of a part, cloning the template tree on first
// use. Every part with a working tree is written back to the package.
func (g *generation) tree(part string) (*xml.Node, error) {
	if t, ok := g.trees[part]; ok {
		return t, nil
	}
	tmpl, err := g.doc.template(part)
	if err != nil {
		return nil, err
	}
	t := tmpl.Clone()
	g.trees[part] = t
	return t, nil
}

// relationships returns the working relationships of owner. With create set a
// missing .rels part is created.
func (g *generation) relationships(owner string, create bool) (*relationships, error) {
	name := relsPartFor(owner)
	if r, ok := g.rels[name]; ok {
		return r, nil
	}
	var r *relationships
	switch {
	case g.doc.pkg.has(name):
		t, err := g.tree(name)
		if err != nil {
			return nil, err
		}
		r = &relationships{tree: t}
	case create:
		t := newRelationshipsTree()
		g.trees[name] = t
		r = &relationships{tree: t}
	default:
		return &relationships{}, nil
	}
	g.rels[name] = r
	return r, nil
}

func (g *generation) resolver(part string, root *xml.Node) *resolver {
	return &resolver{
		engine:   g.doc.engine,
		doc:      g.doc,
		part:     part,
		root:     root,
		strategy: g.settings.strategy,
		delims:   g.settings.delims,
		globals:  g.globals,
		caps:     CapabilityLowLevel | CapabilityXML,
		lowLevel: partAccess{pkg: g.doc.pkg, part: part},
		media:    g.media,
		logger:   g.logger.WithField("part", part),
	}
}

// run executes the phases of a generation call and returns the package bytes
func (g *generation) run() ([]byte, error) {
	if err := g.runInterceptors(BeforeGeneration); err != nil {
		return nil, err
	}

	body := g.doc.bodyPart
	bodyTree, err := g.tree(body)
	if err != nil {
		return nil, err
	}
	if err := g.resolver(body, bodyTree.Root()).processContainer(bodyTree.Root(), newScopeChain(g.page)); err != nil {
		return nil, err
	}

	if err := g.resolveHeadersAndFooters(); err != nil {
		return nil, err
	}

	if err := g.runInterceptors(AfterGeneration); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := g.writePackage(&buf); err != nil {
		return nil, NewDocumentError("packaging", g.doc.name, err)
	}
	return buf.Bytes(), nil
}

func (g *generation) resolveHeadersAndFooters() error {
	for _, region := range g.doc.regions {
		if !g.doc.pkg.has(region.part) {
			g.logger.Warn("Referenced %s part %s is missing", region.kind, region.part)
			continue
		}
		tree, err := g.tree(region.part)
		if err != nil {
			return err
		}

		r := g.resolver(region.part, tree.Root())
		page, in, ok := region.selectPage(g.settings.headerFooter)
		if ok {
			r.logger.Debug("Resolving %s with instruction %s", region.kind, in)
		} else {
			r.logger.Debug("No instruction selected %s, leaving unknown placeholders", region.kind)
			page = nil
			r = r.withStrategy(IgnoreMissing)
		}
		if err := r.processContainer(tree.Root(), newScopeChain(pageScope(page))); err != nil {
			return err
		}
	}
	return nil
}

func pageScope(page *DataPage) scope {
	if page == nil {
		return nil
	}
	return page
}

// runInterceptors runs the document interceptors with the given timing in
// registration order
func (g *generation) runInterceptors(timing Timing) error {
	for _, di := range g.settings.interceptors {
		if di == nil || di.Timing != timing || di.Callback == nil {
			continue
		}
		part := di.partName(g.doc.bodyPart, g.doc.stylesPart)
		logger := g.logger.WithFields(Fields{"part": part, "timing": timing})
		if !g.doc.pkg.has(part) {
			logger.Warn("Skipping interceptor for missing part")
			continue
		}

		data, err := di.dataSet()
		if err != nil {
			return &InterceptorError{Part: part, Timing: timing, Cause: err}
		}
		tree, err := g.tree(part)
		if err != nil {
			return err
		}

		ctx := &DocumentContext{
			interceptor: di,
			part:        part,
			page:        g.page,
			pages:       g.pages,
			data:        data,
			root:        tree,
		}
		logger.Debug("Running interceptor")
		err = di.Callback(ctx)
		ctx.release()
		if err != nil {
			return &InterceptorError{Part: part, Timing: timing, Cause: err}
		}
		if tree.Root() == nil {
			return &InterceptorError{Part: part, Timing: timing, Cause: fmt.Errorf("part has no root element")}
		}
	}
	return nil
}
