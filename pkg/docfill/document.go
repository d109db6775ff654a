package docfill

import (
	"fmt"
	"sync"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// Document is an opened DOCX template. The template is never modified, so a
// Document can generate any number of outputs. Calls are serialized.
type Document struct {
	engine     *Engine
	name       string
	pkg        *docxPackage
	bodyPart   string
	stylesPart string
	regions    []*headerFooterRegion
	logger     *Logger

	mu        sync.Mutex
	templates map[string]*xml.Node
	closed    bool
}

func newDocument(e *Engine, name string, data []byte) (*Document, error) {
	pkg, err := openPackage(data)
	if err != nil {
		return nil, NewDocumentError("open", name, err)
	}

	d := &Document{
		engine:     e,
		name:       name,
		pkg:        pkg,
		bodyPart:   defaultBodyPart,
		stylesPart: defaultStylesPart,
		templates:  make(map[string]*xml.Node),
	}
	d.logger = e.logger
	if name != "" {
		d.logger = e.logger.WithField("document", name)
	}

	if pkg.has(packageRelsPart) {
		tree, err := d.template(packageRelsPart)
		if err != nil {
			return nil, NewDocumentError("open", name, err)
		}
		rels := &relationships{tree: tree}
		if target, ok := rels.targetOfType(relTypeOfficeDocument); ok {
			d.bodyPart = resolvePartName("", target)
		}
	}
	if !pkg.has(d.bodyPart) {
		return nil, NewDocumentError("open", name, fmt.Errorf("not a valid DOCX file: missing %s", d.bodyPart))
	}

	body, err := d.template(d.bodyPart)
	if err != nil {
		return nil, NewDocumentError("open", name, err)
	}
	bodyRels := &relationships{}
	if pkg.has(relsPartFor(d.bodyPart)) {
		tree, err := d.template(relsPartFor(d.bodyPart))
		if err != nil {
			return nil, NewDocumentError("open", name, err)
		}
		bodyRels.tree = tree
		if target, ok := bodyRels.targetOfType(relTypeStyles); ok {
			d.stylesPart = resolvePartName(d.bodyPart, target)
		}
	}
	d.regions = findHeaderFooterRegions(body, d.bodyPart, bodyRels)

	d.logger.WithFields(Fields{
		"parts":   len(pkg.parts),
		"regions": len(d.regions),
	}).Debug("Opened template")
	return d, nil
}

// template returns the parsed template tree of a part. Trees are parsed once
// and must not be modified; generation works on clones.
func (d *Document) template(part string) (*xml.Node, error) {
	if t, ok := d.templates[part]; ok {
		return t, nil
	}
	t, err := d.pkg.parsePart(part)
	if err != nil {
		return nil, err
	}
	d.templates[part] = t
	return t, nil
}

// Name returns the path the document was opened from, if any
func (d *Document) Name() string { return d.name }

// Engine returns the engine the document was opened with
func (d *Document) Engine() *Engine { return d.engine }

// PartNames lists every entry of the template package
func (d *Document) PartNames() []string { return d.pkg.partNames() }

// BodyPart returns the package path of the main document part
func (d *Document) BodyPart() string { return d.bodyPart }

// Generate fills the template with page and writes one document to sink
func (d *Document) Generate(page *DataPage, sink ResultSink, instructions ...Instruction) error {
	return d.GeneratePages([]*DataPage{page}, sink, instructions...)
}

// GeneratePages writes one document per page to sink, in order. The first
// error aborts the call; nothing is written for the failing page.
func (d *Document) GeneratePages(pages []*DataPage, sink ResultSink, instructions ...Instruction) error {
	if sink == nil {
		return fmt.Errorf("generate: sink must not be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDocumentClosed
	}

	s := newSettings(d.engine.config, instructions)
	if err := s.validate(); err != nil {
		return err
	}
	globals := newGlobalValues(d.engine.clock(), d.engine.config.localeTag())

	for i, page := range pages {
		if page == nil {
			page = NewDataPage()
		}
		d.logger.WithFields(Fields{
			"page":     i + 1,
			"strategy": s.strategy,
		}).Debug("Generating document")

		out, err := d.newGeneration(s, page, pages, globals).run()
		if err != nil {
			return err
		}
		if err := sink.WriteResult(out); err != nil {
			return NewDocumentError("write result", d.name, err)
		}
	}
	return nil
}

// GenerateBytes generates a single document and returns it
func (d *Document) GenerateBytes(page *DataPage, instructions ...Instruction) ([]byte, error) {
	var sink MemorySink
	if err := d.Generate(page, &sink, instructions...); err != nil {
		return nil, err
	}
	return sink.Results[0], nil
}

func (d *Document) isClosed() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Close releases the parsed template. Generating from a closed document fails.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.templates = nil
	return nil
}
