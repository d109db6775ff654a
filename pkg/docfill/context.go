package docfill

import (
	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// Capability is a feature an InterceptionContext may expose
type Capability uint8

const (
	// CapabilityLowLevel exposes the package parts through LowLevel
	CapabilityLowLevel Capability = 1 << iota
	// CapabilityXML exposes the XML tree through XMLRoot and XMLCurrentNode
	CapabilityXML
)

// InterceptionContext is passed to a ValueInterceptor. It is only valid during
// the callback; accessors fail with ErrContextReleased afterwards.
type InterceptionContext interface {
	// Engine returns the engine the document was opened with
	Engine() *Engine
	// Document returns the template being generated, nil for ReplaceString
	Document() *Document
	// Placeholder returns the normalized key being resolved
	Placeholder() string
	// Scope returns the scope the value was found in
	Scope() DataValueMap

	Capabilities() Capability
	HasLowLevelAccess() bool
	HasXMLSupport() bool
	IsXMLBasedDocument() bool

	// LowLevel fails with ErrNoLowLevelSupport if the capability is absent
	LowLevel() (LowLevelHandler, error)
	// XMLRoot returns the root element of the part being resolved. It fails
	// with ErrNoXMLBasedDocument if the capability is absent.
	XMLRoot() (*xml.Node, error)
	// XMLCurrentNode returns the paragraph holding the placeholder
	XMLCurrentNode() (*xml.Node, error)
}

// LowLevelHandler gives read access to the parts of the package being generated
type LowLevelHandler interface {
	// PartNames lists all entries of the package
	PartNames() []string
	// Part returns the raw bytes of a part as found in the template
	Part(name string) ([]byte, error)
	// PartName returns the part currently being resolved
	PartName() string
}

// interceptionContext is the call-scoped implementation of InterceptionContext
type interceptionContext struct {
	engine   *Engine
	doc      *Document
	key      string
	scope    DataValueMap
	caps     Capability
	lowLevel LowLevelHandler
	root     *xml.Node
	current  *xml.Node
	released bool
}

func (c *interceptionContext) Engine() *Engine          { return c.engine }
func (c *interceptionContext) Document() *Document      { return c.doc }
func (c *interceptionContext) Placeholder() string      { return c.key }
func (c *interceptionContext) Scope() DataValueMap      { return c.scope }
func (c *interceptionContext) Capabilities() Capability { return c.caps }

func (c *interceptionContext) HasLowLevelAccess() bool {
	return c.caps&CapabilityLowLevel != 0
}

func (c *interceptionContext) HasXMLSupport() bool {
	return c.caps&CapabilityXML != 0
}

func (c *interceptionContext) IsXMLBasedDocument() bool {
	return c.HasXMLSupport()
}

func (c *interceptionContext) LowLevel() (LowLevelHandler, error) {
	if c.released {
		return nil, ErrContextReleased
	}
	if !c.HasLowLevelAccess() {
		return nil, ErrNoLowLevelSupport
	}
	return c.lowLevel, nil
}

func (c *interceptionContext) XMLRoot() (*xml.Node, error) {
	if c.released {
		return nil, ErrContextReleased
	}
	if !c.HasXMLSupport() {
		return nil, ErrNoXMLBasedDocument
	}
	return c.root, nil
}

func (c *interceptionContext) XMLCurrentNode() (*xml.Node, error) {
	if c.released {
		return nil, ErrContextReleased
	}
	if !c.HasXMLSupport() {
		return nil, ErrNoXMLBasedDocument
	}
	return c.current, nil
}

func (c *interceptionContext) release() {
	c.released = true
	c.root = nil
	c.current = nil
	c.lowLevel = nil
}

// partAccess implements LowLevelHandler over a template package
type partAccess struct {
	pkg  *docxPackage
	part string
}

func (p partAccess) PartNames() []string              { return p.pkg.partNames() }
func (p partAccess) Part(name string) ([]byte, error) { return p.pkg.readPart(name) }
func (p partAccess) PartName() string                 { return p.part }
