package docfill

import (
	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// Timing tells when a DocumentInterceptor runs
type Timing int

const (
	// BeforeGeneration runs before any placeholder is resolved
	BeforeGeneration Timing = iota
	// AfterGeneration runs after the body, headers and footers are resolved
	AfterGeneration
)

func (t Timing) String() string {
	if t == AfterGeneration {
		return "after"
	}
	return "before"
}

// Part aliases accepted by DocumentInterceptor.Part. Any other value is taken
// as the path of a package entry, e.g. "word/footnotes.xml".
const (
	PartBody   = "@body"
	PartStyles = "@styles"
)

// DocumentInterceptor gets mutable access to the XML tree of one part during a
// generation call. Trees are not validated after the callback returns.
type DocumentInterceptor struct {
	Part     string
	Timing   Timing
	Callback func(ctx *DocumentContext) error
	// Data is made available to the callback through DocumentContext.Data
	Data []DataValue
}

// NewDocumentInterceptor creates an interceptor for part
func NewDocumentInterceptor(part string, timing Timing, callback func(ctx *DocumentContext) error, data ...DataValue) *DocumentInterceptor {
	return &DocumentInterceptor{Part: part, Timing: timing, Callback: callback, Data: data}
}

// DocumentContext is passed to a DocumentInterceptor callback. It is only
// valid during the callback.
type DocumentContext struct {
	interceptor *DocumentInterceptor
	part        string
	page        *DataPage
	pages       []*DataPage
	data        *valueSet
	root        *xml.Node
	released    bool
}

// Interceptor returns the interceptor being run
func (c *DocumentContext) Interceptor() *DocumentInterceptor { return c.interceptor }

// PartName returns the resolved package path of the part
func (c *DocumentContext) PartName() string { return c.part }

// Page returns the page being generated
func (c *DocumentContext) Page() *DataPage { return c.page }

// Pages returns every page supplied to the generation call
func (c *DocumentContext) Pages() []*DataPage { return c.pages }

// Data returns the auxiliary values of the interceptor
func (c *DocumentContext) Data() DataValueMap { return c.data }

// Root returns the document node of the part. Changes are written to the output.
func (c *DocumentContext) Root() (*xml.Node, error) {
	if c.released {
		return nil, ErrContextReleased
	}
	return c.root, nil
}

func (c *DocumentContext) release() {
	c.released = true
	c.root = nil
}

// partName maps the aliases to package paths
func (di *DocumentInterceptor) partName(bodyPart, stylesPart string) string {
	switch di.Part {
	case PartBody:
		return bodyPart
	case PartStyles:
		return stylesPart
	default:
		return trimLeadingSlash(di.Part)
	}
}

func (di *DocumentInterceptor) dataSet() (*valueSet, error) {
	set := &valueSet{}
	if err := set.AddValues(di.Data...); err != nil {
		return nil, err
	}
	return set, nil
}
