package docfill

import (
	"fmt"
)

// ExtendedValue is a value that is rendered by the document format instead of
// being inserted as plain text. The set of implementations is closed:
// *ImageValue, *ValueInterceptor, FormatHint and *ExtensionData.
type ExtendedValue interface {
	// AlternateText is used wherever the value cannot be rendered natively.
	// It must be cheap and free of side effects.
	AlternateText() string
	extendedValue()
}

// InterceptorFunc computes a value when its placeholder is resolved
type InterceptorFunc func(ctx InterceptionContext) (DataValue, error)

// ValueInterceptor defers the computation of a value to resolution time. The
// callback is invoked for every placeholder occurrence and its result is never
// cached; the result may itself wrap another interceptor.
type ValueInterceptor struct {
	fn  InterceptorFunc
	alt string
}

// NewValueInterceptor wraps fn. alt is returned by AlternateText.
func NewValueInterceptor(fn InterceptorFunc, alt string) *ValueInterceptor {
	return &ValueInterceptor{fn: fn, alt: alt}
}

// Intercept creates a DataValue whose value is computed by fn
func Intercept(key string, fn InterceptorFunc) (DataValue, error) {
	if fn == nil {
		return DataValue{}, fmt.Errorf("data value %q: %w", key, ErrNilExtendedValue)
	}
	return NewExtendedValue(key, NewValueInterceptor(fn, ""))
}

func (vi *ValueInterceptor) AlternateText() string { return vi.alt }
func (*ValueInterceptor) extendedValue()           {}

func (vi *ValueInterceptor) call(ctx InterceptionContext) (DataValue, error) {
	if vi.fn == nil {
		return DataValue{}, ErrNilInterceptorResult
	}
	return vi.fn(ctx)
}

// Hint is a character format applied by FormatHint
type Hint int

const (
	HintBold Hint = iota + 1
	HintItalic
	HintUnderline
)

func (h Hint) String() string {
	switch h {
	case HintBold:
		return "bold"
	case HintItalic:
		return "italic"
	case HintUnderline:
		return "underline"
	default:
		return fmt.Sprintf("Hint(%d)", int(h))
	}
}

// FormatHint renders Text with an additional character format
type FormatHint struct {
	Hint Hint
	Text string
}

func (f FormatHint) AlternateText() string { return f.Text }
func (FormatHint) extendedValue()          {}

// Bold, Italic and Underline are shorthands for FormatHint values
func Bold(text string) FormatHint      { return FormatHint{Hint: HintBold, Text: text} }
func Italic(text string) FormatHint    { return FormatHint{Hint: HintItalic, Text: text} }
func Underline(text string) FormatHint { return FormatHint{Hint: HintUnderline, Text: text} }

// Format identifies the document format an ExtensionData targets
type Format string

const FormatDOCX Format = "docx"

// ExtensionData carries raw format-specific markup. For DOCX, XML is a
// sequence of run-level elements (<w:r>...</w:r>) using the w prefix. Documents
// of another format render Fallback.
type ExtensionData struct {
	Format   Format
	XML      string
	Fallback string
}

func (e *ExtensionData) AlternateText() string { return e.Fallback }
func (*ExtensionData) extendedValue()          {}
