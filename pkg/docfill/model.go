package docfill

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ValueOption controls how tabs and line breaks of a plain value are rendered.
// At most one option per group may be given; omitted groups keep the characters.
type ValueOption int

const (
	// KeepTabs keeps tab characters (rendered as tabs in DOCX)
	KeepTabs ValueOption = iota + 1
	// TabsToFourSpaces replaces every tab with four spaces
	TabsToFourSpaces
	// TabsToSpace replaces every tab with a single space
	TabsToSpace
	// KeepLineBreaks keeps line breaks (rendered as breaks in DOCX)
	KeepLineBreaks
	// LineBreaksToSpace replaces every line break with a single space
	LineBreaksToSpace
)

func (o ValueOption) String() string {
	switch o {
	case KeepTabs:
		return "KeepTabs"
	case TabsToFourSpaces:
		return "TabsToFourSpaces"
	case TabsToSpace:
		return "TabsToSpace"
	case KeepLineBreaks:
		return "KeepLineBreaks"
	case LineBreaksToSpace:
		return "LineBreaksToSpace"
	default:
		return fmt.Sprintf("ValueOption(%d)", int(o))
	}
}

func (o ValueOption) isTab() bool {
	return o >= KeepTabs && o <= TabsToSpace
}

// DataValue is a named value that fills the placeholders with the same key.
// Values are compared by their normalized key only.
type DataValue struct {
	key    string
	text   string
	ext    ExtendedValue
	tabs   ValueOption
	breaks ValueOption
}

// NewDataValue creates a plain text value. The key is upper-cased.
func NewDataValue(key, text string, opts ...ValueOption) (DataValue, error) {
	k, err := NormalizeKey(key)
	if err != nil {
		return DataValue{}, err
	}
	v := DataValue{
		key:    k,
		text:   strings.ReplaceAll(text, "\r\n", "\n"),
		tabs:   KeepTabs,
		breaks: KeepLineBreaks,
	}
	if err := v.applyOptions(opts); err != nil {
		return DataValue{}, err
	}
	return v, nil
}

// NewExtendedValue creates a value carrying an ExtendedValue
func NewExtendedValue(key string, ext ExtendedValue) (DataValue, error) {
	k, err := NormalizeKey(key)
	if err != nil {
		return DataValue{}, err
	}
	if ext == nil {
		return DataValue{}, fmt.Errorf("data value %q: %w", k, ErrNilExtendedValue)
	}
	return DataValue{key: k, ext: ext, tabs: KeepTabs, breaks: KeepLineBreaks}, nil
}

// MustDataValue is like NewDataValue but panics on error
func MustDataValue(key, text string, opts ...ValueOption) DataValue {
	v, err := NewDataValue(key, text, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// NormalizeKey upper-cases key and checks that it is a valid value key
func NormalizeKey(key string) (string, error) {
	if utf8.RuneCountInString(key) < 2 {
		return "", fmt.Errorf("data value %q: %w", key, ErrKeyTooShort)
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("data value %q: %w", key, ErrKeyContainsWhitespace)
	}
	return upperCase(key), nil
}

func upperCase(s string) string {
	// Casers keep state and are not shared
	return cases.Upper(language.Und).String(s)
}

func (v *DataValue) applyOptions(opts []ValueOption) error {
	if len(opts) > 2 {
		return fmt.Errorf("data value %q: %d options given: %w", v.key, len(opts), ErrTooManyValueOptions)
	}
	var tabSet, breakSet bool
	for _, o := range opts {
		switch {
		case o.isTab():
			if tabSet {
				return fmt.Errorf("data value %q: %s: %w", v.key, o, ErrConflictingValueOptions)
			}
			v.tabs, tabSet = o, true
		case o == KeepLineBreaks || o == LineBreaksToSpace:
			if breakSet {
				return fmt.Errorf("data value %q: %s: %w", v.key, o, ErrConflictingValueOptions)
			}
			v.breaks, breakSet = o, true
		default:
			return fmt.Errorf("data value %q: unknown option %s", v.key, o)
		}
	}
	return nil
}

// Key returns the normalized key
func (v DataValue) Key() string { return v.key }

// Text returns the plain value, or the alternate text of an extended value
func (v DataValue) Text() string {
	if v.ext != nil {
		return v.ext.AlternateText()
	}
	return v.text
}

// Extended returns the extended value, if any
func (v DataValue) Extended() (ExtendedValue, bool) {
	return v.ext, v.ext != nil
}

// Options returns the effective tab and line break options
func (v DataValue) Options() (tabs, breaks ValueOption) {
	return v.tabs, v.breaks
}

// IsZero reports whether v was never constructed
func (v DataValue) IsZero() bool { return v.key == "" }

// Equal reports whether v and other have the same key
func (v DataValue) Equal(other DataValue) bool { return v.key == other.key }

func (v DataValue) String() string {
	if v.ext != nil {
		return fmt.Sprintf("%s=<%T>", v.key, v.ext)
	}
	return fmt.Sprintf("%s=%q", v.key, v.text)
}

// rendered returns the plain value after applying the whitespace options
func (v DataValue) rendered() string {
	s := v.text
	switch v.tabs {
	case TabsToFourSpaces:
		s = strings.ReplaceAll(s, "\t", "    ")
	case TabsToSpace:
		s = strings.ReplaceAll(s, "\t", " ")
	}
	if v.breaks == LineBreaksToSpace {
		s = strings.ReplaceAll(s, "\n", " ")
	}
	return s
}
