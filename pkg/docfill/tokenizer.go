package docfill

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Delimiters frame a placeholder, "${" and "}" by default
type Delimiters struct {
	Start string
	End   string
}

// DefaultDelimiters are the delimiters used unless configured otherwise
var DefaultDelimiters = Delimiters{Start: "${", End: "}"}

const escapeChar = '\\'

func (d Delimiters) validate() error {
	if d.Start == "" || d.End == "" {
		return fmt.Errorf("delimiters must not be empty")
	}
	if strings.ContainsRune(d.Start, escapeChar) || strings.ContainsRune(d.End, escapeChar) {
		return fmt.Errorf("delimiters must not contain %q", escapeChar)
	}
	return nil
}

func (d Delimiters) orDefault() Delimiters {
	if d.Start == "" || d.End == "" {
		return DefaultDelimiters
	}
	return d
}

// token is a placeholder or an escape sequence found in a text span.
// Start and End are byte offsets, End exclusive.
type token struct {
	Start  int
	End    int
	Name   string
	Escape bool
}

// tokenize scans text for placeholders. An escaped start delimiter yields an
// escape token covering the backslash only.
func tokenize(text string, d Delimiters) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(text) {
		if text[i] == escapeChar && strings.HasPrefix(text[i+1:], d.Start) {
			tokens = append(tokens, token{Start: i, End: i + 1, Escape: true})
			i += 1 + len(d.Start)
			continue
		}
		if !strings.HasPrefix(text[i:], d.Start) {
			i++
			continue
		}

		tok, err := scanPlaceholder(text, i, d)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		i = tok.End
	}
	return tokens, nil
}

func scanPlaceholder(text string, start int, d Delimiters) (token, error) {
	var name strings.Builder
	j := start + len(d.Start)
	for j < len(text) {
		if strings.HasPrefix(text[j:], d.End) {
			tok := token{Start: start, End: j + len(d.End), Name: strings.TrimSpace(name.String())}
			if err := validateName(tok.Name, text[start:tok.End], start); err != nil {
				return token{}, err
			}
			return tok, nil
		}
		r, size := utf8.DecodeRuneInString(text[j:])
		if r == escapeChar && j+size < len(text) {
			j += size
			r, size = utf8.DecodeRuneInString(text[j:])
		}
		name.WriteRune(r)
		j += size
	}
	return token{}, &MalformedPlaceholderError{
		Message:   fmt.Sprintf("missing closing delimiter %q", d.End),
		Remainder: text[start:],
		Position:  start,
	}
}

func validateName(name, raw string, pos int) error {
	if name == "" {
		return &MalformedPlaceholderError{Message: "empty placeholder name", Remainder: raw, Position: pos}
	}
	// same rule as data value keys, so every key can be referenced
	for _, r := range name {
		if unicode.IsSpace(r) {
			return &MalformedPlaceholderError{
				Message:   fmt.Sprintf("whitespace %q in placeholder name", r),
				Remainder: raw,
				Position:  pos,
			}
		}
	}
	return nil
}
