package docfill

import (
	"strings"
)

// ReplaceString fills the placeholders of text with values, applying the
// engine defaults and instructions of type ReplaceStrategy and Delimiters.
// Extended values are replaced by their alternate text. Value interceptors get
// a context without capabilities.
func (e *Engine) ReplaceString(text string, values DataValueMap, instructions ...Instruction) (string, error) {
	s := newSettings(e.config, instructions)
	if err := s.validate(); err != nil {
		return "", err
	}

	var sc scope = emptyScope
	if values != nil {
		if full, ok := values.(scope); ok {
			sc = full
		} else {
			sc = valuesOnly{values}
		}
	}
	chain := newScopeChain(sc)

	r := &resolver{
		engine:   e,
		strategy: s.strategy,
		delims:   s.delims,
		globals:  newGlobalValues(e.clock(), e.config.localeTag()),
		logger:   e.logger,
	}

	tokens, err := tokenize(text, s.delims)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	last := 0
	for _, tok := range tokens {
		b.WriteString(text[last:tok.Start])
		last = tok.End
		if tok.Escape {
			continue
		}

		v, ok, err := r.resolve(chain, tok.Name, nil)
		if err != nil {
			return "", err
		}
		switch {
		case ok:
			if ext, isExt := v.Extended(); isExt {
				b.WriteString(ext.AlternateText())
			} else {
				b.WriteString(v.rendered())
			}
		case s.strategy == IgnoreMissing:
			b.WriteString(text[tok.Start:tok.End])
		case s.strategy == RemoveMissing:
		default:
			return "", r.unknown(chain, tok.Name)
		}
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// valuesOnly lets a plain DataValueMap act as a scope without tables
type valuesOnly struct {
	DataValueMap
}

func (valuesOnly) Table(string) (*DataTable, bool) { return nil, false }
func (valuesOnly) Tables() []*DataTable            { return nil }
