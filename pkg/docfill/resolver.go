package docfill

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// MaxInterceptorDepth bounds the number of nested value interceptor calls made
// to resolve one placeholder occurrence
const MaxInterceptorDepth = 64

const maxSuggestions = 3

// resolver resolves the placeholders of one part
type resolver struct {
	engine   *Engine
	doc      *Document
	part     string
	root     *xml.Node
	strategy ReplaceStrategy
	delims   Delimiters
	globals  globalValues
	caps     Capability
	lowLevel LowLevelHandler
	media    *mediaSet
	logger   *Logger
}

// withStrategy returns a copy of r using strategy s
func (r *resolver) withStrategy(s ReplaceStrategy) *resolver {
	c := *r
	c.strategy = s
	return &c
}

// resolve looks name up in the globals and then in chain, nearest scope first,
// and evaluates value interceptors until a concrete value is reached
func (r *resolver) resolve(chain *scopeChain, name string, current *xml.Node) (DataValue, bool, error) {
	if g, ok := r.globals.lookup(name); ok {
		return DataValue{key: upperCase(name), text: g, tabs: KeepTabs, breaks: KeepLineBreaks}, true, nil
	}

	v, found, ok := chain.lookup(name)
	if !ok {
		return DataValue{}, false, nil
	}

	for depth := 0; ; depth++ {
		ext, _ := v.Extended()
		vi, isInterceptor := ext.(*ValueInterceptor)
		if !isInterceptor {
			return v, true, nil
		}
		if depth >= MaxInterceptorDepth {
			return DataValue{}, false, &FailedInterceptorExecutionError{Key: upperCase(name), Depth: depth}
		}

		ctx := &interceptionContext{
			engine:   r.engine,
			doc:      r.doc,
			key:      upperCase(name),
			scope:    found,
			caps:     r.caps,
			lowLevel: r.lowLevel,
			root:     r.root,
			current:  current,
		}
		next, err := vi.call(ctx)
		ctx.release()
		if err != nil {
			return DataValue{}, false, &FailedInterceptorExecutionError{Key: upperCase(name), Depth: depth + 1, Cause: err}
		}
		if next.IsZero() {
			return DataValue{}, false, &FailedInterceptorExecutionError{Key: upperCase(name), Depth: depth + 1, Cause: ErrNilInterceptorResult}
		}
		v = next
	}
}

// unknown builds the error for a placeholder no scope provides
func (r *resolver) unknown(chain *scopeChain, name string) error {
	key := upperCase(name)
	candidates := chain.keys()
	for g := range r.globals {
		candidates = append(candidates, g)
	}
	return &UnknownPlaceholderError{Key: key, Part: r.part, Suggestions: suggest(key, candidates)}
}

// suggest returns the candidates closest to key
func suggest(key string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(key, candidates)
	// keys that are a shortened form of the candidate are also worth naming
	for _, c := range candidates {
		if c != key && fuzzy.MatchFold(c, key) {
			ranks = append(ranks, fuzzy.Rank{Source: c, Target: c, Distance: len(key) - len(c)})
		}
	}
	sort.Stable(ranks)

	var out []string
	seen := make(map[string]bool)
	for _, rank := range ranks {
		if seen[rank.Target] || rank.Target == key {
			continue
		}
		seen[rank.Target] = true
		out = append(out, rank.Target)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// replacement is the planned substitution of one token
type replacement struct {
	tok   token
	value DataValue
	text  string
	plain bool
}

// processParagraph resolves the placeholders of paragraph p. All tokens are
// resolved left to right first so interceptors run in document order; the
// substitutions are then applied right to left so offsets stay valid.
func (r *resolver) processParagraph(p *xml.Node, chain *scopeChain) error {
	span := render.CollectSpan(p)
	text := span.Text()

	if strings.Contains(text, r.delims.Start) {
		tokens, err := tokenize(text, r.delims)
		if err != nil {
			return WithContext(err, "tokenize paragraph", map[string]interface{}{"part": r.part})
		}

		plans := make([]replacement, 0, len(tokens))
		for _, tok := range tokens {
			if tok.Escape {
				plans = append(plans, replacement{tok: tok, plain: true})
				continue
			}
			v, ok, err := r.resolve(chain, tok.Name, p)
			if err != nil {
				return err
			}
			if !ok {
				switch r.strategy {
				case IgnoreMissing:
					continue
				case RemoveMissing:
					plans = append(plans, replacement{tok: tok, plain: true})
					continue
				default:
					return r.unknown(chain, tok.Name)
				}
			}
			plans = append(plans, replacement{tok: tok, value: v})
		}

		for i := len(plans) - 1; i >= 0; i-- {
			if err := r.apply(span, plans[i]); err != nil {
				return err
			}
		}
		span.Prune()
	}

	return r.processTextBoxes(p, chain)
}

// processTextBoxes handles text boxes anchored in p
func (r *resolver) processTextBoxes(p *xml.Node, chain *scopeChain) error {
	var boxes []*xml.Node
	xml.Walk(p, func(n *xml.Node) xml.WalkResult {
		if n != p && render.IsW(n, "txbxContent") {
			boxes = append(boxes, n)
			return xml.WalkSkip
		}
		return xml.WalkContinue
	})
	for _, box := range boxes {
		if err := r.processContainer(box, chain); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) apply(span *render.Span, plan replacement) error {
	start, end := plan.tok.Start, plan.tok.End
	if plan.plain || plan.value.IsZero() {
		span.Splice(start, end, plan.text)
		return nil
	}

	ext, isExt := plan.value.Extended()
	if !isExt {
		s := plan.value.rendered()
		if !strings.ContainsAny(s, "\n\t") {
			span.Splice(start, end, s)
			return nil
		}
		return r.splitWith(span, start, end, func(rPr *xml.Node) ([]*xml.Node, error) {
			return []*xml.Node{render.NewRun(rPr, render.TextChildren(s)...)}, nil
		})
	}

	switch e := ext.(type) {
	case FormatHint:
		return r.splitWith(span, start, end, func(rPr *xml.Node) ([]*xml.Node, error) {
			var formatted *xml.Node
			switch e.Hint {
			case HintBold:
				formatted = render.EnsureRunProperty(rPr, "b")
			case HintItalic:
				formatted = render.EnsureRunProperty(rPr, "i")
			case HintUnderline:
				formatted = render.EnsureRunProperty(rPr, "u", "val", "single")
			default:
				formatted = rPr
			}
			return []*xml.Node{render.NewRun(formatted, render.TextChildren(e.Text)...)}, nil
		})
	case *ImageValue:
		if r.media == nil {
			span.Splice(start, end, e.AlternateText())
			return nil
		}
		return r.splitWith(span, start, end, func(rPr *xml.Node) ([]*xml.Node, error) {
			relID, docPr, err := r.media.embed(r.part, e)
			if err != nil {
				return nil, err
			}
			drawing, err := xml.ParseFragment(drawingXML(e, relID, docPr))
			if err != nil {
				return nil, err
			}
			return []*xml.Node{render.NewRun(rPr, drawing...)}, nil
		})
	case *ExtensionData:
		if e.Format != FormatDOCX {
			span.Splice(start, end, e.AlternateText())
			return nil
		}
		return r.splitWith(span, start, end, func(*xml.Node) ([]*xml.Node, error) {
			nodes, err := xml.ParseFragment(e.XML)
			if err != nil {
				return nil, fmt.Errorf("extension data for '%s': %w", plan.value.Key(), err)
			}
			return nodes, nil
		})
	default:
		span.Splice(start, end, ext.AlternateText())
		return nil
	}
}

// splitWith removes the token and inserts the nodes produced by build at its place
func (r *resolver) splitWith(span *render.Span, start, end int, build func(rPr *xml.Node) ([]*xml.Node, error)) error {
	pos := span.Splice(start, end, "")
	var buildErr error
	err := render.SplitRun(pos, func(rPr *xml.Node) []*xml.Node {
		nodes, err := build(rPr)
		if err != nil {
			buildErr = err
			return nil
		}
		return nodes
	})
	if buildErr != nil {
		return buildErr
	}
	if err != nil {
		return WithContext(err, "insert content", map[string]interface{}{"part": r.part})
	}
	return nil
}
