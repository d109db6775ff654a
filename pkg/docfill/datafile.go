package docfill

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadPage reads a page from a YAML (or JSON) document. The top level must be
// a mapping:
//
//	name: Ada Lovelace        # plain value
//	notes: null               # empty value
//	items:                    # table, one mapping per row
//	  - product: Widget
//	    price: "19.99"
//	logo: {image: logo.png, alt: Logo, width: 120}
//	ticket: {qrcode: "https://example.com/t/42", size: 200}
//	serial: {code128: "A-1042", width: 300, height: 80}
//	total: {bold: "39.98"}
//
// Relative image paths are resolved against the working directory.
func LoadPage(r io.Reader) (*DataPage, error) {
	return loadPage(r, "")
}

// LoadPageFile reads a page from a file. Relative image paths are resolved
// against the directory of the file.
func LoadPageFile(path string) (*DataPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()
	return loadPage(f, filepath.Dir(path))
}

func loadPage(r io.Reader, baseDir string) (*DataPage, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewDataPage(), nil
		}
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}

	root := resolveAlias(&doc)
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = resolveAlias(root.Content[0])
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return NewDataPage(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("data file line %d: top level must be a mapping", root.Line)
	}

	page := NewDataPage()
	loader := &pageLoader{baseDir: baseDir, errs: NewMultiError()}
	loader.fill(&page.valueSet, &page.tableSet, root)
	if err := loader.errs.Err(); err != nil {
		return nil, err
	}
	return page, nil
}

type pageLoader struct {
	baseDir string
	errs    *MultiError
}

func (l *pageLoader) fail(n *yaml.Node, key, format string, args ...interface{}) {
	l.errs.Add(fmt.Errorf("data file line %d, key %q: %s", n.Line, key, fmt.Sprintf(format, args...)))
}

func (l *pageLoader) fill(values *valueSet, tables *tableSet, m *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		node := resolveAlias(m.Content[i+1])

		switch node.Kind {
		case yaml.ScalarNode:
			text := node.Value
			if node.Tag == "!!null" {
				text = ""
			}
			l.errs.Add(values.AddText(key, text))
		case yaml.SequenceNode:
			l.table(tables, key, node)
		case yaml.MappingNode:
			ext, err := l.extended(node)
			if err != nil {
				l.fail(node, key, "%v", err)
				continue
			}
			l.errs.Add(values.AddExtended(key, ext))
		default:
			l.fail(node, key, "unsupported value")
		}
	}
}

func (l *pageLoader) table(tables *tableSet, key string, seq *yaml.Node) {
	dt, err := NewDataTable(key)
	if err != nil {
		l.fail(seq, key, "%v", err)
		return
	}
	for _, item := range seq.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			l.fail(item, key, "table rows must be mappings")
			continue
		}
		row := dt.NewRow()
		l.fill(&row.valueSet, &row.tableSet, item)
	}
	l.errs.Add(tables.AddTable(dt))
}

// extended builds an extended value from a mapping with one of the keys
// image, qrcode, code128, bold, italic or underline
func (l *pageLoader) extended(m *yaml.Node) (ExtendedValue, error) {
	fields := make(map[string]string)
	for i := 0; i+1 < len(m.Content); i += 2 {
		v := resolveAlias(m.Content[i+1])
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("field %q must be a scalar", m.Content[i].Value)
		}
		fields[m.Content[i].Value] = v.Value
	}

	switch {
	case fields["image"] != "":
		path := fields["image"]
		if !filepath.IsAbs(path) && l.baseDir != "" {
			path = filepath.Join(l.baseDir, path)
		}
		img, err := NewImageFile(path)
		if err != nil {
			return nil, err
		}
		if alt, ok := fields["alt"]; ok {
			img.alt = alt
		}
		w, h, err := dimensions(fields, 0, 0)
		if err != nil {
			return nil, err
		}
		return img.WithDisplaySize(w, h), nil
	case fields["qrcode"] != "":
		size, _, err := dimensions(map[string]string{"width": fields["size"]}, 200, 0)
		if err != nil {
			return nil, err
		}
		return NewQRCode(fields["qrcode"], size)
	case fields["code128"] != "":
		w, h, err := dimensions(fields, 300, 80)
		if err != nil {
			return nil, err
		}
		return NewCode128(fields["code128"], w, h)
	}

	for _, h := range []Hint{HintBold, HintItalic, HintUnderline} {
		if text, ok := fields[h.String()]; ok {
			return FormatHint{Hint: h, Text: text}, nil
		}
	}
	return nil, fmt.Errorf("mapping needs one of image, qrcode, code128, bold, italic or underline")
}

func dimensions(fields map[string]string, defW, defH int) (int, int, error) {
	parse := func(name string, def int) (int, error) {
		s, ok := fields[name]
		if !ok || s == "" {
			return def, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid %s %q", name, s)
		}
		return n, nil
	}
	w, err := parse("width", defW)
	if err != nil {
		return 0, 0, err
	}
	h, err := parse("height", defH)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
