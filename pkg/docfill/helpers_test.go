package docfill

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

const (
	testNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

	testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	testPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	testStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles ` + testNamespaces + `><w:style w:type="paragraph" w:styleId="Normal"/></w:styles>`
)

// fixedClock is Wednesday, 2024-03-06
var fixedClock = func() time.Time { return time.Date(2024, time.March, 6, 10, 30, 0, 0, time.UTC) }

// testDocx describes a template package built in memory
type testDocx struct {
	body    string
	headers map[string]string
	footers map[string]string
	// refs are the header and footer references of the final section
	// properties, written as "header1=default"
	refs  []string
	extra map[string]string
}

func (d testDocx) build(t *testing.T) []byte {
	t.Helper()

	parts := map[string]string{
		contentTypesPart:  testContentTypes,
		packageRelsPart:   testPackageRels,
		"word/styles.xml": testStyles,
	}

	var rels strings.Builder
	rels.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	rels.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	id := 100
	ids := make(map[string]int)
	addPart := func(kind string, parts map[string]string, content map[string]string) {
		for _, name := range sortedKeys(content) {
			id++
			ids[name] = id
			rels.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/%s" Target="%s.xml"/>`, id, kind, name))
			root := "w:hdr"
			if kind == "footer" {
				root = "w:ftr"
			}
			parts["word/"+name+".xml"] = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+`<%s %s>%s</%s>`, root, testNamespaces, content[name], root)
		}
	}
	addPart("header", parts, d.headers)
	addPart("footer", parts, d.footers)
	rels.WriteString(`</Relationships>`)
	parts["word/_rels/document.xml.rels"] = rels.String()

	var sectPr strings.Builder
	for _, ref := range d.refs {
		name, refType, _ := strings.Cut(ref, "=")
		kind := "header"
		if _, ok := d.footers[name]; ok {
			kind = "footer"
		}
		sectPr.WriteString(fmt.Sprintf(`<w:%sReference w:type="%s" r:id="rId%d"/>`, kind, refType, ids[name]))
	}

	parts[defaultBodyPart] = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
		`<w:document %s><w:body>%s<w:sectPr>%s</w:sectPr></w:body></w:document>`, testNamespaces, d.body, sectPr.String())

	for name, content := range d.extra {
		parts[name] = content
	}
	return buildZip(t, parts)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	names := sortedKeys(parts)
	// [Content_Types].xml sorts first already
	for _, name := range names {
		f, err := w.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: time.Date(2023, time.May, 1, 12, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(parts[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// run returns a run-level snippet holding text
func run(text string) string {
	return `<w:r><w:t xml:space="preserve">` + xml.EscapeText(text) + `</w:t></w:r>`
}

// para returns a paragraph with one run per text
func para(texts ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, s := range texts {
		b.WriteString(run(s))
	}
	b.WriteString("</w:p>")
	return b.String()
}

// table returns a table bound to caption with one single-cell row per text
func table(caption string, rows ...string) string {
	var b strings.Builder
	b.WriteString("<w:tbl><w:tblPr>")
	if caption != "" {
		b.WriteString(`<w:tblCaption w:val="` + caption + `"/>`)
	}
	b.WriteString("</w:tblPr>")
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString("</w:tbl>")
	return b.String()
}

// row returns a table row with one cell holding content
func row(content string) string {
	return "<w:tr><w:tc>" + content + "</w:tc></w:tr>"
}

// headerRow returns a row flagged as repeating table header
func headerRow(content string) string {
	return "<w:tr><w:trPr><w:tblHeader/></w:trPr><w:tc>" + content + "</w:tc></w:tr>"
}

func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithConfig(DefaultConfig()),
		WithLogger(NewLogger(io.Discard, LogOff)),
		WithClock(fixedClock),
	}
	return New(append(base, opts...)...)
}

func openTestDoc(t *testing.T, d testDocx) *Document {
	t.Helper()
	doc, err := newTestEngine().OpenBytes(d.build(t))
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	return doc
}

func newPage(t *testing.T, kv ...string) *DataPage {
	t.Helper()
	page := NewDataPage()
	for i := 0; i+1 < len(kv); i += 2 {
		if err := page.AddText(kv[i], kv[i+1]); err != nil {
			t.Fatalf("AddText(%q) error = %v", kv[i], err)
		}
	}
	return page
}

func addRow(t *testing.T, dt *DataTable, kv ...string) *DataTableRow {
	t.Helper()
	r := dt.NewRow()
	for i := 0; i+1 < len(kv); i += 2 {
		if err := r.AddText(kv[i], kv[i+1]); err != nil {
			t.Fatalf("AddText(%q) error = %v", kv[i], err)
		}
	}
	return r
}

func mustTable(t *testing.T, name string) *DataTable {
	t.Helper()
	dt, err := NewDataTable(name)
	if err != nil {
		t.Fatal(err)
	}
	return dt
}

func generate(t *testing.T, doc *Document, page *DataPage, instructions ...Instruction) []byte {
	t.Helper()
	out, err := doc.GenerateBytes(page, instructions...)
	if err != nil {
		t.Fatalf("GenerateBytes() error = %v", err)
	}
	return out
}

func openZip(t *testing.T, docx []byte) *zip.Reader {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		t.Fatalf("output is not a zip file: %v", err)
	}
	return zr
}

func readZipPart(t *testing.T, docx []byte, name string) string {
	t.Helper()
	for _, f := range openZip(t, docx).File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(content)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

// paragraphTexts returns the text of every paragraph of a part
func paragraphTexts(t *testing.T, docx []byte, part string) []string {
	t.Helper()
	tree, err := xml.ParseBytes([]byte(readZipPart(t, docx, part)))
	if err != nil {
		t.Fatalf("output part %s does not parse: %v", part, err)
	}
	var out []string
	for _, p := range tree.FindAll(render.NamespaceW, "p") {
		out = append(out, render.CollectSpan(p).Text())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
