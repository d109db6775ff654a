package render

import (
	"testing"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

func TestSplitRunInsertsRichContent(t *testing.T) {
	tests := []struct {
		name  string
		inner string
		start int
		end   int
		want  string
	}{
		{
			name:  "placeholder in the middle",
			inner: `<w:r><w:rPr><w:b/></w:rPr><w:t>a ${X} b</w:t></w:r>`,
			start: 2,
			end:   6,
			want: `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">a </w:t></w:r>` +
				`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">1</w:t><w:br/><w:t xml:space="preserve">2</w:t></w:r>` +
				`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve"> b</w:t></w:r>`,
		},
		{
			name:  "placeholder fills the run",
			inner: `<w:r><w:t>${X}</w:t></w:r>`,
			start: 0,
			end:   4,
			want:  `<w:r><w:t xml:space="preserve">1</w:t><w:br/><w:t xml:space="preserve">2</w:t></w:r>`,
		},
		{
			name:  "tail content moves to the second half",
			inner: `<w:r><w:t>${X}</w:t><w:tab/></w:r>`,
			start: 0,
			end:   4,
			want:  `<w:r><w:t xml:space="preserve">1</w:t><w:br/><w:t xml:space="preserve">2</w:t></w:r><w:r><w:tab/></w:r>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseParagraph(t, tt.inner)
			span := CollectSpan(p)
			pos := span.Splice(tt.start, tt.end, "")
			err := SplitRun(pos, func(rPr *xml.Node) []*xml.Node {
				return []*xml.Node{NewRun(rPr, TextChildren("1\n2")...)}
			})
			if err != nil {
				t.Fatalf("SplitRun() error = %v", err)
			}
			span.Prune()
			if got := marshalChildren(t, p); got != tt.want {
				t.Errorf("SplitRun()\n got %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestSplitRunRejectsDetachedText(t *testing.T) {
	if err := SplitRun(Position{Text: W("t")}, nil); err == nil {
		t.Error("SplitRun() expected error for a segment outside a run")
	}
}

func TestTextChildren(t *testing.T) {
	nodes := TextChildren("a\tb\n\nc")
	var names []string
	for _, n := range nodes {
		names = append(names, n.Name.Local)
	}
	want := []string{"t", "tab", "t", "br", "br", "t"}
	if len(names) != len(want) {
		t.Fatalf("TextChildren() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("TextChildren()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
	if got := nodes[0].Text(); got != "a" {
		t.Errorf("first text = %q", got)
	}
	if TextChildren("") != nil {
		t.Error("TextChildren(\"\") should be empty")
	}
}

func TestEnsureRunProperty(t *testing.T) {
	p := parseParagraph(t, `<w:r><w:rPr><w:rFonts w:ascii="Arial"/><w:color w:val="FF0000"/><w:u w:val="double"/></w:rPr><w:t>x</w:t></w:r>`)
	rPr := p.Find(NamespaceW, "rPr")

	tests := []struct {
		name  string
		rPr   *xml.Node
		local string
		attrs []string
		want  string
	}{
		{
			name:  "bold goes after fonts",
			rPr:   rPr,
			local: "b",
			want:  `<w:rPr><w:rFonts w:ascii="Arial"/><w:b/><w:color w:val="FF0000"/><w:u w:val="double"/></w:rPr>`,
		},
		{
			name:  "existing property is replaced",
			rPr:   rPr,
			local: "u",
			attrs: []string{"val", "single"},
			want:  `<w:rPr><w:rFonts w:ascii="Arial"/><w:color w:val="FF0000"/><w:u w:val="single"/></w:rPr>`,
		},
		{
			name:  "new property element",
			rPr:   nil,
			local: "i",
			want:  `<w:rPr><w:i/></w:rPr>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := xml.Marshal(EnsureRunProperty(tt.rPr, tt.local, tt.attrs...))
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.want {
				t.Errorf("EnsureRunProperty()\n got %s\nwant %s", out, tt.want)
			}
		})
	}

	// the source properties are left alone
	if rPr.Child(NamespaceW, "b") != nil {
		t.Error("EnsureRunProperty() mutated its input")
	}
}

func TestWVal(t *testing.T) {
	p := parseParagraph(t, `<w:pPr><w:pStyle w:val="Heading1"/></w:pPr>`)
	pPr := p.Child(NamespaceW, "pPr")
	if v, ok := WVal(pPr, "pStyle"); !ok || v != "Heading1" {
		t.Errorf("WVal() = %q, %v", v, ok)
	}
	if _, ok := WVal(pPr, "jc"); ok {
		t.Error("WVal() found a missing element")
	}
	if _, ok := WVal(nil, "jc"); ok {
		t.Error("WVal(nil) reported ok")
	}
}
