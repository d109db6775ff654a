package render

import (
	"strings"
	"testing"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

const wPrefix = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func parseParagraph(t *testing.T, inner string) *xml.Node {
	t.Helper()
	doc, err := xml.ParseBytes([]byte(`<w:body ` + wPrefix + `><w:p>` + inner + `</w:p></w:body>`))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	p := doc.Find(NamespaceW, "p")
	if p == nil {
		t.Fatal("paragraph not found")
	}
	return p
}

func marshalChildren(t *testing.T, n *xml.Node) string {
	t.Helper()
	var b strings.Builder
	for _, c := range n.Children {
		out, err := xml.Marshal(c)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		b.Write(out)
	}
	return b.String()
}

func TestCollectSpan(t *testing.T) {
	p := parseParagraph(t, `<w:r><w:t>Hello </w:t></w:r><w:r><w:t>${NA</w:t></w:r>`+
		`<w:r><w:drawing><w:txbxContent><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:txbxContent></w:drawing></w:r>`+
		`<w:r><w:t>ME}</w:t></w:r>`)

	span := CollectSpan(p)
	if len(span.Segments) != 3 {
		t.Fatalf("Segments = %d, want 3", len(span.Segments))
	}
	if got := span.Text(); got != "Hello ${NAME}" {
		t.Errorf("Text() = %q, want %q", got, "Hello ${NAME}")
	}
}

func TestSpliceAcrossSegments(t *testing.T) {
	p := parseParagraph(t, `<w:r><w:rPr><w:b/></w:rPr><w:t>Hi ${</w:t></w:r>`+
		`<w:r><w:t>NA</w:t></w:r><w:r><w:rPr><w:i/></w:rPr><w:t>ME}!</w:t></w:r>`)

	span := CollectSpan(p)
	pos := span.Splice(3, 10, "Ada")
	if pos.Text != span.Segments[0] || pos.Offset != 3 {
		t.Errorf("Splice() position = %v/%d, want first segment/3", pos.Text, pos.Offset)
	}
	if got := span.Text(); got != "Hi Ada!" {
		t.Errorf("Text() = %q, want %q", got, "Hi Ada!")
	}

	span.Prune()
	got := marshalChildren(t, p)
	want := `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Hi Ada</w:t></w:r>` +
		`<w:r><w:rPr><w:i/></w:rPr><w:t xml:space="preserve">!</w:t></w:r>`
	if got != want {
		t.Errorf("after Prune()\n got %s\nwant %s", got, want)
	}
}

func TestSpliceRightToLeft(t *testing.T) {
	p := parseParagraph(t, `<w:r><w:t>${A} and ${B}</w:t></w:r>`)
	span := CollectSpan(p)

	// offsets taken from the original text stay valid when applied in reverse
	span.Splice(9, 13, "second")
	span.Splice(0, 4, "first")
	if got := span.Text(); got != "first and second" {
		t.Errorf("Text() = %q", got)
	}
}

func TestPruneKeepsRunsWithOtherContent(t *testing.T) {
	p := parseParagraph(t, `<w:r><w:t>${X}</w:t><w:tab/></w:r><w:r><w:t>${Y}</w:t></w:r>`)
	span := CollectSpan(p)
	span.Splice(4, 8, "")
	span.Splice(0, 4, "")
	span.Prune()

	if got := marshalChildren(t, p); got != `<w:r><w:tab/></w:r>` {
		t.Errorf("after Prune() = %s", got)
	}
}
