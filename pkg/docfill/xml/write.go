package xml

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// EscapeText escapes s for use as character data. Runes XML does not allow
// become U+FFFD.
func EscapeText(s string) string {
	return textEscaper.Replace(legalChars(s))
}

// EscapeAttr escapes s for use inside a double-quoted attribute value
func EscapeAttr(s string) string {
	return attrEscaper.Replace(legalChars(s))
}

// isLegalChar reports whether r is in the Char production of XML 1.0
func isLegalChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

func legalChars(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return !isLegalChar(r) }) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isLegalChar(r) {
			return r
		}
		return utf8.RuneError
	}, s)
}

// Write serializes n and its descendants to w. Elements without children are
// written in self-closing form.
func Write(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, n)
	return bw.Flush()
}

// Marshal serializes n to a byte slice
func Marshal(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(w *bufio.Writer, n *Node) {
	switch n.Type {
	case DocumentNode:
		for _, c := range n.Children {
			writeNode(w, c)
		}
	case TextNode:
		w.WriteString(EscapeText(n.Data))
	case CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")
	case ProcInstNode:
		w.WriteString("<?")
		w.WriteString(n.Name.Local)
		if n.Data != "" {
			w.WriteByte(' ')
			w.WriteString(n.Data)
		}
		w.WriteString("?>")
	case DirectiveNode:
		w.WriteString("<!")
		w.WriteString(n.Data)
		w.WriteByte('>')
	case ElementNode:
		name := n.QualifiedName()
		w.WriteByte('<')
		w.WriteString(name)
		for _, a := range n.Attr {
			w.WriteByte(' ')
			if a.Name.Space != "" {
				w.WriteString(a.Name.Space)
				w.WriteByte(':')
			}
			w.WriteString(a.Name.Local)
			w.WriteString(`="`)
			w.WriteString(EscapeAttr(a.Value))
			w.WriteByte('"')
		}
		if len(n.Children) == 0 {
			w.WriteString("/>")
			return
		}
		w.WriteByte('>')
		for _, c := range n.Children {
			writeNode(w, c)
		}
		w.WriteString("</")
		w.WriteString(name)
		w.WriteByte('>')
	}
}
