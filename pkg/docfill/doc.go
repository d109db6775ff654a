// Package docfill fills Microsoft Word documents (DOCX) with data.
//
// A template is an ordinary DOCX file containing placeholders such as ${NAME}.
// Generating a document replaces every placeholder with the value of the same
// key, repeats table regions once per data row and writes the result to a
// ResultSink. The template itself is never modified, and entries of the package
// that contain no placeholders are copied byte for byte.
//
// # Quick Start
//
//	doc, err := docfill.OpenFile("letter.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page := docfill.NewDataPage()
//	page.AddText("name", "Ada Lovelace")
//
//	out, err := os.Create("out.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer out.Close()
//
//	if err := doc.Generate(page, docfill.WriterSink(out)); err != nil {
//	    log.Fatal(err)
//	}
//
// # Placeholders
//
// A placeholder is the start delimiter, a name and the end delimiter. Names
// consist of letters, digits, '_', '-' and '.', are matched case-insensitively
// and may be surrounded by spaces. A backslash before the start delimiter
// writes the delimiter literally:
//
//	${NAME}          - value of NAME
//	${ order.total } - value of ORDER.TOTAL
//	\${NAME}         - the text "${NAME}"
//
// Word often splits text into several runs; placeholders spread over runs
// are found anyway and take the formatting of the run they start in.
//
// The delimiters can be changed per engine (Config.Delimiters) or per call by
// passing a Delimiters instruction.
//
// # Scopes
//
// Values are looked up in the global placeholders first (CURRENT_DATE,
// AKTUELLES_DATUM, ...), then in the current table row, the enclosing rows and
// finally the page. The first scope that holds the key wins.
//
// What happens to a placeholder without a value depends on the ReplaceStrategy
// instruction: ReplaceAll fails the call, IgnoreMissing keeps the placeholder
// and RemoveMissing deletes it.
//
// # Tables
//
// A table is bound to a DataTable by setting its alternative text title (the
// table caption) to the table name. The rows from the first to the last
// non-header row containing a placeholder are repeated once per data row;
// header rows and the rows around that region are kept once. Tables can be
// nested: a bound table inside a repeated row is looked up in that row first.
//
// # Headers and Footers
//
// Headers and footers are resolved with the page chosen by the first
// HeaderFooterInstruction that accepts them. Without a matching instruction
// only the global placeholders are replaced.
//
// # Extended Values
//
// Besides text a value can hold an ExtendedValue: an image (NewImage,
// NewQRCode, NewCode128), formatted text (Bold, Italic, Underline), raw run
// markup (ExtensionData) or a ValueInterceptor computing the value when the
// placeholder is reached.
//
// # Document Interceptors
//
// A DocumentInterceptor receives the XML tree of a part before or after the
// placeholders are resolved and may change it freely.
package docfill
