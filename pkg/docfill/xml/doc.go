// Package xml provides an order-preserving XML tree for the parts of a DOCX package.
//
// Unmarshalling a part into typed structs drops unknown elements, attribute order
// and namespace prefixes. This package instead keeps every token of a part: elements,
// character data, comments, processing instructions and directives, with the
// namespace prefixes exactly as written.
//
// # Structure Organization
//
//   - node.go: Node type, tree mutation, attribute and namespace helpers
//   - parse.go: Parse and ParseFragment built on encoding/xml RawToken
//   - write.go: deterministic serialization back to bytes
//   - walk.go: pre-order traversal with WalkContinue, WalkSkip and WalkStop
//
// # Namespaces
//
// Element and attribute names keep their literal prefix in Name.Space. The
// namespace URI of a node is resolved on demand through the xmlns declarations of
// its ancestors, so a fragment grafted under a new parent picks up the parent's
// declarations:
//
//	root, _ := xml.Parse(r)
//	for _, p := range root.FindAll(NamespaceW, "p") {
//	    fmt.Println(p.Text())
//	}
//
// # Ownership
//
// A tree is owned by a single caller. Clone produces an independent deep copy;
// nothing in this package shares nodes between trees.
package xml
