package docfill

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

const (
	relationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesPart       = "[Content_Types].xml"
	packageRelsPart        = "_rels/.rels"
	defaultBodyPart        = "word/document.xml"
	defaultStylesPart      = "word/styles.xml"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// docxPackage is the read-only zip container of a template
type docxPackage struct {
	data   []byte
	reader *zip.Reader
	parts  map[string]*zip.File
}

func openPackage(data []byte) (*docxPackage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	pkg := &docxPackage{
		data:   data,
		reader: zr,
		parts:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, file := range zr.File {
		pkg.parts[file.Name] = file
	}

	if !pkg.has(contentTypesPart) {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", contentTypesPart)
	}
	return pkg, nil
}

func (p *docxPackage) has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// readPart returns the uncompressed content of a part
func (p *docxPackage) readPart(name string) ([]byte, error) {
	file, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", name, err)
	}
	return content, nil
}

// partNames returns the entries of the package in sorted order
func (p *docxPackage) partNames() []string {
	names := make([]string, 0, len(p.parts))
	for name := range p.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parsePart parses a part into a tree
func (p *docxPackage) parsePart(name string) (*xml.Node, error) {
	content, err := p.readPart(name)
	if err != nil {
		return nil, err
	}
	tree, err := xml.ParseBytes(content)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", name, err)
	}
	return tree, nil
}

// relsPartFor returns the relationships part of a part,
// e.g. "word/document.xml" -> "word/_rels/document.xml.rels"
func relsPartFor(part string) string {
	dir, base := path.Split(part)
	return dir + "_rels/" + base + ".rels"
}

// resolvePartName resolves a relationship target relative to its source part
func resolvePartName(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return trimLeadingSlash(target)
	}
	return path.Join(path.Dir(source), target)
}

// relativeTarget returns the target of part as seen from source
func relativeTarget(source, part string) string {
	dir := path.Dir(source)
	if dir == "." {
		return part
	}
	if strings.HasPrefix(part, dir+"/") {
		return strings.TrimPrefix(part, dir+"/")
	}
	return "/" + part
}

func trimLeadingSlash(name string) string {
	return strings.TrimPrefix(name, "/")
}

// relationships wraps the tree of a .rels part
type relationships struct {
	tree *xml.Node
}

const emptyRelationships = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<Relationships xmlns="` + relationshipsNamespace + `"></Relationships>`

func newRelationshipsTree() *xml.Node {
	tree, err := xml.ParseBytes([]byte(emptyRelationships))
	if err != nil {
		panic(err)
	}
	return tree
}

func (r *relationships) root() *xml.Node {
	if r == nil || r.tree == nil {
		return nil
	}
	return r.tree.Root()
}

func (r *relationships) elements() []*xml.Node {
	root := r.root()
	if root == nil {
		return nil
	}
	var out []*xml.Node
	for _, el := range root.Elements() {
		if el.Name.Local == "Relationship" {
			out = append(out, el)
		}
	}
	return out
}

// target returns the Target of the relationship with the given id
func (r *relationships) target(id string) (string, bool) {
	for _, el := range r.elements() {
		if v, _ := el.AttrValue("Id"); v == id {
			return el.AttrValue("Target")
		}
	}
	return "", false
}

// targetOfType returns the Target of the first internal relationship of relType
func (r *relationships) targetOfType(relType string) (string, bool) {
	for _, el := range r.elements() {
		if v, _ := el.AttrValue("Type"); v != relType {
			continue
		}
		if mode, _ := el.AttrValue("TargetMode"); mode == "External" {
			continue
		}
		return el.AttrValue("Target")
	}
	return "", false
}

// nextID returns the first unused id of the form rIdN
func (r *relationships) nextID() string {
	maxID := 0
	for _, el := range r.elements() {
		id, _ := el.AttrValue("Id")
		if strings.HasPrefix(id, "rId") {
			if n, err := strconv.Atoi(id[3:]); err == nil && n > maxID {
				maxID = n
			}
		}
	}
	return fmt.Sprintf("rId%d", maxID+1)
}

// add appends a relationship and returns its id
func (r *relationships) add(relType, target string) string {
	id := r.nextID()
	root := r.root()
	root.AppendChild(xml.NewElement(root.Name.Space, "Relationship",
		xml.Attr("", "Id", id),
		xml.Attr("", "Type", relType),
		xml.Attr("", "Target", target),
	))
	return id
}

// ensureDefaultContentType adds a Default entry for ext to a [Content_Types].xml tree
func ensureDefaultContentType(tree *xml.Node, ext, contentType string) {
	root := tree.Root()
	if root == nil {
		return
	}
	var firstOverride *xml.Node
	for _, el := range root.Elements() {
		switch el.Name.Local {
		case "Default":
			if v, _ := el.AttrValue("Extension"); strings.EqualFold(v, ext) {
				return
			}
		case "Override":
			if firstOverride == nil {
				firstOverride = el
			}
		}
	}
	entry := xml.NewElement(root.Name.Space, "Default",
		xml.Attr("", "Extension", ext),
		xml.Attr("", "ContentType", contentType),
	)
	if firstOverride != nil {
		root.InsertBefore(entry, firstOverride)
		return
	}
	root.AppendChild(entry)
}
