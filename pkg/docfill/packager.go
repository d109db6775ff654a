package docfill

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// firstDocPrID is the first drawing id used for inserted images. Word only
// requires the ids to be unique; starting high keeps clear of template ids.
const firstDocPrID = 10000

// packageModTime is the modification time of entries added to the package
var packageModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// mediaSet tracks the images embedded by one generation call
type mediaSet struct {
	gen     *generation
	names   map[*ImageValue]string
	used    map[string]bool
	ordered []*ImageValue
	relIDs  map[string]map[*ImageValue]string
	docPr   int
}

func newMediaSet(gen *generation) *mediaSet {
	return &mediaSet{
		gen:    gen,
		names:  make(map[*ImageValue]string),
		used:   make(map[string]bool),
		relIDs: make(map[string]map[*ImageValue]string),
		docPr:  firstDocPrID,
	}
}

// embed registers img for use in owner and returns the relationship id and a
// fresh drawing id
func (m *mediaSet) embed(owner string, img *ImageValue) (string, int, error) {
	name, ok := m.names[img]
	if !ok {
		ext := imageExtension(img.mimeType)
		for n := len(m.ordered) + 1; ; n++ {
			name = fmt.Sprintf("word/media/docfill_image%d%s", n, ext)
			if !m.used[name] && !m.gen.doc.pkg.has(name) {
				break
			}
		}
		m.used[name] = true
		m.names[img] = name
		m.ordered = append(m.ordered, img)
	}

	m.docPr++
	byImage, ok := m.relIDs[owner]
	if !ok {
		byImage = make(map[*ImageValue]string)
		m.relIDs[owner] = byImage
	}
	if id, ok := byImage[img]; ok {
		return id, m.docPr, nil
	}

	rels, err := m.gen.relationships(owner, true)
	if err != nil {
		return "", 0, err
	}
	id := rels.add(relTypeImage, relativeTarget(owner, name))
	byImage[img] = id
	return id, m.docPr, nil
}

// registerContentTypes adds the Default entries needed by the embedded images
func (m *mediaSet) registerContentTypes() error {
	if len(m.ordered) == 0 {
		return nil
	}
	tree, err := m.gen.tree(contentTypesPart)
	if err != nil {
		return err
	}
	for _, img := range m.ordered {
		ext := strings.TrimPrefix(path.Ext(m.names[img]), ".")
		ensureDefaultContentType(tree, ext, img.mimeType)
	}
	return nil
}

// writePackage writes the generated package to w. Parts without a working
// tree are copied raw, so their compressed bytes stay untouched.
func (g *generation) writePackage(w io.Writer) error {
	if err := g.media.registerContentTypes(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	src := g.doc.pkg.reader

	for _, file := range src.File {
		tree, changed := g.trees[file.Name]
		if !changed {
			if err := zw.Copy(file); err != nil {
				return fmt.Errorf("failed to copy %s: %w", file.Name, err)
			}
			continue
		}

		header := file.FileHeader
		header.CRC32 = 0
		header.CompressedSize = 0
		header.UncompressedSize = 0
		header.CompressedSize64 = 0
		header.UncompressedSize64 = 0
		header.Extra = nil
		if header.Method != zip.Store {
			header.Method = zip.Deflate
		}
		if err := writeTree(zw, &header, tree); err != nil {
			return err
		}
	}

	var added []string
	for name := range g.trees {
		if !g.doc.pkg.has(name) {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		if err := writeTree(zw, newFileHeader(name), g.trees[name]); err != nil {
			return err
		}
	}

	for _, img := range g.media.ordered {
		fw, err := zw.CreateHeader(newFileHeader(g.media.names[img]))
		if err != nil {
			return fmt.Errorf("failed to add image: %w", err)
		}
		if _, err := fw.Write(img.data); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
	}

	if src.Comment != "" {
		if err := zw.SetComment(src.Comment); err != nil {
			return err
		}
	}
	return zw.Close()
}

func newFileHeader(name string) *zip.FileHeader {
	return &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: packageModTime,
	}
}

func writeTree(zw *zip.Writer, header *zip.FileHeader, tree *xml.Node) error {
	fw, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", header.Name, err)
	}
	if err := xml.Write(fw, tree); err != nil {
		return fmt.Errorf("failed to write %s: %w", header.Name, err)
	}
	return nil
}
