package docfill

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/xml"
)

// emuPerPixel converts pixels at 96 dpi to English Metric Units
const emuPerPixel = 9525

// ImageValue is an image inserted inline at the placeholder. Each ImageValue
// is embedded into the package once, however often it is used.
type ImageValue struct {
	data          []byte
	mimeType      string
	width, height int
	alt           string
	displayWidth  int
	displayHeight int
}

// NewImage creates an image from encoded PNG, JPEG, GIF, BMP, TIFF or WebP data
func NewImage(data []byte, alt string) (*ImageValue, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	mimeType, ok := imageMIMETypes[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no size")
	}
	return &ImageValue{
		data:     data,
		mimeType: mimeType,
		width:    cfg.Width,
		height:   cfg.Height,
		alt:      alt,
	}, nil
}

// NewImageFile reads an image from path. The file name is the default alternate text.
func NewImageFile(path string) (*ImageValue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return NewImage(data, filepath.Base(path))
}

var imageMIMETypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// imageExtension returns the file extension for a given MIME type
func imageExtension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpeg"
	case "image/bmp":
		return ".bmp"
	case "image/gif":
		return ".gif"
	case "image/tiff":
		return ".tiff"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// WithDisplaySize sets the rendered size in pixels at 96 dpi. A zero dimension
// is derived from the other one keeping the aspect ratio.
func (img *ImageValue) WithDisplaySize(width, height int) *ImageValue {
	img.displayWidth, img.displayHeight = width, height
	return img
}

func (img *ImageValue) AlternateText() string { return img.alt }
func (*ImageValue) extendedValue()            {}

// MIMEType returns the media type of the image data
func (img *ImageValue) MIMEType() string { return img.mimeType }

// Size returns the pixel size of the image data
func (img *ImageValue) Size() (width, height int) { return img.width, img.height }

// Data returns the encoded image
func (img *ImageValue) Data() []byte { return img.data }

// displaySize returns the size in EMU
func (img *ImageValue) displaySize() (cx, cy int64) {
	w, h := img.displayWidth, img.displayHeight
	switch {
	case w <= 0 && h <= 0:
		w, h = img.width, img.height
	case w <= 0:
		w = h * img.width / img.height
	case h <= 0:
		h = w * img.height / img.width
	}
	return int64(w) * emuPerPixel, int64(h) * emuPerPixel
}

const drawingTemplate = `<w:drawing>` +
	`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
	`<wp:extent cx="%[1]d" cy="%[2]d"/>` +
	`<wp:docPr id="%[3]d" name="Picture %[3]d" descr="%[4]s"/>` +
	`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" noChangeAspect="1"/></wp:cNvGraphicFramePr>` +
	`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
	`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:nvPicPr><pic:cNvPr id="%[3]d" name="Picture %[3]d" descr="%[4]s"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip r:embed="%[5]s" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
	`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`

// drawingXML returns the run content displaying img through relationship relID
func drawingXML(img *ImageValue, relID string, docPrID int) string {
	cx, cy := img.displaySize()
	return fmt.Sprintf(drawingTemplate, cx, cy, docPrID, xml.EscapeAttr(img.alt), xml.EscapeAttr(relID))
}
