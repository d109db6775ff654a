package docfill

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
)

// NewQRCode renders content as a square QR code image of size pixels
func NewQRCode(content string, size int) (*ImageValue, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return barcodeImage(code, size, size, content)
}

// NewCode128 renders content as a Code 128 bar code of the given pixel size
func NewCode128(content string, width, height int) (*ImageValue, error) {
	code, err := code128.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bar code: %w", err)
	}
	return barcodeImage(code, width, height, content)
}

func barcodeImage(code barcode.Barcode, width, height int, alt string) (*ImageValue, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid bar code size %dx%d", width, height)
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to scale bar code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode bar code image: %w", err)
	}
	return NewImage(buf.Bytes(), alt)
}
