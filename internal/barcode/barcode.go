package barcode

import (
	"bytes"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// RenderPNG encodes a value as a Code 128 barcode PNG, scaled for label
// printing.
func RenderPNG(value string, width, height int) ([]byte, error) {
	bc, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}

	scaled, err := barcode.Scale(bc, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
