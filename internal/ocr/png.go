package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG encodes region for hand-off to tesseract.
func EncodePNG(region image.Image) ([]byte, error) {
	if region == nil {
		return nil, errors.New("encode region: nil image")
	}
	if region.Bounds().Empty() {
		return nil, errors.New("encode region: empty bounds")
	}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, region); err != nil {
		return nil, fmt.Errorf("encode region: %w", err)
	}
	return buf.Bytes(), nil
}
