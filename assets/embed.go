package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/png"
)

// SampleName is the display name of the bundled sample.
const SampleName = "sample_cells.png"

// SampleCellsPNG contains the raw PNG bytes of a synthetic stained-cell image.
//
//go:embed sample_cells.png
var SampleCellsPNG []byte

// SampleCellsImage decodes the embedded PNG into an image.Image.
func SampleCellsImage() (image.Image, error) {
	if len(SampleCellsPNG) == 0 {
		return nil, fmt.Errorf("embedded %s is empty", SampleName)
	}
	img, err := png.Decode(bytes.NewReader(SampleCellsPNG))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", SampleName, err)
	}
	return img, nil
}
