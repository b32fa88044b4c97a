package photo

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// MaxStoredBytes is the size above which an uploaded photo gets
	// downscaled before persistence.
	MaxStoredBytes = 1 << 20

	// maxDimension bounds both edges of a downscaled photo.
	maxDimension = 800

	jpegQuality = 80
)

// Shrink returns photo data suitable for storage. Images at or below
// MaxStoredBytes pass through untouched; larger ones are scaled to fit
// within maxDimension on both edges, preserving aspect ratio, and
// re-encoded as JPEG.
// PRE: data is a decodable image when it exceeds MaxStoredBytes
// POST: Returned bytes decode to an image no larger than maxDimension per edge
func Shrink(data []byte) ([]byte, error) {
	if len(data) <= MaxStoredBytes {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	fitted := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return buf.Bytes(), nil
}
