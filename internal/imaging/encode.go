package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNGBase64 encodes img as a base64 PNG string, the wire format
// the inference service accepts for image payloads.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CropRegion extracts the rectangle (x1,y1)-(x2,y2) from an image,
// clamping it to the image bounds. It fails if the clamped region has
// no area.
func CropRegion(img image.Image, x1, y1, x2, y2 int) (image.Image, error) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) has no overlap with image bounds %v",
			x1, y1, x2, y2, img.Bounds())
	}
	return imaging.Crop(img, r), nil
}
