package modelsvc

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
)

// Density model input layout, fixed by the pretrained model: a
// [1,3,768,1024] channel-first RGB tensor with each value the raw
// channel byte divided by 255. No mean/std normalization.
const (
	DensityInputWidth  = 1024
	DensityInputHeight = 768
)

// DensityTensor resizes img to the density model's input size and lays
// it out as a channel-first float32 tensor normalized to [0,1].
//
// The returned slice has length 3*DensityInputHeight*DensityInputWidth
// with all red values first, then green, then blue, each plane in
// row-major order.
func DensityTensor(img image.Image) []float32 {
	resized := transform.Resize(img, DensityInputWidth, DensityInputHeight, transform.Linear)

	plane := DensityInputWidth * DensityInputHeight
	tensor := make([]float32, 3*plane)

	for y := 0; y < DensityInputHeight; y++ {
		row := y * resized.Stride
		for x := 0; x < DensityInputWidth; x++ {
			px := row + x*4
			i := y*DensityInputWidth + x
			tensor[i] = float32(resized.Pix[px]) / 255.0
			tensor[plane+i] = float32(resized.Pix[px+1]) / 255.0
			tensor[2*plane+i] = float32(resized.Pix[px+2]) / 255.0
		}
	}
	return tensor
}

// SampleCrops extracts up to cap person crops from img, one per box, in
// box order. Boxes are clamped to the image bounds; boxes with no area
// after clamping are skipped and do not count against the cap.
//
// The cap is a throughput guard: classifying every person in a dense
// scene would be prohibitively slow, so only the first cap boxes are
// sampled.
func SampleCrops(img image.Image, boxes []estimate.Box, cap int) []image.Image {
	bounds := img.Bounds()

	var crops []image.Image
	for _, b := range boxes {
		if len(crops) >= cap {
			break
		}
		r := image.Rect(b.X1, b.Y1, b.X2, b.Y2).Intersect(bounds)
		if r.Empty() {
			continue
		}
		crops = append(crops, imaging.Crop(img, r))
	}
	return crops
}

// PersonBoxes filters boxes down to those labeled "person".
func PersonBoxes(boxes []estimate.Box) []estimate.Box {
	var people []estimate.Box
	for _, b := range boxes {
		if b.Label == "person" {
			people = append(people, b)
		}
	}
	return people
}
