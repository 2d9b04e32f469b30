package compositor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
)

// resizer implements the smartcrop.Resizer interface.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

// smartFill crops img to the aspect ratio of the screen around its most interesting region and
// scales the crop to the screen.
func smartFill(img image.Image, screenW, screenH int) (*image.NRGBA, error) {
	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: imaging.Lanczos})
	best, err := analyzer.FindBestCrop(img, screenW, screenH)
	if err != nil {
		return nil, fmt.Errorf("finding best crop: %w", err)
	}
	if best.Empty() {
		return nil, fmt.Errorf("finding best crop: empty crop for %v", img.Bounds())
	}
	return imaging.Resize(imaging.Crop(img, best), screenW, screenH, imaging.Lanczos), nil
}
