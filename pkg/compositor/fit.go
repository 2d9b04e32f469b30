package compositor

import (
	"image"
	"math"
)

// FitSize returns the largest size with the aspect ratio of w x h that fits in maxW x maxH.
// Images are scaled up as well as down; neither side goes below 1.
func FitSize(w, h, maxW, maxH int) (int, int) {
	fw, fh := fitFloat(float64(w), float64(h), float64(maxW), float64(maxH))
	return max(int(math.Round(fw)), 1), max(int(math.Round(fh)), 1)
}

func fitFloat(w, h, maxW, maxH float64) (float64, float64) {
	ratio := math.Min(maxW/w, maxH/h)
	return math.Max(w*ratio, 1), math.Max(h*ratio, 1)
}

// backgroundCrops returns the two regions of the fitted foreground that are stretched over the
// bars left by fitting. The screen is projected onto the foreground; the strips of that
// projection outside the foreground proper, plus one pixel of overlap, become the crops.
func backgroundCrops(fgW, fgH, screenW, screenH int) (image.Rectangle, image.Rectangle) {
	fw, fh := float64(fgW), float64(fgH)

	projW, projH := fitFloat(float64(screenW), float64(screenH), fw, fh)
	x, y := math.Abs(projW-fw)/2, math.Abs(projH-fh)/2

	innerW, innerH := fitFloat(fw, fh, projW, projH)
	wDiff, hDiff := math.Abs(innerW-projW), math.Abs(innerH-projH)

	if wDiff > 0 {
		// Bars on the left and right.
		w := wDiff/2 + 1
		return rect(x, y, w, projH), rect(fw-w, y, w, projH)
	}
	// Bars on the top and bottom.
	h := hDiff/2 + 1
	return rect(x, y, projW, h), rect(x, fh-h, projW, h)
}

func rect(x, y, w, h float64) image.Rectangle {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	return image.Rect(x0, y0, x0+int(math.Ceil(w)), y0+int(math.Ceil(h)))
}
