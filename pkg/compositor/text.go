package compositor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	minFontSize    = 20
	fontDivisor    = 30
	paddingDivisor = 72
)

// FontSize is the caption text height for a screen: 1/30 of the smaller side, at least 20 px.
func FontSize(screenW, screenH int) int {
	return max(min(screenW, screenH)/fontDivisor, minFontSize)
}

// Padding is the caption distance from the screen edges.
func Padding(screenW, screenH int) int {
	return min(screenW, screenH) / paddingDivisor
}

// RenderText draws text with a one pixel drop shadow on a transparent image height pixels tall.
func RenderText(text string, fg color.Color, height int) *image.NRGBA {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	glyphH := (metrics.Ascent + metrics.Descent).Ceil()

	d := &font.Drawer{Face: face}
	w := d.MeasureString(text).Ceil()
	canvas := image.NewNRGBA(image.Rect(0, 0, w+1, glyphH+1))

	d.Dst = canvas
	d.Src = image.NewUniform(color.Black)
	d.Dot = fixed.Point26_6{X: fixed.I(1), Y: metrics.Ascent + fixed.I(1)}
	d.DrawString(text)

	d.Src = image.NewUniform(fg)
	d.Dot = fixed.Point26_6{X: 0, Y: metrics.Ascent}
	d.DrawString(text)

	return imaging.Resize(canvas, 0, max(height, 1), imaging.NearestNeighbor)
}

// DrawCaption writes text in the bottom-left corner of img.
func DrawCaption(img *image.NRGBA, text string) *image.NRGBA {
	if text == "" {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	padding := Padding(w, h)
	label := RenderText(text, color.White, FontSize(w, h))

	if maxW := w - 2*padding; label.Bounds().Dx() > maxW && maxW > 0 {
		label = imaging.Resize(label, maxW, 0, imaging.NearestNeighbor)
	}

	at := image.Pt(padding, h-label.Bounds().Dy()-padding)
	return imaging.Overlay(img, label, at, 1.0)
}
