// Package compositor turns a decoded photo into a screen-sized frame: the photo is fitted to the
// screen and the bars left over are filled from the photo itself.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Background selects how the area around a fitted photo is filled.
type Background string

const (
	// BackgroundBlur stretches darkened, blurred strips of the photo over the bars.
	BackgroundBlur Background = "blur"
	// BackgroundNone leaves black bars.
	BackgroundNone Background = "none"
	// BackgroundCrop fills the screen with the most interesting region of the photo instead of
	// fitting it.
	BackgroundCrop Background = "crop"
)

const (
	blurSigma        = 50
	brightnessOffset = -30
)

// ParseBackground maps a configuration value to a Background.
func ParseBackground(name string) (Background, error) {
	switch b := Background(name); b {
	case BackgroundBlur, BackgroundNone, BackgroundCrop:
		return b, nil
	}
	return "", fmt.Errorf("unknown background %q", name)
}

// Compose returns a screenW x screenH frame showing img.
func Compose(img image.Image, screenW, screenH int, mode Background) *image.NRGBA {
	if mode == BackgroundCrop {
		if filled, err := smartFill(img, screenW, screenH); err == nil {
			return filled
		}
		mode = BackgroundBlur
	}

	b := img.Bounds()
	fgW, fgH := FitSize(b.Dx(), b.Dy(), screenW, screenH)
	foreground := imaging.Resize(img, fgW, fgH, imaging.Lanczos)
	if fgW == screenW && fgH == screenH {
		return foreground
	}

	frame := imaging.New(screenW, screenH, color.NRGBA{A: 255})

	if mode == BackgroundBlur {
		first, second := backgroundCrops(fgW, fgH, screenW, screenH)
		var fills [2]*image.NRGBA
		var g errgroup.Group
		for i, r := range []image.Rectangle{first, second} {
			g.Go(func() error {
				fills[i] = fill(foreground, r, screenW, screenH)
				return nil
			})
		}
		_ = g.Wait()

		frame = imaging.Paste(frame, fills[0], image.Pt(0, 0))
		secondAt := image.Pt(screenW-fills[1].Bounds().Dx(), screenH-fills[1].Bounds().Dy())
		frame = imaging.Paste(frame, fills[1], secondAt)
	}

	at := image.Pt(
		int(math.Round(float64(screenW-fgW)/2)),
		int(math.Round(float64(screenH-fgH)/2)),
	)
	return imaging.Paste(frame, foreground, at)
}

// fill crops r out of the foreground, darkens it and scales it up to the screen.
func fill(foreground *image.NRGBA, r image.Rectangle, screenW, screenH int) *image.NRGBA {
	strip := imaging.Crop(foreground, r)
	strip = imaging.AdjustFunc(strip, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: darken(c.R), G: darken(c.G), B: darken(c.B), A: c.A}
	})
	w, h := FitSize(strip.Bounds().Dx(), strip.Bounds().Dy(), screenW, screenH)
	strip = imaging.Resize(strip, w, h, imaging.NearestNeighbor)
	return imaging.Blur(strip, blurSigma)
}

func darken(v uint8) uint8 {
	return uint8(max(int(v)+brightnessOffset, 0))
}
