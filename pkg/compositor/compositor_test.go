package compositor

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	grey = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"Exact 2x", 960, 540, 1920, 1080, 1920, 1080},
		{"Square On Wide Screen", 1000, 1000, 1920, 1080, 1080, 1080},
		{"Downscale", 4000, 3000, 800, 600, 800, 600},
		{"Panorama", 6000, 1000, 1920, 1080, 1920, 320},
		{"Never Zero", 1, 1000, 100, 100, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitSize(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestBackgroundCrops(t *testing.T) {
	t.Run("Left And Right", func(t *testing.T) {
		first, second := backgroundCrops(960, 1080, 1920, 1080)
		assert.Equal(t, image.Rect(0, 270, 241, 810), first)
		assert.Equal(t, image.Rect(719, 270, 960, 810), second)
	})

	t.Run("Top And Bottom", func(t *testing.T) {
		first, second := backgroundCrops(1920, 540, 1920, 1080)
		assert.Equal(t, image.Rect(480, 0, 1440, 136), first)
		assert.Equal(t, image.Rect(480, 404, 1440, 540), second)
	})
}

func TestCompose_EqualSizeNeedsNoFill(t *testing.T) {
	src := imaging.New(192, 108, grey)
	src.SetNRGBA(10, 10, red)

	frame := Compose(src, 192, 108, BackgroundBlur)

	require.Equal(t, image.Rect(0, 0, 192, 108), frame.Bounds())
	assert.Equal(t, src.Pix, frame.Pix)
}

func TestCompose_Exact2xFit(t *testing.T) {
	frame := Compose(solid(96, 54, red), 192, 108, BackgroundNone)

	require.Equal(t, image.Rect(0, 0, 192, 108), frame.Bounds())
	for _, p := range []image.Point{{0, 0}, {191, 0}, {0, 107}, {191, 107}, {96, 54}} {
		assert.Equal(t, red, frame.NRGBAAt(p.X, p.Y), "pixel %v", p)
	}
}

func TestCompose_SymmetricBars(t *testing.T) {
	frame := Compose(solid(100, 100, red), 192, 108, BackgroundNone)

	black := color.NRGBA{A: 255}
	assert.Equal(t, black, frame.NRGBAAt(41, 54))
	assert.Equal(t, red, frame.NRGBAAt(42, 54))
	assert.Equal(t, red, frame.NRGBAAt(149, 54))
	assert.Equal(t, black, frame.NRGBAAt(150, 54))
}

func TestCompose_BlurredFill(t *testing.T) {
	frame := Compose(solid(100, 100, grey), 192, 108, BackgroundBlur)

	for _, p := range []image.Point{{5, 54}, {186, 54}, {0, 0}, {191, 107}} {
		c := frame.NRGBAAt(p.X, p.Y)
		assert.InDelta(t, 170, int(c.R), 3, "pixel %v", p)
		assert.Equal(t, uint8(255), c.A)
	}
	assert.Equal(t, grey, frame.NRGBAAt(96, 54))
}

func TestCompose_CropFillsScreen(t *testing.T) {
	frame := Compose(solid(300, 100, grey), 192, 108, BackgroundCrop)

	require.Equal(t, image.Rect(0, 0, 192, 108), frame.Bounds())
	for _, p := range []image.Point{{0, 0}, {191, 107}, {96, 54}} {
		assert.Greater(t, frame.NRGBAAt(p.X, p.Y).R, uint8(100), "pixel %v", p)
	}
}

func TestParseBackground(t *testing.T) {
	for _, name := range []string{"blur", "none", "crop"} {
		b, err := ParseBackground(name)
		require.NoError(t, err)
		assert.Equal(t, Background(name), b)
	}
	_, err := ParseBackground("mirror")
	assert.Error(t, err)
}
