package compositor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ValidRotation reports whether degrees is a supported display rotation.
func ValidRotation(degrees int) error {
	switch degrees {
	case 0, 90, 180, 270:
		return nil
	}
	return fmt.Errorf("unsupported rotation %d", degrees)
}

// LogicalSize is the size frames are composed at for a display rotated clockwise by degrees.
func LogicalSize(screenW, screenH, degrees int) (int, int) {
	if degrees == 90 || degrees == 270 {
		return screenH, screenW
	}
	return screenW, screenH
}

// Rotate turns a logical frame into a physical one for a display rotated clockwise by degrees.
// imaging rotates counter-clockwise.
func Rotate(img *image.NRGBA, degrees int) *image.NRGBA {
	switch degrees {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// RGB packs img into 3 bytes per pixel, row major. Transparent pixels are composed over black.
func RGB(img *image.NRGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := img.Pix[start : start+w*4]
		for x := 0; x < len(row); x += 4 {
			a := uint16(row[x+3])
			if a == 255 {
				out = append(out, row[x], row[x+1], row[x+2])
				continue
			}
			out = append(out,
				uint8(uint16(row[x])*a/255),
				uint8(uint16(row[x+1])*a/255),
				uint8(uint16(row[x+2])*a/255))
		}
	}
	return out
}
