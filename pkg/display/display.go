// Package display shows frames fullscreen in a fyne window.
package display

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/disintegration/imaging"

	"github.com/dixieflatline76/Vista/pkg/frame"
	"github.com/dixieflatline76/Vista/util/log"
)

// Display is a frame.Renderer drawing into a fullscreen window. Frames are composed in software
// at a fixed size and the window scales them to the screen.
type Display struct {
	app    fyne.App
	window fyne.Window
	raster *canvas.Raster
	w, h   int

	textures [2]*image.NRGBA
	back     *image.NRGBA // only touched by the render loop

	mu    sync.Mutex
	front *image.NRGBA // last presented frame
	out   *image.NRGBA // handed to fyne, only touched on the fyne goroutine

	quit atomic.Bool
}

// New creates the window of app. Escape, Q or closing the window asks the slideshow to quit.
func New(app fyne.App, title string, w, h int) *Display {
	d := &Display{
		app:   app,
		w:     w,
		h:     h,
		back:  opaque(w, h),
		front: opaque(w, h),
		out:   opaque(w, h),
	}

	d.raster = canvas.NewRaster(d.frame)
	d.raster.ScaleMode = canvas.ImageScaleSmooth

	d.window = app.NewWindow(title)
	d.window.SetPadded(false)
	d.window.SetContent(d.raster)
	d.window.Resize(fyne.NewSize(float32(w), float32(h)))
	d.window.SetFullScreen(true)
	d.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape || ev.Name == fyne.KeyQ {
			log.Debugf("Quit key %s pressed", ev.Name)
			d.quit.Store(true)
		}
	})
	d.window.SetCloseIntercept(func() {
		d.quit.Store(true)
	})
	return d
}

// ShowAndRun shows the window and runs the fyne event loop until Close. It must be called from
// the main goroutine.
func (d *Display) ShowAndRun() {
	d.window.ShowAndRun()
}

// Close ends the event loop.
func (d *Display) Close() {
	fyne.Do(d.app.Quit)
}

// Size returns the frame size.
func (d *Display) Size() (int, int) {
	return d.w, d.h
}

// UpdateTexture copies rgb into slot.
func (d *Display) UpdateTexture(slot frame.Slot, rgb []byte) error {
	if len(rgb) != d.w*d.h*3 {
		return fmt.Errorf("texture has %d bytes, want %d", len(rgb), d.w*d.h*3)
	}
	i := int(slot)
	if d.textures[i] == nil {
		d.textures[i] = opaque(d.w, d.h)
	}
	pix := d.textures[i].Pix
	for p, q := 0, 0; q < len(rgb); p, q = p+4, q+3 {
		pix[p], pix[p+1], pix[p+2] = rgb[q], rgb[q+1], rgb[q+2]
	}
	return nil
}

// Draw blends slot over the back buffer.
func (d *Display) Draw(slot frame.Slot, alpha uint8) error {
	texture := d.textures[int(slot)]
	if texture == nil {
		return fmt.Errorf("texture %d is empty", slot)
	}
	if alpha > 0 {
		d.back = imaging.Overlay(d.back, texture, image.Point{}, float64(alpha)/255)
	}
	return nil
}

// Fill blends c over the back buffer, using c.A as opacity.
func (d *Display) Fill(c color.RGBA) error {
	if c.A > 0 {
		solid := imaging.New(d.w, d.h, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		d.back = imaging.Overlay(d.back, solid, image.Point{}, float64(c.A)/255)
	}
	return nil
}

// Present publishes the back buffer and asks fyne to repaint.
func (d *Display) Present() error {
	d.publish()
	fyne.Do(d.raster.Refresh)
	return nil
}

// PollQuit reports whether the user asked to quit.
func (d *Display) PollQuit() bool {
	return d.quit.Load()
}

func (d *Display) publish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.front.Pix, d.back.Pix)
}

// frame is the raster generator. fyne scales the result to the window.
func (d *Display) frame(_, _ int) image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.out.Pix, d.front.Pix)
	return d.out
}

func opaque(w, h int) *image.NRGBA {
	return imaging.New(w, h, color.NRGBA{A: 255})
}

var _ frame.Renderer = (*Display)(nil)
