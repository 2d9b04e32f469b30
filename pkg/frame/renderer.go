package frame

import (
	"context"
	"image/color"
	"time"

	"github.com/dixieflatline76/Vista/pkg/source"
)

// Slot names one of the two screen-sized textures of a Renderer.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

// Other returns the slot that is not s.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Renderer is a fullscreen surface with two textures. Drawing composes onto a back buffer that
// Present shows.
type Renderer interface {
	// Size returns the screen size in pixels.
	Size() (int, int)
	// UpdateTexture replaces the texture of slot with packed RGB pixels, exactly w*h*3 bytes.
	UpdateTexture(slot Slot, rgb []byte) error
	// Draw blends the texture of slot over the back buffer with the given opacity.
	Draw(slot Slot, alpha uint8) error
	// Fill blends c over the back buffer, using c.A as opacity.
	Fill(c color.RGBA) error
	Present() error
	// PollQuit reports whether the user asked to quit.
	PollQuit() bool
}

// NextPhotoer yields the next photo of the slideshow.
type NextPhotoer interface {
	NextPhoto(ctx context.Context) (source.Photo, []byte, error)
}

// Showing describes what went on screen.
type Showing struct {
	CycleID string
	// Photo is nil when the error screen is shown.
	Photo *source.Photo
	Err   error
	At    time.Time
}

// UpdateInfo describes a newer release.
type UpdateInfo struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// UpdateChecker returns a newer release, or nil when the running version is current.
type UpdateChecker func(ctx context.Context) (*UpdateInfo, error)

// Observer is told about screen changes. Calls come from the pipeline goroutines and must not
// block.
type Observer interface {
	NowShowing(Showing)
	UpdateAvailable(UpdateInfo)
}
