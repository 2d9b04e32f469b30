package asset

import (
	"embed"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/dixieflatline76/Vista/config"
	"github.com/dixieflatline76/Vista/pkg/compositor"
	"github.com/dixieflatline76/Vista/util/log"
)

//go:embed text/*
var assets embed.FS

var (
	background = color.NRGBA{R: 24, G: 24, B: 28, A: 255}
	titleColor = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	errorColor = color.NRGBA{R: 230, G: 120, B: 100, A: 255}
	badgeColor = color.NRGBA{R: 255, G: 214, B: 90, A: 255}
)

// Manager builds the screens shown instead of photos.
type Manager struct{}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{}
}

// GetText loads and returns embedded text asset by name.
func (am *Manager) GetText(name string) (string, error) {
	textBytes, err := assets.ReadFile("text/" + name)
	if err != nil {
		log.Println("Error loading text:", err)
		return "", err
	}
	return strings.TrimSpace(string(textBytes)), nil
}

// WelcomeScreen is shown while the first photo loads.
func (am *Manager) WelcomeScreen(w, h int) *image.NRGBA {
	return am.screen(w, h, "welcome.txt", titleColor)
}

// ErrorScreen replaces a photo that could not be shown.
func (am *Manager) ErrorScreen(w, h int) *image.NRGBA {
	return am.screen(w, h, "error.txt", errorColor)
}

func (am *Manager) screen(w, h int, textName string, c color.Color) *image.NRGBA {
	img := imaging.New(w, h, background)
	size := compositor.FontSize(w, h)
	img = drawAt(img, compositor.RenderText(config.AppName, titleColor, size*2), w/2, h/2-size*2)

	message, err := am.GetText(textName)
	if err != nil {
		return img
	}
	return drawAt(img, compositor.RenderText(message, c, size), w/2, h/2+size)
}

// DrawUpdateBadge marks a frame with a small notice in the top-right corner.
func (am *Manager) DrawUpdateBadge(img *image.NRGBA) *image.NRGBA {
	message, err := am.GetText("update.txt")
	if err != nil {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	padding := compositor.Padding(w, h)
	badge := compositor.RenderText(message, badgeColor, compositor.FontSize(w, h)*2/3)
	if maxW := w - 2*padding; badge.Bounds().Dx() > maxW && maxW > 0 {
		badge = imaging.Resize(badge, maxW, 0, imaging.NearestNeighbor)
	}
	at := image.Pt(w-badge.Bounds().Dx()-padding, padding)
	return imaging.Overlay(img, badge, at, 1.0)
}

// LoadSplash opens a user supplied splash image stretched to w x h.
func (am *Manager) LoadSplash(path string, w, h int) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("opening splash %s: %w", path, err)
	}
	return imaging.Resize(img, w, h, imaging.NearestNeighbor), nil
}

// drawAt draws label centred horizontally on cx with its top at y.
func drawAt(img *image.NRGBA, label *image.NRGBA, cx, y int) *image.NRGBA {
	at := image.Pt(cx-label.Bounds().Dx()/2, y)
	return imaging.Overlay(img, label, at, 1.0)
}
