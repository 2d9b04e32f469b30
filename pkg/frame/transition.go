package frame

import (
	"fmt"
	"image/color"
	"math"
	"time"
)

// Transition is the effect played between two frames.
type Transition string

const (
	TransitionCrossfade   Transition = "crossfade"
	TransitionFadeToBlack Transition = "fade-to-black"
	TransitionNone        Transition = "none"
)

const (
	transitionDuration = time.Second
	frameDelay         = 16 * time.Millisecond
)

// ParseTransition maps a configuration value to a Transition.
func ParseTransition(name string) (Transition, error) {
	switch t := Transition(name); t {
	case TransitionCrossfade, TransitionFadeToBlack, TransitionNone:
		return t, nil
	}
	return "", fmt.Errorf("unknown transition %q", name)
}

// play shows next, replacing the current slot. It reports true when the user quit while it was
// playing.
func (p *Pipeline) play(next Slot) (bool, error) {
	current := p.current
	switch p.opts.Transition {
	case TransitionNone:
		return p.animate(0, func(float64) error {
			return p.renderer.Draw(next, 255)
		})
	case TransitionFadeToBlack:
		half := transitionDuration / 2
		quit, err := p.animate(half, func(progress float64) error {
			if err := p.renderer.Draw(current, 255); err != nil {
				return err
			}
			return p.renderer.Fill(color.RGBA{A: alpha(progress)})
		})
		if quit || err != nil {
			return quit, err
		}
		return p.animate(half, func(progress float64) error {
			if err := p.renderer.Draw(next, 255); err != nil {
				return err
			}
			return p.renderer.Fill(color.RGBA{A: 255 - alpha(progress)})
		})
	default:
		return p.animate(transitionDuration, func(progress float64) error {
			if err := p.renderer.Draw(current, 255); err != nil {
				return err
			}
			return p.renderer.Draw(next, alpha(progress))
		})
	}
}

// animate draws frames until duration has passed on the clock. Progress runs from 0 to 1 and the
// last frame always has progress 1, however slow the frames are.
func (p *Pipeline) animate(duration time.Duration, draw func(progress float64) error) (bool, error) {
	start := p.clock.Now()
	for {
		if p.renderer.PollQuit() {
			return true, nil
		}
		progress := 1.0
		if duration > 0 {
			progress = math.Min(float64(p.clock.Now().Sub(start))/float64(duration), 1)
		}
		if err := draw(progress); err != nil {
			return false, fmt.Errorf("drawing transition: %w", err)
		}
		if err := p.renderer.Present(); err != nil {
			return false, fmt.Errorf("presenting transition: %w", err)
		}
		if progress >= 1 {
			return false, nil
		}
		p.clock.Sleep(frameDelay)
	}
}

func alpha(progress float64) uint8 {
	return uint8(math.Round(progress * 255))
}
