// Package frame runs the slideshow on a Renderer. The next frame is fetched and prepared in the
// background while the current one is on screen; frames change with a transition once the dwell
// interval has passed.
package frame

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/dixieflatline76/Vista/asset"
	"github.com/dixieflatline76/Vista/pkg/compositor"
	"github.com/dixieflatline76/Vista/pkg/source"
	"github.com/dixieflatline76/Vista/util/log"
)

const (
	// DefaultInterval is the dwell time of a photo.
	DefaultInterval = 30 * time.Second
	loopSleep       = 100 * time.Millisecond
)

// Options configures a Pipeline.
type Options struct {
	Interval   time.Duration
	Transition Transition
	Background compositor.Background
	// Rotation is the clockwise rotation of the display in degrees.
	Rotation int
	// ShowInfo draws the date and place of each photo.
	ShowInfo bool
	// SplashPath is an image shown instead of the generated welcome screen.
	SplashPath string
	Observers  []Observer
	// CheckUpdate runs once at start when set.
	CheckUpdate UpdateChecker
	Clock       Clock
	Assets      *asset.Manager
}

// Pipeline connects the engine to the renderer.
type Pipeline struct {
	renderer Renderer
	engine   NextPhotoer
	opts     Options
	clock    Clock
	assets   *asset.Manager

	logicalW, logicalH int
	current            Slot
	updateAvailable    atomic.Bool
}

// New returns a pipeline. Zero options take their defaults.
func New(renderer Renderer, engine NextPhotoer, opts Options) *Pipeline {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Transition == "" {
		opts.Transition = TransitionCrossfade
	}
	if opts.Background == "" {
		opts.Background = compositor.BackgroundBlur
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Assets == nil {
		opts.Assets = asset.NewManager()
	}
	w, h := renderer.Size()
	lw, lh := compositor.LogicalSize(w, h, opts.Rotation)
	return &Pipeline{
		renderer: renderer,
		engine:   engine,
		opts:     opts,
		clock:    opts.Clock,
		assets:   opts.Assets,
		logicalW: lw,
		logicalH: lh,
		current:  SlotA,
	}
}

// Run shows the slideshow until the user quits or ctx is done, which both return nil. Login
// failures and an empty album end Run with the error; any other failure puts the error screen
// up and the slideshow carries on.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := p.showWelcome(); err != nil {
		return err
	}
	if p.opts.CheckUpdate != nil {
		go p.checkForUpdate(ctx)
	}

	results := make(chan result, 1)
	go p.fetch(ctx, results)

	// The first photo goes up as soon as it is ready.
	lastChange := p.clock.Now().Add(-p.opts.Interval)

	log.Println("Starting slideshow loop")
	for {
		if p.quit(ctx) {
			return nil
		}
		if p.clock.Now().Sub(lastChange) < p.opts.Interval {
			p.clock.Sleep(loopSleep)
			continue
		}

		var res result
		select {
		case res = <-results:
		default:
			p.clock.Sleep(loopSleep)
			continue
		}

		if res.err != nil {
			switch {
			case ctx.Err() != nil:
				return nil
			case source.IsFatal(res.err):
				return res.err
			}
			log.Printf("[%s] Showing error screen: %v", res.cycleID, res.err)
			res.rgb = p.finish(p.assets.ErrorScreen(p.logicalW, p.logicalH))
		}

		next := p.current.Other()
		if err := p.renderer.UpdateTexture(next, res.rgb); err != nil {
			return fmt.Errorf("updating texture: %w", err)
		}
		quit, err := p.play(next)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		lastChange = p.clock.Now()
		p.current = next
		p.notify(res)

		go p.fetch(ctx, results)
	}
}

func (p *Pipeline) quit(ctx context.Context) bool {
	return ctx.Err() != nil || p.renderer.PollQuit()
}

func (p *Pipeline) showWelcome() error {
	var welcome *image.NRGBA
	if p.opts.SplashPath != "" {
		splash, err := p.assets.LoadSplash(p.opts.SplashPath, p.logicalW, p.logicalH)
		if err != nil {
			log.Printf("Splash screen: %v", err)
		}
		welcome = splash
	}
	if welcome == nil {
		welcome = p.assets.WelcomeScreen(p.logicalW, p.logicalH)
	}

	rgb := compositor.RGB(compositor.Rotate(welcome, p.opts.Rotation))
	if err := p.renderer.UpdateTexture(p.current, rgb); err != nil {
		return fmt.Errorf("updating texture: %w", err)
	}
	if err := p.renderer.Draw(p.current, 255); err != nil {
		return fmt.Errorf("drawing welcome screen: %w", err)
	}
	if err := p.renderer.Present(); err != nil {
		return fmt.Errorf("presenting welcome screen: %w", err)
	}
	return nil
}

func (p *Pipeline) notify(res result) {
	showing := Showing{CycleID: res.cycleID, Photo: res.photo, Err: res.err, At: p.clock.Now()}
	if res.photo != nil {
		log.Printf("[%s] Showing %s (%s)", res.cycleID, res.photo.Filename, res.photo.ID)
	}
	for _, o := range p.opts.Observers {
		o.NowShowing(showing)
	}
}

func (p *Pipeline) checkForUpdate(ctx context.Context) {
	info, err := p.opts.CheckUpdate(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("Update check failed: %v", err)
		}
		return
	}
	if info == nil {
		log.Debug("No update available")
		return
	}
	log.Printf("Update available: %s -> %s (%s)", info.CurrentVersion, info.LatestVersion, info.ReleaseURL)
	p.updateAvailable.Store(true)
	for _, o := range p.opts.Observers {
		o.UpdateAvailable(*info)
	}
}
