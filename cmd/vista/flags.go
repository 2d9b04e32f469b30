package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dixieflatline76/Vista/config"
)

// options are the command line values. Only flags given on the command line override the
// configuration file.
type options struct {
	configPath    string
	storePassword bool

	password           string
	backend            string
	interval           time.Duration
	order              string
	randomStart        bool
	transition         string
	background         string
	rotation           int
	splash             string
	timeout            time.Duration
	sourceSize         string
	disableUpdateCheck bool
	showInfo           bool
	statusAddr         string
	rate               float64
	width              int
	height             int
	debug              bool

	shareLink string
	set       map[string]bool
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	def := config.Default()

	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <share link>\n\nFlags:\n", fs.Name())
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	fs.BoolVar(&opts.storePassword, "store-password", false, "save the password in the OS keyring and exit")
	fs.StringVar(&opts.password, "password", "", "album password")
	fs.StringVar(&opts.backend, "backend", def.Backend, "photo backend: auto, synology or immich")
	fs.DurationVar(&opts.interval, "interval", def.Interval, "time each photo stays on screen")
	fs.StringVar(&opts.order, "order", def.Order, "photo order: by-date, by-name or random")
	fs.BoolVar(&opts.randomStart, "random-start", false, "start each pass through the album at a random photo")
	fs.StringVar(&opts.transition, "transition", def.Display.Transition, "transition: crossfade, fade-to-black or none")
	fs.StringVar(&opts.background, "background", def.Display.Background, "background fill: blur, crop or none")
	fs.IntVar(&opts.rotation, "rotate", 0, "display rotation in degrees clockwise: 0, 90, 180 or 270")
	fs.StringVar(&opts.splash, "splash", "", "image shown while the first photo loads")
	fs.DurationVar(&opts.timeout, "timeout", def.HTTP.Timeout, "HTTP request timeout")
	fs.StringVar(&opts.sourceSize, "source-size", def.SourceSize, "size of the photos fetched: S, M or L")
	fs.BoolVar(&opts.disableUpdateCheck, "disable-update-check", false, "do not check for a newer release")
	fs.BoolVar(&opts.showInfo, "show-info", false, "show the date and place of each photo")
	fs.StringVar(&opts.statusAddr, "status-addr", "", "address of the local status server, off when empty")
	fs.Float64Var(&opts.rate, "rate", def.HTTP.RequestRate, "backend requests per second")
	fs.IntVar(&opts.width, "width", def.Display.Width, "screen width in pixels, detected when 0")
	fs.IntVar(&opts.height, "height", def.Display.Height, "screen height in pixels, detected when 0")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.shareLink = fs.Arg(0)
		opts.set["share-link"] = true
	default:
		return nil, errors.New("expected a single share link")
	}
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, nil
}

// apply copies the flags given on the command line into cfg.
func (o *options) apply(cfg *config.Config) {
	overrides := map[string]func(){
		"share-link":           func() { cfg.ShareLink = o.shareLink },
		"password":             func() { cfg.Password = o.password },
		"backend":              func() { cfg.Backend = o.backend },
		"interval":             func() { cfg.Interval = o.interval },
		"order":                func() { cfg.Order = o.order },
		"random-start":         func() { cfg.RandomStart = o.randomStart },
		"transition":           func() { cfg.Display.Transition = o.transition },
		"background":           func() { cfg.Display.Background = o.background },
		"rotate":               func() { cfg.Display.Rotation = o.rotation },
		"splash":               func() { cfg.Display.Splash = o.splash },
		"timeout":              func() { cfg.HTTP.Timeout = o.timeout },
		"source-size":          func() { cfg.SourceSize = o.sourceSize },
		"disable-update-check": func() { cfg.DisableUpdateCheck = o.disableUpdateCheck },
		"show-info":            func() { cfg.Display.ShowInfo = o.showInfo },
		"status-addr":          func() { cfg.StatusAddr = o.statusAddr },
		"rate":                 func() { cfg.HTTP.RequestRate = o.rate },
		"width":                func() { cfg.Display.Width = o.width },
		"height":               func() { cfg.Display.Height = o.height },
		"debug":                func() { cfg.Debug = o.debug },
	}
	for name, override := range overrides {
		if o.set[name] {
			override()
		}
	}
}

// loadConfig reads the configuration file if one was given and applies the flags on top.
func (o *options) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	o.apply(cfg)
	return cfg, nil
}
