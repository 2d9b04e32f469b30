// Command vista shows the photos of a shared Synology Photos or Immich album full screen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2/app"

	"github.com/dixieflatline76/Vista/config"
	"github.com/dixieflatline76/Vista/pkg/api"
	"github.com/dixieflatline76/Vista/pkg/compositor"
	"github.com/dixieflatline76/Vista/pkg/display"
	"github.com/dixieflatline76/Vista/pkg/frame"
	"github.com/dixieflatline76/Vista/pkg/slideshow"
	"github.com/dixieflatline76/Vista/pkg/source"
	"github.com/dixieflatline76/Vista/pkg/source/immich"
	"github.com/dixieflatline76/Vista/pkg/source/synology"
	"github.com/dixieflatline76/Vista/pkg/sysinfo"
	"github.com/dixieflatline76/Vista/pkg/transport"
	"github.com/dixieflatline76/Vista/util"
	"github.com/dixieflatline76/Vista/util/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log.SetDebug(cfg.Debug)

	if opts.storePassword {
		if err := cfg.StorePassword(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("Password saved to the keyring.")
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := cfg.ResolvePassword(); err != nil {
		log.Printf("Continuing without a stored password: %v", err)
	}

	acquired, err := acquireLock()
	if err != nil {
		log.Printf("Failed to acquire single-instance lock: %v", err)
		return 1
	}
	if !acquired {
		fmt.Fprintf(os.Stderr, "Another instance of %s is already running.\n", config.AppName)
		return 1
	}
	defer releaseLock()

	if err := show(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var loginErr *source.LoginError
		if errors.As(err, &loginErr) {
			fmt.Fprintln(os.Stderr, source.Remediation)
		}
		return 1
	}
	return 0
}

// show runs the slideshow until the window is closed, a signal arrives or a fatal error occurs.
func show(cfg *config.Config) error {
	client, err := transport.NewClient(transport.Options{
		Timeout:           cfg.HTTP.Timeout,
		UserAgent:         cfg.HTTP.UserAgent,
		RequestsPerSecond: cfg.HTTP.RequestRate,
	})
	if err != nil {
		return err
	}

	src, err := newSource(cfg, client)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, src)
	if err != nil {
		return err
	}
	frameOpts, err := frameOptions(cfg)
	if err != nil {
		return err
	}
	if !cfg.DisableUpdateCheck {
		frameOpts.CheckUpdate = updateChecker(client)
	}

	var status *api.Server
	if cfg.StatusAddr != "" {
		status = api.NewServer(cfg.StatusAddr, config.AppVersion)
		frameOpts.Observers = append(frameOpts.Observers, status)
		go func() {
			if err := status.Start(); err != nil {
				log.Printf("Status server stopped: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := status.Stop(ctx); err != nil {
				log.Printf("Failed to stop status server: %v", err)
			}
		}()
	}

	a := app.NewWithID(config.AppName)
	w, h := cfg.Display.ScreenSize(sysinfo.ScreenSize)
	d := display.New(a, config.AppName, w, h)
	pipeline := frame.New(d, engine, frameOpts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("%s %s showing %s album", config.AppName, config.AppVersion, src.Name())
	errc := make(chan error, 1)
	go func() {
		errc <- pipeline.Run(ctx)
		d.Close()
	}()

	// The window owns the main goroutine until the pipeline closes it or the user quits.
	d.ShowAndRun()
	stop()
	return <-errc
}

func newSource(cfg *config.Config, client *transport.Client) (source.PhotoSource, error) {
	backend, err := source.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if backend, err = source.Resolve(backend, cfg.ShareLink); err != nil {
		return nil, err
	}
	if backend == source.BackendImmich {
		src, err := immich.New(cfg.ShareLink, cfg.Password, client)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	src, err := synology.New(cfg.ShareLink, cfg.Password, client, client.Sessions())
	if err != nil {
		return nil, err
	}
	return src, nil
}

func newEngine(cfg *config.Config, src source.PhotoSource) (*slideshow.Engine, error) {
	order, err := slideshow.ParseOrder(cfg.Order)
	if err != nil {
		return nil, err
	}
	size, err := source.ParseSize(cfg.SourceSize)
	if err != nil {
		return nil, err
	}
	return slideshow.NewEngine(src,
		slideshow.WithOrder(order),
		slideshow.WithRandomStart(cfg.RandomStart),
		slideshow.WithSourceSize(size),
	), nil
}

func frameOptions(cfg *config.Config) (frame.Options, error) {
	transition, err := frame.ParseTransition(cfg.Display.Transition)
	if err != nil {
		return frame.Options{}, err
	}
	background, err := compositor.ParseBackground(cfg.Display.Background)
	if err != nil {
		return frame.Options{}, err
	}
	return frame.Options{
		Interval:   cfg.Interval,
		Transition: transition,
		Background: background,
		Rotation:   cfg.Display.Rotation,
		ShowInfo:   cfg.Display.ShowInfo,
		SplashPath: cfg.Display.Splash,
	}, nil
}

// updateChecker adapts the GitHub release check. It reports nil when the running version is
// current.
func updateChecker(client *transport.Client) frame.UpdateChecker {
	return func(ctx context.Context) (*frame.UpdateInfo, error) {
		res, err := util.CheckForUpdates(ctx, client.HTTPClient())
		if err != nil {
			return nil, err
		}
		if !res.UpdateAvailable {
			return nil, nil
		}
		return &frame.UpdateInfo{
			CurrentVersion: res.CurrentVersion,
			LatestVersion:  res.LatestVersion,
			ReleaseURL:     res.ReleaseURL,
		}, nil
	}
}
