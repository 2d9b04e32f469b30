package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// Accepted values for the enumerated options.
var (
	Backends    = []string{"auto", "synology", "immich"}
	Orders      = []string{"by-date", "by-name", "random"}
	Transitions = []string{"crossfade", "fade-to-black", "none"}
	Backgrounds = []string{"blur", "none", "crop"}
	SourceSizes = []string{"S", "M", "L"}
	Rotations   = []int{0, 90, 180, 270}
)

// Config holds the frame configuration.
type Config struct {
	ShareLink   string        `yaml:"share_link"`
	Password    string        `yaml:"password"`
	Backend     string        `yaml:"backend"`
	Interval    time.Duration `yaml:"interval"`
	Order       string        `yaml:"order"`
	RandomStart bool          `yaml:"random_start"`
	Display     DisplayConfig `yaml:"display"`
	HTTP        HTTPConfig    `yaml:"http"`
	SourceSize  string        `yaml:"source_size"`

	DisableUpdateCheck bool   `yaml:"disable_update_check"`
	StatusAddr         string `yaml:"status_addr"`
	Debug              bool   `yaml:"debug"`
}

// DisplayConfig holds the screen related options.
type DisplayConfig struct {
	Transition string `yaml:"transition"`
	Background string `yaml:"background"`
	Rotation   int    `yaml:"rotation"`
	Splash     string `yaml:"splash"`
	ShowInfo   bool   `yaml:"show_info"`
	// Width and Height are zero when the screen size should be detected.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ScreenSize returns the configured screen size. A missing dimension is taken from detect and,
// when detection fails, from the defaults.
func (d DisplayConfig) ScreenSize(detect func() (int, int, error)) (int, int) {
	if d.Width > 0 && d.Height > 0 {
		return d.Width, d.Height
	}
	w, h := DefaultScreenWidth, DefaultScreenHeight
	if detect != nil {
		if dw, dh, err := detect(); err == nil && dw > 0 && dh > 0 {
			w, h = dw, dh
		}
	}
	if d.Width > 0 {
		w = d.Width
	}
	if d.Height > 0 {
		h = d.Height
	}
	return w, h
}

// HTTPConfig holds the transport options.
type HTTPConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	RequestRate float64       `yaml:"request_rate"`
	UserAgent   string        `yaml:"user_agent"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads the YAML file at path. Environment variables (including a .env file in the working
// directory) are expanded before parsing.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Backend == "" {
		c.Backend = "auto"
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Order == "" {
		c.Order = "by-date"
	}
	if c.SourceSize == "" {
		c.SourceSize = "L"
	}
	if c.Display.Transition == "" {
		c.Display.Transition = "crossfade"
	}
	if c.Display.Background == "" {
		c.Display.Background = "blur"
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.RequestRate == 0 {
		c.HTTP.RequestRate = DefaultRequestRate
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = AppName + "/" + AppVersion
	}
}

// Validate reports the first invalid option.
func (c *Config) Validate() error {
	if c.ShareLink == "" {
		return errors.New("share link is required")
	}
	if c.Interval < MinInterval {
		return fmt.Errorf("interval must not be less than %v", MinInterval)
	}
	if c.HTTP.Timeout < MinTimeout {
		return fmt.Errorf("timeout must not be less than %v", MinTimeout)
	}
	if c.HTTP.RequestRate < 0 {
		return errors.New("request rate must not be negative")
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.Display.Width, c.Display.Height)
	}
	checks := []struct {
		name, value string
		allowed     []string
	}{
		{"backend", c.Backend, Backends},
		{"order", c.Order, Orders},
		{"transition", c.Display.Transition, Transitions},
		{"background", c.Display.Background, Backgrounds},
		{"source size", c.SourceSize, SourceSizes},
	}
	for _, check := range checks {
		if !slices.Contains(check.allowed, check.value) {
			return fmt.Errorf("invalid %s %q, expected one of %v", check.name, check.value, check.allowed)
		}
	}
	if !slices.Contains(Rotations, c.Display.Rotation) {
		return fmt.Errorf("invalid rotation %d, expected one of %v", c.Display.Rotation, Rotations)
	}
	return nil
}

// ResolvePassword fills in the album password from the OS keyring when none was configured.
// A missing keyring entry is not an error; albums without protection need no password.
func (c *Config) ResolvePassword() error {
	if c.Password != "" || c.ShareLink == "" {
		return nil
	}
	password, err := keyring.Get(KeyringService, c.ShareLink)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read password from keyring: %w", err)
	}
	c.Password = password
	return nil
}

// StorePassword saves the configured password in the OS keyring for the share link.
func (c *Config) StorePassword() error {
	if c.ShareLink == "" || c.Password == "" {
		return errors.New("share link and password are required to store a password")
	}
	if err := keyring.Set(KeyringService, c.ShareLink, c.Password); err != nil {
		return fmt.Errorf("save password to keyring: %w", err)
	}
	return nil
}
