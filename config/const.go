package config

import (
	"strings"
	"time"
)

// AppVersion is the version of the application, set at build time.
var AppVersion = "0.0.0" // -ldflags "-X github.com/dixieflatline76/Vista/config.AppVersion=..."

// AppName is the name of the application.
const AppName = "Vista"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Release repository polled by the update check.
const (
	GitHubOwner = "dixieflatline76"
	GitHubRepo  = AppName
)

// KeyringService is the keyring service name album passwords are stored under.
const KeyringService = AppName

const (
	// DefaultInterval is the default dwell interval of a photo.
	DefaultInterval = 30 * time.Second
	// MinInterval is the shortest accepted dwell interval.
	MinInterval = 5 * time.Second
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// MinTimeout is the shortest accepted HTTP request timeout.
	MinTimeout = 5 * time.Second
	// DefaultRequestRate is the default number of backend requests per second.
	DefaultRequestRate = 5.0
	// DefaultScreenWidth and DefaultScreenHeight size the frame when the display does not.
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080
)
