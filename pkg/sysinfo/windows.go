//go:build windows

package sysinfo

import (
	"errors"

	"golang.org/x/sys/windows"
)

var getSystemMetrics = windows.NewLazySystemDLL("user32.dll").NewProc("GetSystemMetrics")

const (
	smCXScreen = 0
	smCYScreen = 1
)

// ScreenSize returns the primary monitor size in pixels.
func ScreenSize() (int, int, error) {
	if err := getSystemMetrics.Find(); err != nil {
		return 0, 0, err
	}
	w, _, _ := getSystemMetrics.Call(smCXScreen)
	h, _, _ := getSystemMetrics.Call(smCYScreen)
	if w == 0 || h == 0 {
		return 0, 0, errors.New("GetSystemMetrics returned no screen size")
	}
	return int(w), int(h), nil
}
