//go:build linux

package sysinfo

import (
	"fmt"
	"os/exec"
)

// ScreenSize returns the X screen size reported by xdpyinfo.
func ScreenSize() (int, int, error) {
	out, err := exec.Command("xdpyinfo").Output()
	if err != nil {
		return 0, 0, fmt.Errorf("running xdpyinfo: %w", err)
	}
	return parseXdpyinfo(out)
}
