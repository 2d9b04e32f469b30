//go:build darwin

package sysinfo

import (
	"fmt"
	"os/exec"
)

// ScreenSize returns the pixel size of the main display.
func ScreenSize() (int, int, error) {
	out, err := exec.Command("system_profiler", "SPDisplaysDataType", "-json").Output()
	if err != nil {
		return 0, 0, fmt.Errorf("running system_profiler: %w", err)
	}
	return parseProfiler(out)
}
