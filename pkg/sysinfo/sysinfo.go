// Package sysinfo detects the size of the primary screen.
package sysinfo

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnsupported is returned on platforms without screen detection.
var ErrUnsupported = errors.New("screen size detection is not supported on this platform")

// dimensionsRegex matches "1920x1080", "3456 x 2234" or "2880 x 1864 Retina".
var dimensionsRegex = regexp.MustCompile(`(\d+)\s*x\s*(\d+)`)

func parseDimensions(s string) (int, int, error) {
	m := dimensionsRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("no dimensions in %q", s)
	}
	w, errW := strconv.Atoi(m[1])
	h, errH := strconv.Atoi(m[2])
	if err := errors.Join(errW, errH); err != nil {
		return 0, 0, fmt.Errorf("converting dimensions %q: %w", s, err)
	}
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("empty dimensions %q", s)
	}
	return w, h, nil
}

// parseXdpyinfo reads the first "dimensions:    1920x1080 pixels (508x285 millimeters)" line.
func parseXdpyinfo(out []byte) (int, int, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "dimensions:"); ok {
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				break
			}
			return parseDimensions(fields[0])
		}
	}
	return 0, 0, errors.New("no dimensions line in xdpyinfo output")
}

// system_profiler SPDisplaysDataType -json
type profilerOutput struct {
	GPUs []struct {
		Displays []struct {
			Pixels string `json:"_spdisplays_pixels"`
			Main   string `json:"spdisplays_main"`
		} `json:"spdisplays_ndrvs"`
	} `json:"SPDisplaysDataType"`
}

// parseProfiler returns the main display, or the first one when none is marked main.
func parseProfiler(data []byte) (int, int, error) {
	var out profilerOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, 0, fmt.Errorf("decoding system_profiler output: %w", err)
	}
	first := ""
	for _, gpu := range out.GPUs {
		for _, d := range gpu.Displays {
			if d.Main == "spdisplays_yes" {
				return parseDimensions(d.Pixels)
			}
			if first == "" {
				first = d.Pixels
			}
		}
	}
	if first == "" {
		return 0, 0, errors.New("no displays in system_profiler output")
	}
	return parseDimensions(first)
}
