package source

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Backend identifies a PhotoSource implementation.
type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendSynology Backend = "synology"
	BackendImmich   Backend = "immich"
)

var (
	synologyLinkRegex = regexp.MustCompile(`^https?://.+/[[:word:]]{2}/sharing/[^/]+/?$`)
	immichLinkRegex   = regexp.MustCompile(`^https?://.+/share/[^/]+/?$`)
)

// ErrUnknownBackend is returned when a share link matches no known backend.
var ErrUnknownBackend = errors.New("unable to detect the backend type from share link, set the backend explicitly")

// ParseBackend maps a backend option to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(s)); b {
	case BackendSynology, BackendImmich:
		return b, nil
	case BackendAuto, "":
		return BackendAuto, nil
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

// Detect picks the backend from the shape of the share link.
func Detect(shareLink string) (Backend, error) {
	switch {
	case synologyLinkRegex.MatchString(shareLink):
		return BackendSynology, nil
	case immichLinkRegex.MatchString(shareLink):
		return BackendImmich, nil
	}
	return "", ErrUnknownBackend
}

// Resolve returns b unless it is BackendAuto, in which case the link decides.
func Resolve(b Backend, shareLink string) (Backend, error) {
	if b != BackendAuto && b != "" {
		return b, nil
	}
	return Detect(shareLink)
}
