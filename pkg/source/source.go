// Package source defines the PhotoSource capability the slideshow pulls photos from and the
// types shared by its backend implementations.
package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dixieflatline76/Vista/pkg/transport"
)

// Photo is the metadata of one album entry.
type Photo struct {
	ID       string
	CacheKey string    // version key some backends require to fetch bytes
	TakenAt  time.Time // zero when unknown
	Location Location
	Filename string
}

// Location is where a photo was taken. Either part may be empty.
type Location struct {
	Area    string
	Country string
}

// String formats the location as "area, country", dropping missing parts.
func (l Location) String() string {
	switch {
	case l.Area != "" && l.Country != "":
		return l.Area + ", " + l.Country
	case l.Area != "":
		return l.Area
	default:
		return l.Country
	}
}

// Caption returns the text shown in the photo info box.
func (p Photo) Caption() string {
	var parts []string
	if !p.TakenAt.IsZero() {
		parts = append(parts, p.TakenAt.Format("2 January 2006"))
	}
	if loc := p.Location.String(); loc != "" {
		parts = append(parts, loc)
	}
	return strings.Join(parts, "  ")
}

// SortBy selects the album ordering key. Ordering is always ascending.
type SortBy int

const (
	SortByTakenTime SortBy = iota
	SortByFilename
)

func (s SortBy) String() string {
	if s == SortByFilename {
		return "filename"
	}
	return "takentime"
}

// Size is the coarse size class requested from the backend.
type Size int

const (
	SizeLarge Size = iota
	SizeMedium
	SizeSmall
)

// ParseSize maps the S/M/L option to a Size.
func ParseSize(s string) (Size, error) {
	switch strings.ToUpper(s) {
	case "S":
		return SizeSmall, nil
	case "M":
		return SizeMedium, nil
	case "L", "":
		return SizeLarge, nil
	}
	return SizeLarge, fmt.Errorf("unknown source size %q", s)
}

// PhotoSource is an album backend.
type PhotoSource interface {
	// Name returns the backend name.
	Name() string
	// IsLoggedIn reports whether a session is established. It never performs network I/O.
	IsLoggedIn() bool
	// Login establishes or validates access to the album. Failures are *LoginError.
	Login(ctx context.Context) error
	// ItemCount returns the number of photos in the album.
	ItemCount(ctx context.Context) (int, error)
	// ListPhotos returns up to limit photos starting at offset, in sortBy order.
	ListPhotos(ctx context.Context, offset, limit int, sortBy SortBy) ([]Photo, error)
	// PhotoMetadata returns the whole album as one ordered sequence.
	PhotoMetadata(ctx context.Context, sortBy SortBy) ([]Photo, error)
	// PhotoBytes fetches the encoded image. A photo removed from the album yields ErrNotFound.
	PhotoBytes(ctx context.Context, photo Photo, size Size) ([]byte, error)
}

// Transport is the HTTP capability backends speak through.
type Transport interface {
	Get(ctx context.Context, rawURL string, query url.Values) (*transport.Response, error)
	Post(ctx context.Context, rawURL string, form url.Values, header http.Header) (*transport.Response, error)
}

// SessionStore reports whether a session exists for an endpoint.
type SessionStore interface {
	HasActiveSession(endpoint *url.URL) bool
}
