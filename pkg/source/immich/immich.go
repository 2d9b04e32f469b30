// Package immich implements the Immich shared link backend.
package immich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"

	"github.com/dixieflatline76/Vista/pkg/source"
	"github.com/dixieflatline76/Vista/pkg/transport"
)

var errNotLoggedIn = errors.New("not logged in")

// Client talks to the Immich API through a shared link key. Immich has no session; logging in
// resolves the album behind the link.
//
// The album listing is one call returning every asset, so the sorted list is cached and served
// in pages. The cache is refreshed on ItemCount and on every request for the first page, which
// is where a new slideshow cycle starts.
type Client struct {
	transport source.Transport
	apiURL    *url.URL
	key       string
	password  string

	mu      sync.Mutex
	albumID string
	cached  []source.Photo
	sortBy  source.SortBy
}

// New parses the share link and returns a client for it.
func New(shareLink, password string, t source.Transport) (*Client, error) {
	apiURL, key, err := ParseShareLink(shareLink)
	if err != nil {
		return nil, err
	}
	return &Client{
		transport: t,
		apiURL:    apiURL,
		key:       key,
		password:  password,
	}, nil
}

// ParseShareLink returns the API URL and share key of a share link.
func ParseShareLink(shareLink string) (*url.URL, string, error) {
	m := shareLinkRegex.FindStringSubmatch(shareLink)
	if m == nil {
		return nil, "", fmt.Errorf("invalid share link: %s", shareLink)
	}
	apiURL, err := url.Parse(m[1] + "/api")
	if err != nil {
		return nil, "", fmt.Errorf("invalid share link %s: %w", shareLink, err)
	}
	return apiURL, m[2], nil
}

// Name returns the backend name.
func (c *Client) Name() string {
	return ProviderName
}

// IsLoggedIn reports whether the album behind the link has been resolved.
func (c *Client) IsLoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.albumID != ""
}

// Login checks that the link points at an album the password opens.
func (c *Client) Login(ctx context.Context) error {
	query := url.Values{"key": {c.key}}
	if c.password != "" {
		query.Set("password", c.password)
	}
	resp, err := c.transport.Get(ctx, c.endpoint("shared-links", "me"), query)
	if err != nil {
		return &source.LoginError{Err: err}
	}
	if !resp.OK() {
		return &source.LoginError{Err: &source.APIError{Op: "shared link", Status: resp.StatusCode}}
	}
	var link sharedLinkDTO
	if err := resp.JSON(&link); err != nil {
		return &source.LoginError{Err: err}
	}
	if link.Album == nil || link.Album.ID == "" {
		return &source.LoginError{Err: errors.New("share link does not point at an album")}
	}

	c.mu.Lock()
	c.albumID = link.Album.ID
	c.mu.Unlock()
	return nil
}

// ItemCount refreshes the album and returns its size.
func (c *Client) ItemCount(ctx context.Context) (int, error) {
	photos, err := c.refresh(ctx, c.currentSort())
	if err != nil {
		return 0, err
	}
	return len(photos), nil
}

// ListPhotos returns one page of the cached album, refreshing it for the first page or when the
// order changes.
func (c *Client) ListPhotos(ctx context.Context, offset, limit int, sortBy source.SortBy) ([]source.Photo, error) {
	c.mu.Lock()
	photos, current := c.cached, c.sortBy
	c.mu.Unlock()

	if offset == 0 || photos == nil || current != sortBy {
		var err error
		if photos, err = c.refresh(ctx, sortBy); err != nil {
			return nil, err
		}
	}

	if offset < 0 || offset >= len(photos) || limit <= 0 {
		return nil, nil
	}
	end := min(offset+limit, len(photos))
	return append([]source.Photo(nil), photos[offset:end]...), nil
}

// PhotoMetadata returns the whole album.
func (c *Client) PhotoMetadata(ctx context.Context, sortBy source.SortBy) ([]source.Photo, error) {
	photos, err := c.refresh(ctx, sortBy)
	if err != nil {
		return nil, err
	}
	return append([]source.Photo(nil), photos...), nil
}

// PhotoBytes downloads the preview rendition of the photo. Immich has a single rendition large
// enough for a screen, so size is ignored.
func (c *Client) PhotoBytes(ctx context.Context, photo source.Photo, _ source.Size) ([]byte, error) {
	query := url.Values{"key": {c.key}, "size": {sizePreview}}
	resp, err := c.transport.Get(ctx, c.endpoint("assets", photo.ID, "thumbnail"), query)
	if err != nil {
		return nil, fmt.Errorf("fetching photo %s: %w", photo.ID, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("photo %s: %w", photo.ID, source.ErrNotFound)
	case !resp.OK():
		return nil, &source.APIError{Op: "thumbnail", Status: resp.StatusCode}
	}
	return resp.Bytes(), nil
}

func (c *Client) currentSort() source.SortBy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortBy
}

func (c *Client) refresh(ctx context.Context, sortBy source.SortBy) ([]source.Photo, error) {
	c.mu.Lock()
	albumID := c.albumID
	c.mu.Unlock()
	if albumID == "" {
		return nil, &source.APIError{Op: "album", Msg: errNotLoggedIn.Error()}
	}

	resp, err := c.transport.Get(ctx, c.endpoint("albums", albumID), url.Values{"key": {c.key}})
	if err != nil {
		return nil, fmt.Errorf("getting album: %w", err)
	}
	if !resp.OK() {
		return nil, &source.APIError{Op: "album", Status: resp.StatusCode}
	}
	var album albumDTO
	if err := resp.JSON(&album); err != nil {
		return nil, &source.APIError{Op: "album", Msg: err.Error()}
	}

	photos := toPhotos(album.Assets, sortBy)

	c.mu.Lock()
	c.cached, c.sortBy = photos, sortBy
	c.mu.Unlock()
	return photos, nil
}

func (c *Client) endpoint(segments ...string) string {
	return c.apiURL.JoinPath(segments...).String()
}

// toPhotos sorts the assets and converts them. Taken time order follows the original capture
// time while the photo carries the local time for display.
func toPhotos(assets []assetDTO, sortBy source.SortBy) []source.Photo {
	sort.SliceStable(assets, func(i, j int) bool {
		a, b := assets[i], assets[j]
		if sortBy == source.SortByFilename {
			return a.OriginalFileName < b.OriginalFileName
		}
		ta, tb := a.ExifInfo.DateTimeOriginal, b.ExifInfo.DateTimeOriginal
		switch {
		case ta == nil || tb == nil:
			// Undated assets go last.
			if (ta == nil) != (tb == nil) {
				return tb == nil
			}
		case !ta.Equal(*tb):
			return ta.Before(*tb)
		}
		return a.OriginalFileName < b.OriginalFileName
	})

	photos := make([]source.Photo, len(assets))
	for i, a := range assets {
		photos[i] = source.Photo{
			ID:       a.ID,
			Filename: a.OriginalFileName,
			TakenAt:  a.LocalDateTime,
			Location: source.Location{Area: a.ExifInfo.City, Country: a.ExifInfo.Country},
		}
	}
	return photos
}

var (
	_ source.PhotoSource = (*Client)(nil)
	_ source.Transport   = (*transport.Client)(nil)
)
