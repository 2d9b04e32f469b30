// Package synology implements the Synology Photos shared album backend.
package synology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dixieflatline76/Vista/pkg/source"
	"github.com/dixieflatline76/Vista/pkg/transport"
)

// Client talks to the Synology Photos sharing API. The session is a cookie the server sets on
// login; the cookie jar behind sessions is the only record of it.
type Client struct {
	transport source.Transport
	sessions  source.SessionStore
	apiURL    *url.URL
	sharingID string
	password  string
}

// New parses the share link and returns a client for it.
func New(shareLink, password string, t source.Transport, sessions source.SessionStore) (*Client, error) {
	apiURL, sharingID, err := ParseShareLink(shareLink)
	if err != nil {
		return nil, err
	}
	return &Client{
		transport: t,
		sessions:  sessions,
		apiURL:    apiURL,
		sharingID: sharingID,
		password:  password,
	}, nil
}

// ParseShareLink returns the API URL and sharing id of a share link.
func ParseShareLink(shareLink string) (*url.URL, string, error) {
	m := shareLinkRegex.FindStringSubmatch(shareLink)
	if m == nil {
		return nil, "", fmt.Errorf("invalid share link: %s", shareLink)
	}
	apiURL, err := url.Parse(m[1] + "/webapi/entry.cgi")
	if err != nil {
		return nil, "", fmt.Errorf("invalid share link %s: %w", shareLink, err)
	}
	return apiURL, m[2], nil
}

// Name returns the backend name.
func (c *Client) Name() string {
	return ProviderName
}

// IsLoggedIn reports whether the cookie jar holds a session for the API URL.
func (c *Client) IsLoggedIn() bool {
	return c.sessions.HasActiveSession(c.apiURL)
}

// Login opens a sharing session.
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{
		"api":        {apiLogin},
		"method":     {"login"},
		"version":    {"1"},
		"sharing_id": {c.sharingID},
		"password":   {c.password},
	}
	resp, err := c.transport.Post(ctx, c.apiURL.String(), form, nil)
	if err != nil {
		return &source.LoginError{Err: err}
	}
	if err := decodeEnvelope(resp, "login", nil); err != nil {
		return &source.LoginError{Err: err}
	}
	return nil
}

// ItemCount returns the number of photos in the shared album.
func (c *Client) ItemCount(ctx context.Context) (int, error) {
	form := url.Values{
		"api":     {apiAlbum},
		"method":  {"get"},
		"version": {"1"},
	}
	resp, err := c.transport.Post(ctx, c.apiURL.String(), form, c.sharingHeader())
	if err != nil {
		return 0, fmt.Errorf("getting album: %w", err)
	}
	var albums listDTO[albumDTO]
	if err := decodeEnvelope(resp, "get", &albums); err != nil {
		return 0, err
	}
	if len(albums.List) == 0 {
		return 0, &source.APIError{Op: "get", Msg: "album not found"}
	}
	return albums.List[0].ItemCount, nil
}

// ListPhotos returns one page of the album. Limits above MaxLimit are clamped.
func (c *Client) ListPhotos(ctx context.Context, offset, limit int, sortBy source.SortBy) ([]source.Photo, error) {
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if limit <= 0 {
		return nil, nil
	}
	form := url.Values{
		"api":            {apiItem},
		"method":         {"list"},
		"version":        {"1"},
		"additional":     {`["thumbnail","address"]`},
		"offset":         {strconv.Itoa(offset)},
		"limit":          {strconv.Itoa(limit)},
		"sort_by":        {sortBy.String()},
		"sort_direction": {"asc"},
	}
	resp, err := c.transport.Post(ctx, c.apiURL.String(), form, c.sharingHeader())
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	var items listDTO[itemDTO]
	if err := decodeEnvelope(resp, "list", &items); err != nil {
		return nil, err
	}

	photos := make([]source.Photo, 0, len(items.List))
	for _, item := range items.List {
		photos = append(photos, item.toPhoto())
	}
	return photos, nil
}

// PhotoMetadata lists the whole album, page by page.
func (c *Client) PhotoMetadata(ctx context.Context, sortBy source.SortBy) ([]source.Photo, error) {
	var all []source.Photo
	for offset := 0; ; offset += MaxLimit {
		page, err := c.ListPhotos(ctx, offset, MaxLimit, sortBy)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < MaxLimit {
			return all, nil
		}
	}
}

// PhotoBytes downloads the thumbnail of the requested size class.
func (c *Client) PhotoBytes(ctx context.Context, photo source.Photo, size source.Size) ([]byte, error) {
	query := url.Values{
		"api":         {apiThumbnail},
		"method":      {"get"},
		"version":     {"2"},
		"_sharing_id": {c.sharingID},
		"id":          {photo.ID},
		"cache_key":   {photo.CacheKey},
		"type":        {"unit"},
		"size":        {sizeToken(size)},
	}
	resp, err := c.transport.Get(ctx, c.apiURL.String(), query)
	if err != nil {
		return nil, fmt.Errorf("fetching photo %s: %w", photo.ID, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("photo %s: %w", photo.ID, source.ErrNotFound)
	case !resp.OK():
		return nil, &source.APIError{Op: "thumbnail", Status: resp.StatusCode}
	case resp.IsJSON():
		// The API answers some failures with 200 and an error envelope instead of an image.
		return nil, decodeEnvelope(resp, "thumbnail", nil)
	}
	return resp.Bytes(), nil
}

func (c *Client) sharingHeader() http.Header {
	return http.Header{sharingHeader: {c.sharingID}}
}

func sizeToken(size source.Size) string {
	switch size {
	case source.SizeSmall:
		return "sm"
	case source.SizeMedium:
		return "m"
	default:
		return "xl"
	}
}

// decodeEnvelope checks the status and the success flag and decodes data into out.
func decodeEnvelope(resp *transport.Response, op string, out any) error {
	if !resp.OK() {
		return &source.APIError{Op: op, Status: resp.StatusCode}
	}
	var envelope apiResponse
	if err := resp.JSON(&envelope); err != nil {
		return &source.APIError{Op: op, Status: resp.StatusCode, Msg: err.Error()}
	}
	if !envelope.Success {
		code := 0
		if envelope.Error != nil {
			code = envelope.Error.Code
		}
		if code == 0 {
			return &source.APIError{Op: op, Msg: "unsuccessful response"}
		}
		return &source.APIError{Op: op, Code: code}
	}
	if out == nil {
		return nil
	}
	if len(envelope.Data) == 0 {
		return &source.APIError{Op: op, Msg: "missing data"}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &source.APIError{Op: op, Msg: fmt.Sprintf("decoding data: %v", err)}
	}
	return nil
}

func (item itemDTO) toPhoto() source.Photo {
	p := source.Photo{
		ID:       strconv.Itoa(item.ID),
		Filename: item.Filename,
	}
	if item.Time > 0 {
		// Synology stores the local shooting time as if it were UTC.
		p.TakenAt = time.Unix(item.Time, 0).UTC()
	}
	if a := item.Additional; a != nil {
		if a.Thumbnail != nil {
			p.CacheKey = a.Thumbnail.CacheKey
		}
		if a.Address != nil {
			p.Location = source.Location{Area: a.Address.area(), Country: a.Address.Country}
		}
	}
	return p
}

var _ source.PhotoSource = (*Client)(nil)
