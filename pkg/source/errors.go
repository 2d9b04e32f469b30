package source

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means the photo was removed from the album after it was listed.
	ErrNotFound = errors.New("photo not found")
	// ErrEmptyAlbum means the album has no photos to show.
	ErrEmptyAlbum = errors.New("album is empty")
	// ErrNoPhotoAvailable means a full pass over the album found no retrievable photo.
	ErrNoPhotoAvailable = errors.New("no retrievable photo in album")
)

// LoginError means the album could not be accessed with the given link and password.
type LoginError struct {
	Err error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed: %v", e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// Remediation is the hint shown to the user when login fails.
const Remediation = "Make sure the album is shared publicly, the share link is complete and, " +
	"if the link is password protected, the password is correct."

// APIError is an unexpected backend answer: a non-2xx status or an unsuccessful envelope.
type APIError struct {
	Op     string
	Status int // HTTP status, 0 when the envelope carried the error
	Code   int // backend error code, 0 when unknown
	Msg    string
}

func (e *APIError) Error() string {
	switch {
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Code != 0:
		return fmt.Sprintf("%s: API error code %d", e.Op, e.Code)
	default:
		return fmt.Sprintf("%s: unexpected HTTP status %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
}

// IsFatal reports whether err ends the slideshow rather than a single cycle.
func IsFatal(err error) bool {
	var loginErr *LoginError
	return errors.As(err, &loginErr) || errors.Is(err, ErrEmptyAlbum)
}
