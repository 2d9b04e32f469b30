// Package sourcetest holds the behaviour every PhotoSource backend must share. Backend packages
// serve an Album from a fake server in their own wire format and run the suite against it.
package sourcetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dixieflatline76/Vista/pkg/source"
	"github.com/stretchr/testify/suite"
)

// Album is the fixture a fake backend serves.
type Album struct {
	Password string
	Photos   []source.Photo
	// Removed photos are listed but their bytes are gone.
	Removed map[string]bool
}

// PhotoBytes is the body a fake backend returns for a photo.
func PhotoBytes(id string) []byte {
	return []byte("image-bytes-" + id)
}

// Factory starts a fake backend serving album and returns a client for it logged in with
// password.
type Factory func(t *testing.T, album *Album, password string) source.PhotoSource

// DefaultAlbum returns a small album with out-of-order names and dates.
func DefaultAlbum() *Album {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC) }
	return &Album{
		Password: "secret",
		Photos: []source.Photo{
			{ID: "11", CacheKey: "11_k", Filename: "c.jpg", TakenAt: day(1), Location: source.Location{Area: "Bergen", Country: "Norway"}},
			{ID: "12", CacheKey: "12_k", Filename: "a.jpg", TakenAt: day(3)},
			{ID: "13", CacheKey: "13_k", Filename: "b.jpg", TakenAt: day(2)},
			{ID: "14", CacheKey: "14_k", Filename: "e.jpg", TakenAt: day(5)},
			{ID: "15", CacheKey: "15_k", Filename: "d.jpg", TakenAt: day(4)},
		},
		Removed: map[string]bool{"14": true},
	}
}

// Run executes the shared suite.
func Run(t *testing.T, factory Factory) {
	suite.Run(t, &sourceSuite{factory: factory})
}

type sourceSuite struct {
	suite.Suite
	factory Factory
	album   *Album
	ctx     context.Context
}

func (s *sourceSuite) SetupTest() {
	s.album = DefaultAlbum()
	s.ctx = context.Background()
}

func (s *sourceSuite) loggedIn() source.PhotoSource {
	src := s.factory(s.T(), s.album, s.album.Password)
	s.Require().NoError(src.Login(s.ctx))
	return src
}

func (s *sourceSuite) TestLogin() {
	src := s.factory(s.T(), s.album, s.album.Password)
	s.False(src.IsLoggedIn())
	s.NoError(src.Login(s.ctx))
	s.True(src.IsLoggedIn())
	s.NotEmpty(src.Name())
}

func (s *sourceSuite) TestLoginWrongPassword() {
	src := s.factory(s.T(), s.album, "wrong")
	err := src.Login(s.ctx)
	var loginErr *source.LoginError
	s.Require().True(errors.As(err, &loginErr), "expected LoginError, got %v", err)
	s.True(source.IsFatal(err))
	s.False(src.IsLoggedIn())
}

func (s *sourceSuite) TestItemCount() {
	n, err := s.loggedIn().ItemCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(len(s.album.Photos), n)
}

func (s *sourceSuite) TestListPhotosPages() {
	src := s.loggedIn()

	first, err := src.ListPhotos(s.ctx, 0, 2, source.SortByFilename)
	s.Require().NoError(err)
	s.Equal([]string{"a.jpg", "b.jpg"}, filenames(first))

	last, err := src.ListPhotos(s.ctx, 4, 2, source.SortByFilename)
	s.Require().NoError(err)
	s.Equal([]string{"e.jpg"}, filenames(last))

	past, err := src.ListPhotos(s.ctx, 10, 2, source.SortByFilename)
	s.Require().NoError(err)
	s.Empty(past)
}

func (s *sourceSuite) TestPhotoMetadataOrdering() {
	src := s.loggedIn()

	byName, err := src.PhotoMetadata(s.ctx, source.SortByFilename)
	s.Require().NoError(err)
	s.Equal([]string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}, filenames(byName))

	byDate, err := src.PhotoMetadata(s.ctx, source.SortByTakenTime)
	s.Require().NoError(err)
	s.Equal([]string{"c.jpg", "b.jpg", "a.jpg", "d.jpg", "e.jpg"}, filenames(byDate))

	s.Equal("Bergen, Norway", byDate[0].Location.String())
	s.False(byDate[0].TakenAt.IsZero())
}

func (s *sourceSuite) TestPhotoBytes() {
	src := s.loggedIn()
	photos, err := src.PhotoMetadata(s.ctx, source.SortByFilename)
	s.Require().NoError(err)

	data, err := src.PhotoBytes(s.ctx, photos[0], source.SizeLarge)
	s.Require().NoError(err)
	s.Equal(PhotoBytes(photos[0].ID), data)
}

func (s *sourceSuite) TestPhotoBytesRemoved() {
	src := s.loggedIn()
	photos, err := src.PhotoMetadata(s.ctx, source.SortByFilename)
	s.Require().NoError(err)

	removed := photos[len(photos)-1]
	s.Require().True(s.album.Removed[removed.ID])

	_, err = src.PhotoBytes(s.ctx, removed, source.SizeLarge)
	s.ErrorIs(err, source.ErrNotFound)
	s.False(source.IsFatal(err))
}

func filenames(photos []source.Photo) []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		out[i] = p.Filename
	}
	return out
}
