package slideshow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/dixieflatline76/Vista/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource is a mock implementation of source.PhotoSource.
type MockSource struct {
	mock.Mock
	loggedIn bool
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) IsLoggedIn() bool { return m.loggedIn }

func (m *MockSource) Login(ctx context.Context) error {
	args := m.Called(ctx)
	if args.Error(0) == nil {
		m.loggedIn = true
	}
	return args.Error(0)
}

func (m *MockSource) ItemCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSource) ListPhotos(ctx context.Context, offset, limit int, sortBy source.SortBy) ([]source.Photo, error) {
	args := m.Called(ctx, offset, limit, sortBy)
	photos, _ := args.Get(0).([]source.Photo)
	return photos, args.Error(1)
}

func (m *MockSource) PhotoMetadata(ctx context.Context, sortBy source.SortBy) ([]source.Photo, error) {
	args := m.Called(ctx, sortBy)
	photos, _ := args.Get(0).([]source.Photo)
	return photos, args.Error(1)
}

func (m *MockSource) PhotoBytes(ctx context.Context, photo source.Photo, size source.Size) ([]byte, error) {
	args := m.Called(ctx, photo, size)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// fixedRand returns preset offsets and reverses on shuffle.
type fixedRand struct {
	offsets []int
	drawn   []int // the n of every IntN call
}

func (r *fixedRand) IntN(n int) int {
	r.drawn = append(r.drawn, n)
	v := r.offsets[0]
	r.offsets = r.offsets[1:]
	return v
}

func (r *fixedRand) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func photos(ids ...int) []source.Photo {
	out := make([]source.Photo, len(ids))
	for i, id := range ids {
		out[i] = source.Photo{ID: strconv.Itoa(id), Filename: fmt.Sprintf("%03d.jpg", id)}
	}
	return out
}

func rangePhotos(from, to int) []source.Photo {
	var ids []int
	for i := from; i < to; i++ {
		ids = append(ids, i)
	}
	return photos(ids...)
}

func bytesOf(p source.Photo) []byte {
	return []byte("bytes-" + p.ID)
}

// album serves n photos with ids 0..n-1 through the mock, minus the ids in gone.
func album(m *MockSource, n int, sortBy source.SortBy, gone ...int) {
	for offset := 0; offset <= n; offset += DefaultPageSize {
		m.On("ListPhotos", mock.Anything, offset, DefaultPageSize, sortBy).
			Return(rangePhotos(offset, min(offset+DefaultPageSize, n)), nil).Maybe()
	}
	missing := map[string]bool{}
	for _, id := range gone {
		missing[strconv.Itoa(id)] = true
	}
	for _, p := range rangePhotos(0, n) {
		if missing[p.ID] {
			m.On("PhotoBytes", mock.Anything, p, source.SizeLarge).Return(nil, source.ErrNotFound).Maybe()
			continue
		}
		m.On("PhotoBytes", mock.Anything, p, source.SizeLarge).Return(bytesOf(p), nil).Maybe()
	}
}

func next(t *testing.T, e *Engine) string {
	t.Helper()
	p, data, err := e.NextPhoto(context.Background())
	require.NoError(t, err)
	require.Equal(t, bytesOf(p), data)
	return p.ID
}

func TestNextPhoto_LogsInOnce(t *testing.T) {
	m := &MockSource{}
	m.On("Login", mock.Anything).Return(nil).Once()
	album(m, 3, source.SortByTakenTime)

	e := NewEngine(m)
	next(t, e)
	next(t, e)

	m.AssertNumberOfCalls(t, "Login", 1)
}

func TestNextPhoto_LoginErrorPropagates(t *testing.T) {
	m := &MockSource{}
	loginErr := &source.LoginError{Err: errors.New("wrong password")}
	m.On("Login", mock.Anything).Return(loginErr)

	_, _, err := NewEngine(m).NextPhoto(context.Background())

	assert.Same(t, loginErr, err)
	assert.True(t, source.IsFatal(err))
	m.AssertNotCalled(t, "ListPhotos", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNextPhoto_SequentialCoverage(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		size  int
	}{
		{name: "Short Last Batch", order: OrderByDate, size: 23},
		{name: "Full Last Batch", order: OrderByDate, size: 20},
		{name: "Single Photo", order: OrderByName, size: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockSource{loggedIn: true}
			album(m, tt.size, tt.order.sortBy())
			e := NewEngine(m, WithOrder(tt.order))

			var seen []string
			for i := 0; i < tt.size; i++ {
				seen = append(seen, next(t, e))
			}

			var want []string
			for _, p := range rangePhotos(0, tt.size) {
				want = append(want, p.ID)
			}
			assert.Equal(t, want, seen)

			// Wraps to the start.
			assert.Equal(t, "0", next(t, e))
			m.AssertNotCalled(t, "ItemCount", mock.Anything)
		})
	}
}

func TestNextPhoto_SkipsRemovedPhoto(t *testing.T) {
	m := &MockSource{loggedIn: true}
	m.On("ListPhotos", mock.Anything, 0, DefaultPageSize, source.SortByTakenTime).Return(photos(1, 2, 3), nil).Once()
	m.On("PhotoBytes", mock.Anything, photos(1)[0], source.SizeLarge).Return(bytesOf(photos(1)[0]), nil)
	m.On("PhotoBytes", mock.Anything, photos(2)[0], source.SizeLarge).Return(nil, fmt.Errorf("photo 2: %w", source.ErrNotFound))
	m.On("PhotoBytes", mock.Anything, photos(3)[0], source.SizeLarge).Return(bytesOf(photos(3)[0]), nil)
	e := NewEngine(m)

	assert.Equal(t, "1", next(t, e))
	assert.Equal(t, "3", next(t, e))

	pos := e.Position()
	assert.Equal(t, 3, pos.Index)
	assert.Equal(t, 3, pos.BatchLen)
	m.AssertNumberOfCalls(t, "ListPhotos", 1)
}

func TestNextPhoto_NotFoundAtFirstItemLeavesIndexAtTwo(t *testing.T) {
	m := &MockSource{loggedIn: true}
	m.On("ListPhotos", mock.Anything, 0, DefaultPageSize, source.SortByTakenTime).Return(photos(1, 2, 3), nil).Once()
	m.On("PhotoBytes", mock.Anything, photos(1)[0], source.SizeLarge).Return(nil, source.ErrNotFound)
	m.On("PhotoBytes", mock.Anything, photos(2)[0], source.SizeLarge).Return(bytesOf(photos(2)[0]), nil)
	e := NewEngine(m)

	assert.Equal(t, "2", next(t, e))
	assert.Equal(t, 2, e.Position().Index)
}

func TestNextPhoto_SkipAcrossBatchRefetchesOnce(t *testing.T) {
	m := &MockSource{loggedIn: true}
	album(m, 15, source.SortByTakenTime, 9)
	e := NewEngine(m)

	for i := 0; i < 9; i++ {
		next(t, e)
	}
	assert.Equal(t, "10", next(t, e))

	m.AssertNumberOfCalls(t, "ListPhotos", 2)
	m.AssertCalled(t, "ListPhotos", mock.Anything, 10, DefaultPageSize, source.SortByTakenTime)
}

func TestNextPhoto_AllRemovedBatchRefetchesAtAdvancedOffset(t *testing.T) {
	m := &MockSource{loggedIn: true}
	album(m, 15, source.SortByTakenTime, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	e := NewEngine(m)

	assert.Equal(t, "10", next(t, e))

	m.AssertCalled(t, "ListPhotos", mock.Anything, 0, DefaultPageSize, source.SortByTakenTime)
	m.AssertCalled(t, "ListPhotos", mock.Anything, 10, DefaultPageSize, source.SortByTakenTime)
	m.AssertNumberOfCalls(t, "PhotoBytes", 11)
}

func TestNextPhoto_NoPhotoAvailable(t *testing.T) {
	m := &MockSource{loggedIn: true}
	album(m, 3, source.SortByTakenTime, 0, 1, 2)
	e := NewEngine(m)

	_, _, err := e.NextPhoto(context.Background())
	assert.ErrorIs(t, err, source.ErrNoPhotoAvailable)
	assert.False(t, source.IsFatal(err))

	// The next call starts a fresh cycle rather than failing immediately.
	_, _, err = e.NextPhoto(context.Background())
	assert.ErrorIs(t, err, source.ErrNoPhotoAvailable)
	m.AssertNumberOfCalls(t, "ListPhotos", 2)
}

func TestNextPhoto_EmptyAlbum(t *testing.T) {
	t.Run("Sequential", func(t *testing.T) {
		m := &MockSource{loggedIn: true}
		m.On("ListPhotos", mock.Anything, 0, DefaultPageSize, source.SortByTakenTime).Return([]source.Photo{}, nil)

		_, _, err := NewEngine(m).NextPhoto(context.Background())
		assert.ErrorIs(t, err, source.ErrEmptyAlbum)
		assert.True(t, source.IsFatal(err))
	})

	t.Run("Random", func(t *testing.T) {
		m := &MockSource{loggedIn: true}
		m.On("ItemCount", mock.Anything).Return(0, nil)

		_, _, err := NewEngine(m, WithOrder(OrderRandom)).NextPhoto(context.Background())
		assert.ErrorIs(t, err, source.ErrEmptyAlbum)
	})
}

func TestNextPhoto_FailedPhotoIsPassedOver(t *testing.T) {
	m := &MockSource{loggedIn: true}
	apiErr := &source.APIError{Op: "thumbnail", Status: 500}
	m.On("ListPhotos", mock.Anything, 0, DefaultPageSize, source.SortByTakenTime).Return(photos(0, 1, 2), nil)
	for _, p := range photos(0, 2) {
		m.On("PhotoBytes", mock.Anything, p, source.SizeLarge).Return(bytesOf(p), nil)
	}
	// Photo 1 fails on every attempt.
	m.On("PhotoBytes", mock.Anything, photos(1)[0], source.SizeLarge).Return(nil, apiErr)
	e := NewEngine(m)

	assert.Equal(t, "0", next(t, e))

	_, _, err := e.NextPhoto(context.Background())
	assert.Same(t, apiErr, err)
	assert.Equal(t, 2, e.Position().Index)

	var shown []string
	for i := 0; i < 4; i++ {
		p, _, err := e.NextPhoto(context.Background())
		if err != nil {
			assert.Same(t, apiErr, err)
			shown = append(shown, "err")
			continue
		}
		shown = append(shown, p.ID)
	}
	assert.Equal(t, []string{"2", "0", "err", "2"}, shown)
}

func TestNextPhoto_CancelledFetchKeepsCursor(t *testing.T) {
	m := &MockSource{loggedIn: true}
	ctx, cancel := context.WithCancel(context.Background())
	m.On("ListPhotos", mock.Anything, 0, DefaultPageSize, source.SortByTakenTime).Return(photos(1, 2), nil).Once()
	m.On("PhotoBytes", mock.Anything, photos(1)[0], source.SizeLarge).
		Run(func(mock.Arguments) { cancel() }).Return(nil, context.Canceled).Once()
	m.On("PhotoBytes", mock.Anything, photos(1)[0], source.SizeLarge).Return(bytesOf(photos(1)[0]), nil).Once()
	e := NewEngine(m)

	_, _, err := e.NextPhoto(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, e.Position().Index)

	assert.Equal(t, "1", next(t, e))
}

func TestNextPhoto_ListErrorRetriesSameOffset(t *testing.T) {
	m := &MockSource{loggedIn: true}
	apiErr := &source.APIError{Op: "list", Code: 120}
	m.On("ListPhotos", mock.Anything, 0, DefaultPageSize, source.SortByTakenTime).Return(nil, apiErr).Once()
	album(m, 2, source.SortByTakenTime)
	e := NewEngine(m)

	_, _, err := e.NextPhoto(context.Background())
	var target *source.APIError
	require.ErrorAs(t, err, &target)

	assert.Equal(t, "0", next(t, e))
}

func TestNextPhoto_RandomOffsetOncePerCycle(t *testing.T) {
	m := &MockSource{loggedIn: true}
	m.On("ItemCount", mock.Anything).Return(25, nil)
	album(m, 25, source.SortByTakenTime)
	for _, offset := range []int{17, 3} {
		m.On("ListPhotos", mock.Anything, offset, DefaultPageSize, source.SortByTakenTime).
			Return(rangePhotos(offset, min(offset+DefaultPageSize, 25)), nil).Maybe()
	}
	r := &fixedRand{offsets: []int{17, 3}}
	e := NewEngine(m, WithOrder(OrderByDate), WithRandomStart(true), WithRand(r))

	// First cycle: 17..24, shown in order.
	var first []string
	for i := 0; i < 8; i++ {
		first = append(first, next(t, e))
	}
	assert.Equal(t, []string{"17", "18", "19", "20", "21", "22", "23", "24"}, first)
	m.AssertNumberOfCalls(t, "ItemCount", 1)

	// Second cycle re-draws.
	assert.Equal(t, "3", next(t, e))
	m.AssertNumberOfCalls(t, "ItemCount", 2)
	assert.Equal(t, []int{25, 25}, r.drawn)
}

func TestNextPhoto_RandomOrderShufflesBatch(t *testing.T) {
	m := &MockSource{loggedIn: true}
	m.On("ItemCount", mock.Anything).Return(3, nil)
	album(m, 3, source.SortByTakenTime)
	e := NewEngine(m, WithOrder(OrderRandom), WithRand(&fixedRand{offsets: []int{0}}))

	assert.Equal(t, []string{"2", "1", "0"}, []string{next(t, e), next(t, e), next(t, e)})
}

func TestNextPhoto_AlbumShrankBelowRandomOffset(t *testing.T) {
	m := &MockSource{loggedIn: true}
	m.On("ItemCount", mock.Anything).Return(30, nil)
	m.On("ListPhotos", mock.Anything, 25, DefaultPageSize, source.SortByTakenTime).Return([]source.Photo{}, nil).Once()
	album(m, 2, source.SortByTakenTime)
	e := NewEngine(m, WithRandomStart(true), WithRand(&fixedRand{offsets: []int{25}}))

	assert.Equal(t, "0", next(t, e))
}

func TestNextPhoto_SourceSizeAndCancel(t *testing.T) {
	m := &MockSource{loggedIn: true}
	m.On("ListPhotos", mock.Anything, 0, DefaultPageSize, source.SortByFilename).Return(photos(1), nil)
	m.On("PhotoBytes", mock.Anything, photos(1)[0], source.SizeSmall).Return([]byte("small"), nil)
	e := NewEngine(m, WithOrder(OrderByName), WithSourceSize(source.SizeSmall))

	_, data, err := e.NextPhoto(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("small"), data)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = e.NextPhoto(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseOrder(t *testing.T) {
	for _, o := range []Order{OrderByDate, OrderByName, OrderRandom} {
		parsed, err := ParseOrder(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}
	_, err := ParseOrder("shuffle")
	assert.Error(t, err)
}
