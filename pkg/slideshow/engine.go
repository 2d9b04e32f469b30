// Package slideshow decides which photo comes next. The engine walks a shared album in batches,
// opens the backend session lazily and steps over photos removed after they were listed.
package slideshow

import (
	"context"
	"errors"
	"sync"

	"github.com/dixieflatline76/Vista/pkg/source"
	"github.com/dixieflatline76/Vista/util/log"
)

// Cursor is the position of the engine in the album.
type Cursor struct {
	// NextOffset is the album offset of the next batch.
	NextOffset int
	// Index is the position in the current batch. Index == BatchLen means the batch is used up.
	Index    int
	BatchLen int
}

// Engine produces the next photo of the slideshow.
type Engine struct {
	src         source.PhotoSource
	order       Order
	randomStart bool
	size        source.Size
	pageSize    int
	rand        Rand

	mu         sync.Mutex
	batch      []source.Photo
	index      int
	nextOffset int
	inCycle    bool
	cycleStart bool // no batch fetched yet in this cycle
	endOfAlbum bool // the current batch is the last one
}

// NewEngine returns an engine over src. The default is by-date order, large photos and batches of
// DefaultPageSize.
func NewEngine(src source.PhotoSource, opts ...Option) *Engine {
	e := &Engine{
		src:      src,
		order:    OrderByDate,
		size:     source.SizeLarge,
		pageSize: DefaultPageSize,
		rand:     globalRand{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Position returns the current cursor.
func (e *Engine) Position() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Cursor{NextOffset: e.nextOffset, Index: e.index, BatchLen: len(e.batch)}
}

// NextPhoto returns the next photo and its bytes.
//
// Photos that are gone when their bytes are requested are skipped. If a whole cycle yields no
// photo, ErrNoPhotoAvailable is returned and the next call starts over. Any other failure to fetch
// a photo's bytes is returned and the cursor moves past that photo. Login and listing failures
// leave the cursor where it was, so the next call retries the same offset.
func (e *Engine) NextPhoto(ctx context.Context) (source.Photo, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.src.IsLoggedIn() {
		if err := e.src.Login(ctx); err != nil {
			return source.Photo{}, nil, err
		}
	}

	cyclesStarted := 0
	for {
		if err := ctx.Err(); err != nil {
			return source.Photo{}, nil, err
		}

		if e.index >= len(e.batch) {
			if !e.inCycle || e.endOfAlbum {
				if cyclesStarted > 0 {
					e.inCycle = false
					return source.Photo{}, nil, source.ErrNoPhotoAvailable
				}
				cyclesStarted++
				if err := e.startCycle(ctx); err != nil {
					return source.Photo{}, nil, err
				}
			}
			if err := e.fetchBatch(ctx); err != nil {
				return source.Photo{}, nil, err
			}
			continue
		}

		photo := e.batch[e.index]
		data, err := e.src.PhotoBytes(ctx, photo, e.size)
		switch {
		case err == nil:
			e.index++
			return photo, data, nil
		case errors.Is(err, source.ErrNotFound):
			log.Debugf("Photo %s (%s) is gone, skipping", photo.ID, photo.Filename)
			e.index++
		case ctx.Err() != nil:
			return source.Photo{}, nil, err
		default:
			// The photo counts as shown so the next call moves on.
			log.Debugf("Photo %s (%s) failed, moving on: %v", photo.ID, photo.Filename, err)
			e.index++
			return source.Photo{}, nil, err
		}
	}
}

func (e *Engine) startCycle(ctx context.Context) error {
	offset := 0
	if e.order == OrderRandom || e.randomStart {
		count, err := e.src.ItemCount(ctx)
		if err != nil {
			return err
		}
		if count <= 0 {
			return source.ErrEmptyAlbum
		}
		offset = e.rand.IntN(count)
		log.Debugf("Starting cycle at random offset %d of %d", offset, count)
	}

	e.batch, e.index = nil, 0
	e.nextOffset = offset
	e.inCycle, e.cycleStart, e.endOfAlbum = true, true, false
	return nil
}

// fetchBatch replaces the batch with the page at nextOffset. An empty page ends the album, or the
// whole slideshow when nothing was found in this cycle yet.
func (e *Engine) fetchBatch(ctx context.Context) error {
	batch, err := e.src.ListPhotos(ctx, e.nextOffset, e.pageSize, e.order.sortBy())
	if err != nil {
		return err
	}

	if len(batch) == 0 {
		switch {
		case e.cycleStart && e.nextOffset == 0:
			e.inCycle = false
			return source.ErrEmptyAlbum
		case e.cycleStart:
			// The album shrank below the random offset.
			e.nextOffset = 0
		default:
			e.batch, e.index = nil, 0
			e.endOfAlbum = true
		}
		return nil
	}

	if e.order == OrderRandom {
		e.rand.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })
	}
	e.batch, e.index = batch, 0
	e.nextOffset += e.pageSize
	e.cycleStart = false
	e.endOfAlbum = len(batch) < e.pageSize
	return nil
}
