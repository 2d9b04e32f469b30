package frame

import (
	"context"
	"image"

	"github.com/google/uuid"

	"github.com/dixieflatline76/Vista/pkg/compositor"
	"github.com/dixieflatline76/Vista/pkg/source"
	"github.com/dixieflatline76/Vista/util/log"
)

// result is one prepared frame, or the reason there is none.
type result struct {
	cycleID string
	photo   *source.Photo
	rgb     []byte
	err     error
}

// fetch prepares the next frame and hands it to the render loop.
func (p *Pipeline) fetch(ctx context.Context, out chan<- result) {
	res := p.prepare(ctx)
	select {
	case out <- res:
	case <-ctx.Done():
	}
}

func (p *Pipeline) prepare(ctx context.Context) result {
	res := result{cycleID: uuid.NewString()}
	log.Debugf("[%s] Fetching next photo", res.cycleID)

	photo, data, err := p.engine.NextPhoto(ctx)
	if err != nil {
		res.err = err
		return res
	}
	img, err := Decode(data)
	if err != nil {
		res.err = err
		return res
	}
	log.Debugf("[%s] Photo %s (%s) decoded, %dx%d", res.cycleID, photo.ID, photo.Filename,
		img.Bounds().Dx(), img.Bounds().Dy())

	framed := compositor.Compose(img, p.logicalW, p.logicalH, p.opts.Background)
	if p.opts.ShowInfo {
		framed = compositor.DrawCaption(framed, photo.Caption())
	}
	res.photo = &photo
	res.rgb = p.finish(framed)
	return res
}

// finish adds the update badge, rotates to the display and packs the pixels.
func (p *Pipeline) finish(img *image.NRGBA) []byte {
	if p.updateAvailable.Load() {
		img = p.assets.DrawUpdateBadge(img)
	}
	return compositor.RGB(compositor.Rotate(img, p.opts.Rotation))
}
