package frame

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/dixieflatline76/Vista/pkg/source"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the clock by d and really sleeps a thousandth of it, so background work keeps
// pace with the loop.
func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	time.Sleep(d / 1000)
}

type call struct {
	op    string
	slot  Slot
	alpha uint8
	size  int
	at    time.Time
}

// fakeRenderer records every call. It asks to quit once quitAfter frames were presented.
type fakeRenderer struct {
	w, h      int
	clock     Clock
	calls     []call
	presents  int
	quitAfter int
}

func (r *fakeRenderer) Size() (int, int) { return r.w, r.h }

func (r *fakeRenderer) UpdateTexture(slot Slot, rgb []byte) error {
	r.calls = append(r.calls, call{op: "update", slot: slot, size: len(rgb), at: r.clock.Now()})
	return nil
}

func (r *fakeRenderer) Draw(slot Slot, alpha uint8) error {
	r.calls = append(r.calls, call{op: "draw", slot: slot, alpha: alpha, at: r.clock.Now()})
	return nil
}

func (r *fakeRenderer) Fill(c color.RGBA) error {
	r.calls = append(r.calls, call{op: "fill", alpha: c.A, at: r.clock.Now()})
	return nil
}

func (r *fakeRenderer) Present() error {
	r.presents++
	r.calls = append(r.calls, call{op: "present", at: r.clock.Now()})
	return nil
}

func (r *fakeRenderer) PollQuit() bool {
	return r.quitAfter > 0 && r.presents >= r.quitAfter
}

func (r *fakeRenderer) ops(op string) []call {
	var out []call
	for _, c := range r.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

type step struct {
	photo source.Photo
	data  []byte
	err   error
}

// fakeEngine replays steps and then repeats the last one.
type fakeEngine struct {
	mu    sync.Mutex
	steps []step
	calls int
}

func (e *fakeEngine) NextPhoto(ctx context.Context) (source.Photo, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.steps[min(e.calls, len(e.steps)-1)]
	e.calls++
	return s.photo, s.data, s.err
}

type fakeObserver struct {
	mu      sync.Mutex
	showing []Showing
	updates []UpdateInfo
}

func (o *fakeObserver) NowShowing(s Showing) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.showing = append(o.showing, s)
}

func (o *fakeObserver) UpdateAvailable(u UpdateInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.updates = append(o.updates, u)
}

func (o *fakeObserver) Updates() []UpdateInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]UpdateInfo(nil), o.updates...)
}

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(w, h, c)))
	return buf.Bytes()
}

func photoStep(t *testing.T, id string) step {
	return step{
		photo: source.Photo{ID: id, Filename: id + ".jpg"},
		data:  pngBytes(t, 16, 12, color.NRGBA{R: 200, G: 50, B: 50, A: 255}),
	}
}
