package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlay_Crossfade(t *testing.T) {
	p, r := newTestPipeline(&fakeEngine{}, 0, Options{Transition: TransitionCrossfade})
	start := p.clock.Now()

	quit, err := p.play(SlotB)
	require.NoError(t, err)
	assert.False(t, quit)

	var alphas []uint8
	for _, c := range r.ops("draw") {
		if c.slot == SlotB {
			alphas = append(alphas, c.alpha)
		} else {
			assert.Equal(t, uint8(255), c.alpha, "current frame stays opaque underneath")
		}
	}
	require.NotEmpty(t, alphas)
	assert.Equal(t, uint8(0), alphas[0])
	assert.Equal(t, uint8(255), alphas[len(alphas)-1])
	assert.IsNonDecreasing(t, alphas)
	assert.GreaterOrEqual(t, p.clock.Now().Sub(start), time.Second)
	assert.Equal(t, len(alphas), r.presents)
}

func TestPlay_FadeToBlack(t *testing.T) {
	p, r := newTestPipeline(&fakeEngine{}, 0, Options{Transition: TransitionFadeToBlack})

	quit, err := p.play(SlotB)
	require.NoError(t, err)
	assert.False(t, quit)

	fills := r.ops("fill")
	draws := r.ops("draw")
	require.Equal(t, len(fills), len(draws))

	// Out: the current slot darkens to black. In: the next slot appears from black.
	turn := 0
	for i, d := range draws {
		if d.slot == SlotB {
			turn = i
			break
		}
	}
	require.Positive(t, turn)
	assert.Equal(t, uint8(255), fills[turn-1].alpha)
	assert.Equal(t, uint8(255), fills[turn].alpha)
	assert.Equal(t, uint8(0), fills[0].alpha)
	assert.Equal(t, uint8(0), fills[len(fills)-1].alpha)
	for _, d := range draws[turn:] {
		assert.Equal(t, SlotB, d.slot)
	}
}

func TestPlay_None(t *testing.T) {
	p, r := newTestPipeline(&fakeEngine{}, 0, Options{Transition: TransitionNone})

	quit, err := p.play(SlotB)
	require.NoError(t, err)
	assert.False(t, quit)

	assert.Equal(t, []call{{op: "draw", slot: SlotB, alpha: 255, at: p.clock.Now()}}, r.ops("draw"))
	assert.Equal(t, 1, r.presents)
}

func TestPlay_FrameRateIndependent(t *testing.T) {
	// A slow clock gives fewer frames but the same length and end state.
	p, r := newTestPipeline(&fakeEngine{}, 0, Options{Transition: TransitionCrossfade})
	slow := &slowClock{fakeClock: newFakeClock(), step: 300 * time.Millisecond}
	p.clock = slow
	r.clock = slow

	_, err := p.play(SlotB)
	require.NoError(t, err)

	draws := r.ops("draw")
	assert.Equal(t, uint8(255), draws[len(draws)-1].alpha)
	assert.Equal(t, 5, r.presents, "0ms, 300ms, 600ms, 900ms, 1200ms")
}

func TestPlay_QuitStopsTransition(t *testing.T) {
	p, r := newTestPipeline(&fakeEngine{}, 3, Options{Transition: TransitionFadeToBlack})

	quit, err := p.play(SlotB)
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Equal(t, 3, r.presents)
}

func TestParseTransition(t *testing.T) {
	for _, name := range []string{"crossfade", "fade-to-black", "none"} {
		tr, err := ParseTransition(name)
		require.NoError(t, err)
		assert.Equal(t, Transition(name), tr)
	}
	_, err := ParseTransition("wipe")
	assert.Error(t, err)
}

// slowClock sleeps a fixed step whatever is asked.
type slowClock struct {
	*fakeClock
	step time.Duration
}

func (c *slowClock) Sleep(time.Duration) {
	c.fakeClock.Sleep(c.step)
}
