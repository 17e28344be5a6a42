package scene

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/skydash/internal/weather"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestChooser_FixedConditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cond      weather.Condition
		bg        string
		effect    Effect
		intensity float64
	}{
		{weather.ConditionRain, BackgroundRain, EffectRain, 1},
		{weather.ConditionSnow, BackgroundSnow, EffectSnow, 1},
		{weather.ConditionThunderstorm, BackgroundThunderstorm, EffectRain, 0.7},
		{weather.ConditionDrizzle, BackgroundDrizzle, EffectRain, 0.3},
		{weather.ConditionMist, BackgroundMist, EffectNone, 0},
		{weather.ConditionHaze, BackgroundMist, EffectNone, 0},
		{weather.ConditionFog, BackgroundMist, EffectNone, 0},
	}

	c := NewChooser(seeded())
	for _, tt := range tests {
		got := c.Choose(tt.cond)
		assert.Equal(t, tt.bg, got.Background, tt.cond)
		assert.Equal(t, tt.effect, got.Effect, tt.cond)
		assert.InDelta(t, tt.intensity, got.Intensity, 1e-9, tt.cond)
	}
}

func TestChooser_RandomChoices(t *testing.T) {
	t.Parallel()

	c := NewChooser(seeded())
	clouds := map[string]bool{}
	clearBgs := map[string]bool{}
	fallback := map[string]bool{}
	for range 200 {
		clouds[c.Choose(weather.ConditionClouds).Background] = true
		clearBgs[c.Choose(weather.ConditionClear).Background] = true
		got := c.Choose("Sunny")
		assert.Equal(t, EffectNone, got.Effect)
		fallback[got.Background] = true
	}

	assert.Equal(t, map[string]bool{BackgroundClouds: true, BackgroundAlt: true}, clouds)
	assert.Equal(t, map[string]bool{BackgroundClear: true, BackgroundSunny: true}, clearBgs)
	assert.Len(t, fallback, len(FallbackBackgrounds))
	for bg := range fallback {
		assert.True(t, slices.Contains(FallbackBackgrounds, bg))
	}
}

func TestChooser_Deterministic(t *testing.T) {
	t.Parallel()

	a := NewChooser(seeded())
	b := NewChooser(seeded())
	for _, cond := range []weather.Condition{"Clouds", "Clear", "Smoke", "Tornado", ""} {
		assert.Equal(t, a.Choose(cond), b.Choose(cond))
	}
}

func TestBuildOverlay_Rain(t *testing.T) {
	t.Parallel()

	rng := seeded()
	assert.Len(t, BuildOverlay(EffectRain, 1, rng).Particles, 60)
	assert.Len(t, BuildOverlay(EffectRain, 0.7, rng).Particles, 42)
	assert.Len(t, BuildOverlay(EffectRain, 0.3, rng).Particles, 18)

	for _, p := range BuildOverlay(EffectRain, 1, rng).Particles {
		assert.Equal(t, "raindrop", p.Class)
		assert.GreaterOrEqual(t, p.Left, 0.0)
		assert.Less(t, p.Left, 100.0)
		assert.GreaterOrEqual(t, p.Top, -10.0)
		assert.Less(t, p.Top, 90.0)
		assert.GreaterOrEqual(t, p.Duration, 0.7)
		assert.Less(t, p.Duration, 1.2)
		assert.Zero(t, p.Size)
	}
}

func TestBuildOverlay_Snow(t *testing.T) {
	t.Parallel()

	o := BuildOverlay(EffectSnow, 1, seeded())
	require.NotNil(t, o)
	require.Len(t, o.Particles, 40)
	for _, p := range o.Particles {
		assert.Equal(t, "snowflake", p.Class)
		assert.Equal(t, "❄", p.Glyph)
		assert.GreaterOrEqual(t, p.Size, 1.0)
		assert.Less(t, p.Size, 2.5)
		assert.GreaterOrEqual(t, p.Duration, 2.0)
		assert.Less(t, p.Duration, 4.0)
	}
	assert.Nil(t, BuildOverlay(EffectNone, 1, seeded()))
}

func TestParticle_Style(t *testing.T) {
	t.Parallel()

	p := Particle{Left: 12.5, Top: -3, Duration: 0.9}
	assert.Equal(t, "left:12.500vw;top:-3.000vh;animation-duration:0.900s", p.Style())
	p.Size = 1.25
	assert.Contains(t, p.Style(), ";font-size:1.250em")
}

func TestRenderer_Apply(t *testing.T) {
	t.Parallel()

	r := NewRenderer(seeded())
	assert.Equal(t, BackgroundDefault, r.Current().Background)
	assert.Nil(t, r.Current().Overlay)

	state := r.Apply(weather.ConditionRain)
	assert.Equal(t, BackgroundRain, state.Background)
	require.NotNil(t, state.Overlay)
	assert.Equal(t, EffectRain, state.Overlay.Effect)
	assert.Equal(t, state, r.Current())

	// A new condition replaces the previous overlay.
	state = r.Apply(weather.ConditionSnow)
	require.NotNil(t, state.Overlay)
	assert.Equal(t, EffectSnow, state.Overlay.Effect)
	assert.Len(t, state.Overlay.Particles, 40)

	state = r.Apply(weather.ConditionMist)
	assert.Nil(t, state.Overlay)
	assert.Equal(t, BackgroundMist, state.Background)
}

func TestRenderer_ClearIsIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRenderer(seeded())
	r.Clear()
	r.Apply(weather.ConditionThunderstorm)
	r.Clear()
	r.Clear()

	assert.Nil(t, r.Current().Overlay)
	assert.Equal(t, BackgroundThunderstorm, r.Current().Background)
}
