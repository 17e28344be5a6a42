// Package scene picks page backgrounds and builds precipitation overlays.
package scene

import (
	"math/rand/v2"
	"time"

	"github.com/tphakala/skydash/internal/weather"
)

// Effect is the animated overlay kind.
type Effect string

const (
	EffectNone Effect = ""
	EffectRain Effect = "rain"
	EffectSnow Effect = "snow"
)

// Background images.
const (
	BackgroundDefault      = "img/bg.jpg"
	BackgroundAlt          = "img/bg1.jpg"
	BackgroundClear        = "img/clear.jpg"
	BackgroundSunny        = "img/sunny.jpg"
	BackgroundClouds       = "img/clouds.jpg"
	BackgroundRain         = "img/rainy.jpg"
	BackgroundSnow         = "img/snow.jpg"
	BackgroundThunderstorm = "img/thunderstrom.jpg"
	BackgroundDrizzle      = "img/drizzle.jpg"
	BackgroundMist         = "img/mist.jpg"
)

// FallbackBackgrounds is used for conditions without a dedicated image.
var FallbackBackgrounds = []string{
	BackgroundDefault,
	BackgroundAlt,
	BackgroundClear,
	BackgroundClouds,
	BackgroundSunny,
}

// Choice is the presentation picked for a condition.
type Choice struct {
	Background string
	Effect     Effect
	Intensity  float64
}

// Chooser maps conditions to a Choice. It is not safe for concurrent use.
type Chooser struct {
	rng *rand.Rand
}

// NewRand returns a generator seeded with seed, or with the clock when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewChooser creates a Chooser drawing from rng. A nil rng is clock seeded.
func NewChooser(rng *rand.Rand) *Chooser {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Chooser{rng: rng}
}

// Choose returns the background and effect for cond.
func (c *Chooser) Choose(cond weather.Condition) Choice {
	switch cond {
	case weather.ConditionClouds:
		return Choice{Background: c.either(BackgroundClouds, BackgroundAlt)}
	case weather.ConditionClear:
		return Choice{Background: c.either(BackgroundClear, BackgroundSunny)}
	case weather.ConditionRain:
		return Choice{Background: BackgroundRain, Effect: EffectRain, Intensity: 1}
	case weather.ConditionSnow:
		return Choice{Background: BackgroundSnow, Effect: EffectSnow, Intensity: 1}
	case weather.ConditionThunderstorm:
		return Choice{Background: BackgroundThunderstorm, Effect: EffectRain, Intensity: 0.7}
	case weather.ConditionDrizzle:
		return Choice{Background: BackgroundDrizzle, Effect: EffectRain, Intensity: 0.3}
	case weather.ConditionMist, weather.ConditionHaze, weather.ConditionFog:
		return Choice{Background: BackgroundMist}
	}
	return Choice{Background: FallbackBackgrounds[c.rng.IntN(len(FallbackBackgrounds))]}
}

func (c *Chooser) either(a, b string) string {
	if c.rng.Float64() > 0.5 {
		return a
	}
	return b
}
