package scene

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Particle counts at full intensity.
const (
	RainDrops  = 60
	SnowFlakes = 40

	snowGlyph = "❄"
)

// Particle is one animated element of an overlay.
type Particle struct {
	Class    string  `json:"class"` // raindrop or snowflake
	Glyph    string  `json:"glyph,omitempty"`
	Left     float64 `json:"left"`           // vw
	Top      float64 `json:"top"`            // vh
	Duration float64 `json:"duration"`       // seconds
	Size     float64 `json:"size,omitempty"` // em, snow only
}

// Style renders the particle's inline CSS.
func (p Particle) Style() string {
	var b strings.Builder
	b.WriteString("left:")
	b.WriteString(num(p.Left))
	b.WriteString("vw;top:")
	b.WriteString(num(p.Top))
	b.WriteString("vh;animation-duration:")
	b.WriteString(num(p.Duration))
	b.WriteString("s")
	if p.Size > 0 {
		b.WriteString(";font-size:")
		b.WriteString(num(p.Size))
		b.WriteString("em")
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Overlay is the set of particles attached to the page.
type Overlay struct {
	Effect    Effect     `json:"effect"`
	Particles []Particle `json:"particles"`
}

// BuildOverlay creates the particles for effect. EffectNone yields nil.
func BuildOverlay(effect Effect, intensity float64, rng *rand.Rand) *Overlay {
	switch effect {
	case EffectRain:
		n := int(math.Floor(RainDrops * intensity))
		o := &Overlay{Effect: EffectRain, Particles: make([]Particle, n)}
		for i := range o.Particles {
			o.Particles[i] = Particle{
				Class:    "raindrop",
				Left:     rng.Float64() * 100,
				Top:      rng.Float64()*100 - 10,
				Duration: 0.7 + rng.Float64()*0.5,
			}
		}
		return o
	case EffectSnow:
		o := &Overlay{Effect: EffectSnow, Particles: make([]Particle, SnowFlakes)}
		for i := range o.Particles {
			o.Particles[i] = Particle{
				Class:    "snowflake",
				Glyph:    snowGlyph,
				Left:     rng.Float64() * 100,
				Top:      rng.Float64()*100 - 10,
				Size:     1 + rng.Float64()*1.5,
				Duration: 2 + rng.Float64()*2,
			}
		}
		return o
	}
	return nil
}
