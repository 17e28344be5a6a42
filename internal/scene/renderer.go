package scene

import (
	"math/rand/v2"
	"sync"

	"github.com/tphakala/skydash/internal/weather"
)

// State is what the page currently shows.
type State struct {
	Condition  weather.Condition `json:"condition"`
	Background string            `json:"background"`
	Overlay    *Overlay          `json:"overlay,omitempty"`
}

// Renderer owns the active background and overlay. Safe for concurrent use.
type Renderer struct {
	mu      sync.Mutex
	rng     *rand.Rand
	chooser *Chooser
	state   State
}

// NewRenderer creates a Renderer drawing all randomness from rng.
func NewRenderer(rng *rand.Rand) *Renderer {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Renderer{
		rng:     rng,
		chooser: NewChooser(rng),
		state:   State{Background: BackgroundDefault},
	}
}

// Apply replaces the active scene with the one for cond.
func (r *Renderer) Apply(cond weather.Condition) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeOverlay()
	choice := r.chooser.Choose(cond)
	r.state = State{
		Condition:  cond,
		Background: choice.Background,
		Overlay:    BuildOverlay(choice.Effect, choice.Intensity, r.rng),
	}
	return r.state
}

// Clear removes the active overlay and keeps the background.
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeOverlay()
}

// Current returns the active scene.
func (r *Renderer) Current() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// removeOverlay is a no-op when nothing is attached.
func (r *Renderer) removeOverlay() {
	r.state.Overlay = nil
}
