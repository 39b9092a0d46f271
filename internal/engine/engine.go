// internal/engine/engine.go
package engine

import (
	"math/rand/v2"
	"sync"
	"time"

	"footfit/internal/models"
)

// Engine turns a complete profile into a recommendation. Brand and tip are
// drawn from the injected source on every call and are not expected to
// repeat; material and justification are pure functions of the profile.
type Engine struct {
	mu  sync.Mutex
	src Source
	now func() time.Time
}

// New returns an engine drawing from src.
func New(src Source) *Engine {
	return &Engine{src: src, now: time.Now}
}

// NewSeeded returns an engine with a PCG source. A zero seed picks one from
// the clock.
func NewSeeded(seed uint64) *Engine {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Compute runs the full pipeline: brand draw, composition, age rule, tip draw.
func (e *Engine) Compute(p models.UserProfile) (*models.Recommendation, error) {
	comp, err := Compose(p)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	brand := PickBrand(e.src, p.FootwearPreference)
	tip := PickTip(e.src)
	e.mu.Unlock()

	return &models.Recommendation{
		Brand:         DecorateBrand(brand, p),
		MaterialSpec:  comp.MaterialSpec,
		Justification: comp.Justification,
		Tip:           tip,
		GeneratedAt:   e.now().UTC(),
	}, nil
}
