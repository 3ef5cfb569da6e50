package site

import (
	"math/rand/v2"

	"github.com/nikbrunner/folio/internal/model"
)

// HeroPicker chooses the home page hero image uniformly at random.
type HeroPicker struct {
	heroes []model.HeroImage
	rng    *rand.Rand // nil uses the global source
}

// NewHeroPicker creates a picker. Pass a seeded rng for repeatable picks.
func NewHeroPicker(heroes []model.HeroImage, rng *rand.Rand) *HeroPicker {
	return &HeroPicker{heroes: heroes, rng: rng}
}

// Pick returns a random hero image, or false when there are none.
func (h *HeroPicker) Pick() (model.HeroImage, bool) {
	if len(h.heroes) == 0 {
		return model.HeroImage{}, false
	}
	var i int
	if h.rng != nil {
		i = h.rng.IntN(len(h.heroes))
	} else {
		i = rand.IntN(len(h.heroes))
	}
	return h.heroes[i], true
}
