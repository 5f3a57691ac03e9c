// Package encounter rolls wild creatures for the explore flow. Descriptors
// are transient: they round-trip through the caller between turns and are
// never persisted.
package encounter

import (
	"context"
	"errors"

	"pokegame/internal/catalog"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/rng"
	"pokegame/pkg/platform/sentinel"
)

// Wild describes one wild creature for the duration of an encounter.
type Wild struct {
	SpeciesID     int64   `json:"speciesId"`
	Name          string  `json:"name"`
	Sprite        string  `json:"sprite"`
	Level         int     `json:"level"`
	HP            int     `json:"hp"`
	MaxHP         int     `json:"maxHp"`
	Attack        int     `json:"attack"`
	BaseCatchRate float64 `json:"baseCatchRate"`
}

// SpeciesSource is the catalog slice the generator draws from.
type SpeciesSource interface {
	SpeciesList(ctx context.Context) ([]catalog.Species, error)
}

// Generator produces wild encounters from the species catalog.
type Generator struct {
	species SpeciesSource
	random  rng.RNG
}

func NewGenerator(species SpeciesSource, random rng.RNG) *Generator {
	return &Generator{species: species, random: random}
}

// Generate rolls a wild creature: random species, level 1-10, attack 5-19,
// full HP 30-59. Pure generation, no side effects.
func (g *Generator) Generate(ctx context.Context) (*Wild, error) {
	list, err := g.species.SpeciesList(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "species catalog is unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list species")
	}
	if len(list) == 0 {
		return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "species catalog is empty")
	}

	sp := list[g.random.IntN(len(list))]
	hp := g.random.IntN(30) + 30
	return &Wild{
		SpeciesID:     sp.ID,
		Name:          sp.Name,
		Sprite:        sp.Sprite,
		Level:         g.random.IntN(10) + 1,
		HP:            hp,
		MaxHP:         hp,
		Attack:        g.random.IntN(15) + 5,
		BaseCatchRate: sp.BaseCatchRate,
	}, nil
}
