package gacha

import (
	"math/rand"

	"github.com/gdcards/bot/gdbot/catalog"
)

// Draft is the outcome of a single resolved draw before it is persisted.
type Draft struct {
	Name     string
	Stars    int
	Rarity   catalog.Rarity
	ImageRef string
	Secret   bool
}

// Resolver turns a random source into a concrete card draft. It holds no
// mutable state; the caller owns the rand.Rand and its synchronization.
type Resolver struct {
	catalog      *catalog.Catalog
	secretChance float64
}

func NewResolver(cat *catalog.Catalog, secretChance float64) *Resolver {
	return &Resolver{
		catalog:      cat,
		secretChance: secretChance,
	}
}

// Resolve picks a template uniformly, rolls stars uniformly within the
// template range and rarity by table weight. Templates flagged as secret
// sources get an independent low-probability roll that replaces the whole
// result with the fixed secret card.
func (r *Resolver) Resolve(rng *rand.Rand) Draft {
	templates := r.catalog.Templates()
	tpl := templates[rng.Intn(len(templates))]

	stars := tpl.MinStars + rng.Intn(tpl.MaxStars-tpl.MinStars+1)
	rarity := r.rollRarity(rng)

	if tpl.Secret && rng.Float64() < r.secretChance {
		secret := r.catalog.Secret()
		return Draft{
			Name:     secret.Name,
			Stars:    secret.Stars,
			Rarity:   secret.Rarity,
			ImageRef: secret.ImageRef,
			Secret:   true,
		}
	}

	return Draft{
		Name:     tpl.Name,
		Stars:    stars,
		Rarity:   rarity,
		ImageRef: catalog.ImageRef(tpl.Name),
	}
}

func (r *Resolver) rollRarity(rng *rand.Rand) catalog.Rarity {
	table := r.catalog.RarityTable()
	total := 0
	for _, rw := range table {
		total += rw.Weight
	}

	roll := rng.Intn(total)
	for _, rw := range table {
		if roll < rw.Weight {
			return rw.Rarity
		}
		roll -= rw.Weight
	}
	// Unreachable with a validated table.
	return table[len(table)-1].Rarity
}
