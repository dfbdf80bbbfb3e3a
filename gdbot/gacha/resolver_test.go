package gacha

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdcards/bot/gdbot/catalog"
)

func TestResolveStarsWithinTemplateRange(t *testing.T) {
	cat := catalog.Default()
	r := NewResolver(cat, 0)
	rng := rand.New(rand.NewSource(1))

	ranges := make(map[string][2]int, len(cat.Templates()))
	for _, tpl := range cat.Templates() {
		ranges[tpl.Name] = [2]int{tpl.MinStars, tpl.MaxStars}
	}

	for i := 0; i < 10_000; i++ {
		draft := r.Resolve(rng)
		bounds, ok := ranges[draft.Name]
		if !ok {
			t.Fatalf("Resolve() returned unknown template %q", draft.Name)
		}
		if draft.Stars < bounds[0] || draft.Stars > bounds[1] {
			t.Fatalf("Resolve() stars = %d for %q, want within [%d,%d]",
				draft.Stars, draft.Name, bounds[0], bounds[1])
		}
		if draft.ImageRef != catalog.ImageRef(draft.Name) {
			t.Fatalf("Resolve() image ref = %q, want %q", draft.ImageRef, catalog.ImageRef(draft.Name))
		}
	}
}

func TestResolveRarityDistribution(t *testing.T) {
	cat := catalog.Default()
	r := NewResolver(cat, 0)
	rng := rand.New(rand.NewSource(42))

	const draws = 100_000
	counts := make(map[catalog.Rarity]int)
	for i := 0; i < draws; i++ {
		counts[r.Resolve(rng).Rarity]++
	}

	total := 0
	for _, rw := range cat.RarityTable() {
		total += rw.Weight
	}

	for _, rw := range cat.RarityTable() {
		want := float64(rw.Weight) / float64(total)
		got := float64(counts[rw.Rarity]) / float64(draws)
		if math.Abs(got-want) > 0.01 {
			t.Errorf("rarity %s frequency = %.4f, want %.4f ±0.01", rw.Rarity, got, want)
		}
	}
}

func TestResolveRarityDistributionUnnormalizedWeights(t *testing.T) {
	// Weights sum to 98; the resolver normalizes over the total.
	path := filepath.Join(t.TempDir(), "catalog.toml")
	data := `
[[templates]]
name = "Stereo Madness"
min_stars = 1
max_stars = 3

[[rarities]]
label = "Common"
weight = 50

[[rarities]]
label = "Rare"
weight = 25

[[rarities]]
label = "Epic"
weight = 15

[[rarities]]
label = "Legendary"
weight = 8

[secret]
name = "The Vault"
stars = 10
image_ref = "cards/the_vault.jpg"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	r := NewResolver(cat, 0)
	rng := rand.New(rand.NewSource(99))

	const draws = 100_000
	counts := make(map[catalog.Rarity]int)
	for i := 0; i < draws; i++ {
		counts[r.Resolve(rng).Rarity]++
	}

	for _, rw := range cat.RarityTable() {
		want := float64(rw.Weight) / 98.0
		got := float64(counts[rw.Rarity]) / float64(draws)
		if math.Abs(got-want) > 0.01 {
			t.Errorf("rarity %s frequency = %.4f, want %.4f ±0.01", rw.Rarity, got, want)
		}
	}
}

func TestResolveSecretOverride(t *testing.T) {
	cat := catalog.Default()
	r := NewResolver(cat, 1)
	rng := rand.New(rand.NewSource(7))

	var secret Draft
	found := false
	for i := 0; i < 1000 && !found; i++ {
		if draft := r.Resolve(rng); draft.Secret {
			secret = draft
			found = true
		}
	}
	if !found {
		t.Fatal("no secret draft in 1000 draws with chance 1")
	}

	want := cat.Secret()
	if secret.Name != want.Name {
		t.Errorf("secret draft name = %q, want %q", secret.Name, want.Name)
	}
	if secret.Stars != want.Stars {
		t.Errorf("secret draft stars = %d, want %d", secret.Stars, want.Stars)
	}
	if secret.Rarity != want.Rarity {
		t.Errorf("secret draft rarity = %v, want %v", secret.Rarity, want.Rarity)
	}
	if secret.ImageRef != want.ImageRef {
		t.Errorf("secret draft image ref = %q, want %q", secret.ImageRef, want.ImageRef)
	}
}

func TestResolveZeroChanceNeverSecret(t *testing.T) {
	r := NewResolver(catalog.Default(), 0)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 10_000; i++ {
		if draft := r.Resolve(rng); draft.Secret {
			t.Fatalf("Resolve() produced a secret draft with chance 0 at draw %d", i)
		}
	}
}

func TestResolveSecretOnlyFromFlaggedTemplates(t *testing.T) {
	cat := catalog.Default()
	r := NewResolver(cat, 1)
	rng := rand.New(rand.NewSource(11))

	flagged := make(map[string]bool)
	for _, tpl := range cat.Templates() {
		if tpl.Secret {
			flagged[tpl.Name] = true
		}
	}

	for i := 0; i < 10_000; i++ {
		draft := r.Resolve(rng)
		if !draft.Secret && flagged[draft.Name] {
			t.Fatalf("flagged template %q resolved normally with chance 1", draft.Name)
		}
	}
}
