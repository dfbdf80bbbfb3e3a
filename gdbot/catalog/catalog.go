package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Rarity is a closed set of card rarity tiers, ordered from most to least
// common. Stored in the database by label, never by ordinal.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityLabels = map[Rarity]string{
	RarityCommon:    "Common",
	RarityRare:      "Rare",
	RarityEpic:      "Epic",
	RarityLegendary: "Legendary",
}

func (r Rarity) String() string {
	if label, ok := rarityLabels[r]; ok {
		return label
	}
	return fmt.Sprintf("Rarity(%d)", int(r))
}

// ParseRarity maps a stored label back to its Rarity. Unknown labels are an
// error so that drift between draw-time and query-time labels is caught.
func ParseRarity(label string) (Rarity, error) {
	for r, l := range rarityLabels {
		if l == label {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rarity label %q", label)
}

// Rarities returns all tiers in display order.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

const (
	MinStarValue = 1
	MaxStarValue = 10
)

// Template is an immutable card archetype concrete cards are drawn from.
type Template struct {
	Name     string `toml:"name"`
	MinStars int    `toml:"min_stars"`
	MaxStars int    `toml:"max_stars"`
	Secret   bool   `toml:"secret"`
}

// ImageRef derives the stable image path for a template name: lowercase,
// spaces replaced with underscores, under the cards/ prefix.
func ImageRef(name string) string {
	return "cards/" + strings.ReplaceAll(strings.ToLower(name), " ", "_") + ".jpg"
}

// RarityWeight is one entry of the weighted rarity table. Weights need not
// sum to 100; the resolver normalizes over the total.
type RarityWeight struct {
	Rarity Rarity
	Weight int
}

// SecretCard is the fixed distinguished card emitted by the secret override.
type SecretCard struct {
	Name     string `toml:"name"`
	Stars    int    `toml:"stars"`
	Rarity   Rarity `toml:"-"`
	ImageRef string `toml:"image_ref"`
}

// Catalog is the process-wide immutable card configuration, loaded once at
// startup. A malformed catalog is a fatal configuration error.
type Catalog struct {
	templates   []Template
	rarityTable []RarityWeight
	secret      SecretCard
}

// Templates returns the ordered template set.
func (c *Catalog) Templates() []Template { return c.templates }

// RarityTable returns the weighted rarity table.
func (c *Catalog) RarityTable() []RarityWeight { return c.rarityTable }

// Secret returns the fixed secret card.
func (c *Catalog) Secret() SecretCard { return c.secret }

// Default returns the built-in GD catalog.
func Default() *Catalog {
	return &Catalog{
		templates: []Template{
			{Name: "Stereo Madness", MinStars: 1, MaxStars: 3},
			{Name: "Theory of Everything", MinStars: 4, MaxStars: 7},
			{Name: "Deadlocked", MinStars: 8, MaxStars: 10, Secret: true},
		},
		rarityTable: []RarityWeight{
			{RarityCommon, 70},
			{RarityRare, 20},
			{RarityEpic, 8},
			{RarityLegendary, 2},
		},
		secret: SecretCard{
			Name:     "The Vault",
			Stars:    MaxStarValue,
			Rarity:   RarityLegendary,
			ImageRef: "cards/the_vault.jpg",
		},
	}
}

type catalogFile struct {
	Templates []Template `toml:"templates"`
	Rarities  []struct {
		Label  string `toml:"label"`
		Weight int    `toml:"weight"`
	} `toml:"rarities"`
	Secret SecretCard `toml:"secret"`
}

// Load reads a catalog from a TOML file. The secret card rarity is always
// the top tier of the table.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	var cf catalogFile
	if err := toml.NewDecoder(file).Decode(&cf); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	cat := &Catalog{
		templates: cf.Templates,
		secret:    cf.Secret,
	}
	for _, rw := range cf.Rarities {
		rarity, err := ParseRarity(rw.Label)
		if err != nil {
			return nil, err
		}
		cat.rarityTable = append(cat.rarityTable, RarityWeight{Rarity: rarity, Weight: rw.Weight})
	}
	if n := len(cat.rarityTable); n > 0 {
		cat.secret.Rarity = cat.rarityTable[n-1].Rarity
	}
	if cat.secret.Stars == 0 {
		cat.secret.Stars = MaxStarValue
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Validate checks every catalog invariant. Called once at startup; a
// non-nil result must abort the process.
func (c *Catalog) Validate() error {
	if len(c.templates) == 0 {
		return fmt.Errorf("catalog has no templates")
	}
	seen := make(map[string]bool, len(c.templates))
	for _, t := range c.templates {
		if t.Name == "" {
			return fmt.Errorf("template with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate template %q", t.Name)
		}
		seen[t.Name] = true
		if t.MinStars < MinStarValue || t.MaxStars > MaxStarValue || t.MinStars > t.MaxStars {
			return fmt.Errorf("template %q has invalid star range [%d,%d]", t.Name, t.MinStars, t.MaxStars)
		}
	}

	if len(c.rarityTable) == 0 {
		return fmt.Errorf("catalog has no rarity table")
	}
	for _, rw := range c.rarityTable {
		if rw.Weight <= 0 {
			return fmt.Errorf("rarity %s has non-positive weight %d", rw.Rarity, rw.Weight)
		}
	}

	if c.secret.Name == "" {
		return fmt.Errorf("catalog has no secret card name")
	}
	if seen[c.secret.Name] {
		return fmt.Errorf("secret card name %q collides with a template", c.secret.Name)
	}
	if c.secret.Stars != MaxStarValue {
		return fmt.Errorf("secret card must have %d stars, got %d", MaxStarValue, c.secret.Stars)
	}
	return nil
}
