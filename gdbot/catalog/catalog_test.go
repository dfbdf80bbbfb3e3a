package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestParseRarity(t *testing.T) {
	tests := []struct {
		label   string
		want    Rarity
		wantErr bool
	}{
		{label: "Common", want: RarityCommon},
		{label: "Rare", want: RarityRare},
		{label: "Epic", want: RarityEpic},
		{label: "Legendary", want: RarityLegendary},
		{label: "common", wantErr: true},
		{label: "Mythic", wantErr: true},
		{label: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseRarity(tt.label)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseRarity(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRarity(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestRarityRoundTrip(t *testing.T) {
	for _, r := range Rarities() {
		got, err := ParseRarity(r.String())
		if err != nil {
			t.Fatalf("ParseRarity(%q) error = %v", r.String(), err)
		}
		if got != r {
			t.Errorf("ParseRarity(%q) = %v, want %v", r.String(), got, r)
		}
	}
}

func TestImageRef(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Stereo Madness", want: "cards/stereo_madness.jpg"},
		{name: "Deadlocked", want: "cards/deadlocked.jpg"},
		{name: "Theory of Everything", want: "cards/theory_of_everything.jpg"},
	}
	for _, tt := range tests {
		if got := ImageRef(tt.name); got != tt.want {
			t.Errorf("ImageRef(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	data := `
[[templates]]
name = "Stereo Madness"
min_stars = 1
max_stars = 3

[[templates]]
name = "Deadlocked"
min_stars = 8
max_stars = 10
secret = true

[[rarities]]
label = "Common"
weight = 70

[[rarities]]
label = "Legendary"
weight = 30

[secret]
name = "The Vault"
stars = 10
image_ref = "cards/the_vault.jpg"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := len(cat.Templates()); got != 2 {
		t.Errorf("template count = %d, want 2", got)
	}
	if got := len(cat.RarityTable()); got != 2 {
		t.Errorf("rarity table length = %d, want 2", got)
	}
	secret := cat.Secret()
	if secret.Name != "The Vault" {
		t.Errorf("secret name = %q, want %q", secret.Name, "The Vault")
	}
	if secret.Rarity != RarityLegendary {
		t.Errorf("secret rarity = %v, want last table tier %v", secret.Rarity, RarityLegendary)
	}
}

func TestLoadRejectsUnknownRarityLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	data := `
[[templates]]
name = "Stereo Madness"
min_stars = 1
max_stars = 3

[[rarities]]
label = "Mythic"
weight = 100

[secret]
name = "The Vault"
stars = 10
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() accepted an unknown rarity label")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Catalog { return Default() }

	tests := []struct {
		name    string
		mutate  func(c *Catalog)
		wantErr bool
	}{
		{
			name:   "valid default",
			mutate: func(c *Catalog) {},
		},
		{
			name:    "no templates",
			mutate:  func(c *Catalog) { c.templates = nil },
			wantErr: true,
		},
		{
			name: "duplicate template names",
			mutate: func(c *Catalog) {
				c.templates = append(c.templates, c.templates[0])
			},
			wantErr: true,
		},
		{
			name: "star range below minimum",
			mutate: func(c *Catalog) {
				c.templates[0].MinStars = 0
			},
			wantErr: true,
		},
		{
			name: "star range above maximum",
			mutate: func(c *Catalog) {
				c.templates[0].MaxStars = 11
			},
			wantErr: true,
		},
		{
			name: "inverted star range",
			mutate: func(c *Catalog) {
				c.templates[0].MinStars = 5
				c.templates[0].MaxStars = 2
			},
			wantErr: true,
		},
		{
			name:    "empty rarity table",
			mutate:  func(c *Catalog) { c.rarityTable = nil },
			wantErr: true,
		},
		{
			name: "zero weight",
			mutate: func(c *Catalog) {
				c.rarityTable[0].Weight = 0
			},
			wantErr: true,
		},
		{
			name: "secret name collides with template",
			mutate: func(c *Catalog) {
				c.secret.Name = c.templates[0].Name
			},
			wantErr: true,
		},
		{
			name: "secret card below max stars",
			mutate: func(c *Catalog) {
				c.secret.Stars = 9
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
