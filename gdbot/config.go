package gdbot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gdcards/bot/gdbot/database"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.Gacha.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log   LogConfig         `toml:"log"`
	Bot   BotConfig         `toml:"bot"`
	DB    database.DBConfig `toml:"db"`
	Gacha GachaConfig       `toml:"gacha"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// GachaConfig tunes the issuance rules. Zero values fall back to the legacy
// bot's behavior: 4 hour cooldown, 2% secret chance, top 10 board with
// zero-card users listed.
type GachaConfig struct {
	CooldownSeconds             int64   `toml:"cooldown_seconds"`
	SecretChance                float64 `toml:"secret_chance"`
	LeaderboardSize             int     `toml:"leaderboard_size"`
	ExcludeEmptyFromLeaderboard bool    `toml:"exclude_empty_from_leaderboard"`
	ImageBaseURL                string  `toml:"image_base_url"`
	CatalogPath                 string  `toml:"catalog_path"`
}

func (g *GachaConfig) applyDefaults() {
	if g.CooldownSeconds <= 0 {
		g.CooldownSeconds = int64((4 * time.Hour).Seconds())
	}
	if g.SecretChance <= 0 {
		g.SecretChance = 0.02
	}
	if g.LeaderboardSize <= 0 {
		g.LeaderboardSize = 10
	}
}

func (g *GachaConfig) Cooldown() time.Duration {
	return time.Duration(g.CooldownSeconds) * time.Second
}
