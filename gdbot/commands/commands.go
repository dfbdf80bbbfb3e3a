package commands

import (
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/gdcards/bot/gdbot"
)

var Commands = []discord.ApplicationCommandCreate{
	Version,
	Start,
	Draw,
	Collection,
	Leaderboard,
	Profile,
}

// imageURL joins the configured image base URL with a card's image ref.
// Empty base means embeds go out without images.
func imageURL(b *gdbot.Bot, imageRef string) string {
	base := b.Cfg.Gacha.ImageBaseURL
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + imageRef
}
