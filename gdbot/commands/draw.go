package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gdcards/bot/gdbot"
	"github.com/gdcards/bot/gdbot/catalog"
	"github.com/gdcards/bot/gdbot/engine"
	"github.com/gdcards/bot/gdbot/utils"
)

var Draw = discord.SlashCommandCreate{
	Name:        "draw",
	Description: "🎴 Draw a random card",
}

// BuildDrawMessage runs one draw for the user. Cooldown denials come back
// as a normal message, not an error.
func BuildDrawMessage(ctx context.Context, b *gdbot.Bot, user discord.User) (discord.MessageCreate, error) {
	userID := user.ID.String()
	if err := b.Engine.Register(ctx, userID, user.Username); err != nil {
		return discord.MessageCreate{}, err
	}

	result, err := b.Engine.Draw(ctx, userID)

	var cooldownErr *engine.CooldownError
	if errors.As(err, &cooldownErr) {
		return discord.MessageCreate{
			Embeds: []discord.Embed{
				{
					Title: "⏰ Not so fast!",
					Description: fmt.Sprintf("You can draw your next card in **%s**.",
						utils.FormatDuration(cooldownErr.Remaining)),
					Color: utils.WarningColor,
				},
			},
		}, nil
	}
	if err != nil {
		return discord.MessageCreate{}, err
	}

	card := result.Card
	rarity, _ := catalog.ParseRarity(card.Rarity)

	title := fmt.Sprintf("🎴 You got: %s", card.Name)
	if result.Secret {
		title = fmt.Sprintf("🔮 SECRET CARD: %s", card.Name)
	}

	embed := discord.Embed{
		Title: title,
		Description: fmt.Sprintf("⭐ Level: %s\n💎 Rarity: %s %s",
			utils.Stars(card.Stars),
			utils.RarityEmoji(rarity),
			card.Rarity),
		Color: utils.RarityColor(rarity),
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Next draw in %s • Drawn by %s",
				utils.FormatDuration(result.NextDrawIn),
				user.Username),
			IconURL: user.EffectiveAvatarURL(),
		},
	}
	if url := imageURL(b, card.ImageRef); url != "" {
		embed.Image = &discord.EmbedResource{URL: url}
	}

	return discord.MessageCreate{Embeds: []discord.Embed{embed}}, nil
}

func DrawHandler(b *gdbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		msg, err := BuildDrawMessage(ctx, b, e.User())
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to draw a card. Please try again later.")
		}
		return e.CreateMessage(msg)
	}
}
