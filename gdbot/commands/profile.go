package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gdcards/bot/gdbot"
	"github.com/gdcards/bot/gdbot/engine"
	"github.com/gdcards/bot/gdbot/gacha"
	"github.com/gdcards/bot/gdbot/utils"
)

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "👤 Show your collector profile",
}

// BuildProfileMessage renders a registered user's stats. Unregistered users
// get a pointer to /start instead of an error.
func BuildProfileMessage(ctx context.Context, b *gdbot.Bot, user discord.User) (discord.MessageCreate, error) {
	view, err := b.Engine.Profile(ctx, user.ID.String())
	if errors.Is(err, engine.ErrNotFound) {
		return discord.MessageCreate{
			Embeds: []discord.Embed{
				{
					Title:       "👤 No profile yet",
					Description: "You are not registered. Use `/start` to begin collecting!",
					Color:       utils.WarningColor,
				},
			},
		}, nil
	}
	if err != nil {
		return discord.MessageCreate{}, err
	}

	lastDraw := "Never"
	nextDraw := "Now!"
	if view.LastDraw > 0 {
		lastDraw = fmt.Sprintf("<t:%d:R>", view.LastDraw)
		if cd := gacha.CheckCooldown(time.Now().Unix(), view.LastDraw, b.Engine.Cooldown()); !cd.Allowed {
			nextDraw = utils.FormatDuration(cd.Remaining)
		}
	}

	embed := discord.Embed{
		Title: fmt.Sprintf("👤 %s's profile", view.Username),
		Description: fmt.Sprintf(
			"🎴 Cards: **%s**\n"+
				"⭐ Total stars: **%s**\n"+
				"🗂️ Unique levels: **%s**\n"+
				"🕐 Last draw: %s\n"+
				"⏰ Next draw: **%s**",
			utils.FormatNumber(view.TotalCards),
			utils.FormatNumber(view.TotalStars),
			utils.FormatNumber(view.UniqueTemplates),
			lastDraw,
			nextDraw,
		),
		Color: utils.EmbedColor,
		Thumbnail: &discord.EmbedResource{
			URL: user.EffectiveAvatarURL(),
		},
	}

	return discord.MessageCreate{Embeds: []discord.Embed{embed}}, nil
}

func ProfileHandler(b *gdbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		msg, err := BuildProfileMessage(ctx, b, e.User())
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your profile. Please try again later.")
		}
		return e.CreateMessage(msg)
	}
}
