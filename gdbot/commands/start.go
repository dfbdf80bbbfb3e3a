package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gdcards/bot/gdbot"
	"github.com/gdcards/bot/gdbot/utils"
)

var Start = discord.SlashCommandCreate{
	Name:        "start",
	Description: "🎮 Register and open the GD Cards menu",
}

// MenuComponents is the main keyboard shown on /start, mirroring the legacy
// bot's four inline buttons.
func MenuComponents() []discord.ContainerComponent {
	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewPrimaryButton("🎴 Draw a card", "/menu/draw"),
			discord.NewSecondaryButton("📦 My collection", "/menu/collection"),
		),
		discord.NewActionRow(
			discord.NewSecondaryButton("🏆 Leaderboard", "/menu/leaderboard"),
			discord.NewSecondaryButton("👤 Profile", "/menu/profile"),
		),
	}
}

// BuildStartMessage registers the user and builds the welcome message.
// Registration is idempotent; an existing profile keeps its original name.
func BuildStartMessage(ctx context.Context, b *gdbot.Bot, user discord.User) (discord.MessageCreate, error) {
	if err := b.Engine.Register(ctx, user.ID.String(), user.Username); err != nil {
		return discord.MessageCreate{}, err
	}

	return discord.MessageCreate{
		Embeds: []discord.Embed{
			{
				Title: "🎮 Welcome to GD Cards!",
				Description: fmt.Sprintf(
					"Hey %s! Collect cards of Geometry Dash levels and compete with other players.\n\n"+
						"Draw a new card every **%s** and climb the leaderboard!",
					user.Username,
					utils.FormatDuration(b.Engine.Cooldown()),
				),
				Color: utils.EmbedColor,
			},
		},
		Components: MenuComponents(),
	}, nil
}

func StartHandler(b *gdbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		msg, err := BuildStartMessage(ctx, b, e.User())
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to register you. Please try again later.")
		}
		return e.CreateMessage(msg)
	}
}
