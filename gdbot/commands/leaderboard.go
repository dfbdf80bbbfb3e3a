package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/gdcards/bot/gdbot"
	"github.com/gdcards/bot/gdbot/utils"
)

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "🏆 Show the top collectors",
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

// BuildLeaderboardMessage renders the ranked top collectors.
func BuildLeaderboardMessage(ctx context.Context, b *gdbot.Bot) (discord.MessageCreate, error) {
	entries, err := b.Engine.Leaderboard(ctx, b.Cfg.Gacha.LeaderboardSize)
	if err != nil {
		return discord.MessageCreate{}, err
	}

	if len(entries) == 0 {
		return discord.MessageCreate{
			Content: "The leaderboard is empty. Use `/start` to be the first!",
		}, nil
	}

	var description strings.Builder
	for i, entry := range entries {
		description.WriteString(fmt.Sprintf("%s **%s** — %s cards • %s ⭐\n",
			medal(i+1),
			entry.Username,
			utils.FormatNumber(entry.CardCount),
			utils.FormatNumber(entry.StarSum),
		))
	}

	return discord.MessageCreate{
		Embeds: []discord.Embed{
			{
				Title:       "🏆 Top collectors",
				Description: description.String(),
				Color:       utils.EmbedColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Top %d by total stars", len(entries)),
				},
			},
		},
	}, nil
}

func LeaderboardHandler(b *gdbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		msg, err := BuildLeaderboardMessage(ctx, b)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch the leaderboard. Please try again later.")
		}
		return e.CreateMessage(msg)
	}
}
