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

// MenuComponentHandler routes the /start menu buttons to the same builders
// the slash commands use.
func MenuComponentHandler(b *gdbot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		data, ok := e.Data.(discord.ButtonInteractionData)
		if !ok {
			return fmt.Errorf("invalid interaction type")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		action := strings.TrimPrefix(data.CustomID(), "/menu/")
		switch action {
		case "draw":
			msg, err := BuildDrawMessage(ctx, b, e.User())
			if err != nil {
				return utils.EH.CreateEphemeralError(e, "Failed to draw a card. Please try again later.")
			}
			return e.CreateMessage(msg)

		case "collection":
			pages, empty, err := BuildCollectionPages(ctx, b, e.User().ID.String(), e.User().Username, "", e.ID().String(), e.User().ID)
			if err != nil {
				return utils.EH.CreateEphemeralError(e, "Failed to fetch your collection. Please try again later.")
			}
			if empty {
				return e.CreateMessage(discord.MessageCreate{Content: emptyCollectionMessage("")})
			}
			return b.Paginator.Create(e.Respond, pages, false)

		case "leaderboard":
			msg, err := BuildLeaderboardMessage(ctx, b)
			if err != nil {
				return utils.EH.CreateEphemeralError(e, "Failed to fetch the leaderboard. Please try again later.")
			}
			return e.CreateMessage(msg)

		case "profile":
			msg, err := BuildProfileMessage(ctx, b, e.User())
			if err != nil {
				return utils.EH.CreateEphemeralError(e, "Failed to fetch your profile. Please try again later.")
			}
			return e.CreateMessage(msg)

		default:
			return fmt.Errorf("unknown menu action: %s", action)
		}
	}
}
