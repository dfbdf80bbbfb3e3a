package commands

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gdcards/bot/gdbot"
	"github.com/gdcards/bot/gdbot/database/models"
	"github.com/gdcards/bot/gdbot/engine"
	"github.com/gdcards/bot/gdbot/utils"
	"github.com/sahilm/fuzzy"
)

var Collection = discord.SlashCommandCreate{
	Name:        "collection",
	Description: "📦 Show your card collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Filter cards by name",
			Required:    false,
		},
	},
}

// BuildCollectionPages assembles the paginated collection view. The bool
// result reports an empty (possibly filtered-to-empty) collection.
func BuildCollectionPages(ctx context.Context, b *gdbot.Bot, userID, username, query, pageID string, creator snowflake.ID) (paginator.Pages, bool, error) {
	view, err := b.Engine.Collection(ctx, userID)
	if err != nil {
		return paginator.Pages{}, false, err
	}

	cards := view.Cards
	if query != "" {
		cards = filterCards(cards, query)
	}
	if len(cards) == 0 {
		return paginator.Pages{}, true, nil
	}

	summary := formatSummary(view)
	totalPages := int(math.Ceil(float64(len(cards)) / float64(utils.CardsPerPage)))

	return paginator.Pages{
		ID:      pageID,
		Creator: creator,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			startIdx := page * utils.CardsPerPage
			endIdx := min(startIdx+utils.CardsPerPage, len(cards))

			var description strings.Builder
			description.WriteString(summary)
			description.WriteString("```\n")
			if query != "" {
				description.WriteString(fmt.Sprintf("Filtering by: %s\n\n", query))
			}
			for _, card := range cards[startIdx:endIdx] {
				description.WriteString(fmt.Sprintf("#%d %s %s (%s)\n",
					card.ID,
					card.Name,
					utils.Stars(card.Stars),
					card.Rarity,
				))
			}
			description.WriteString("```")

			embed.
				SetTitle(fmt.Sprintf("📦 %s's collection", username)).
				SetDescription(description.String()).
				SetColor(utils.EmbedColor).
				SetFooter(fmt.Sprintf("Page %d/%d • %d cards • %d ⭐",
					page+1, totalPages, view.TotalCards, view.TotalStars), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false, nil
}

func formatSummary(view *engine.CollectionView) string {
	if len(view.Summary) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, row := range view.Summary {
		sb.WriteString(fmt.Sprintf("%s **%s** — %d cards, %d ⭐\n",
			utils.RarityEmoji(row.Rarity), row.Rarity, row.Count, row.StarSum))
	}
	sb.WriteString("\n")
	return sb.String()
}

// filterCards keeps fuzzy name matches, best matches first.
func filterCards(cards []*models.Card, query string) []*models.Card {
	names := make([]string, len(cards))
	for i, card := range cards {
		names[i] = card.Name
	}

	matches := fuzzy.Find(query, names)
	filtered := make([]*models.Card, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, cards[m.Index])
	}
	return filtered
}

func emptyCollectionMessage(query string) string {
	if query != "" {
		return fmt.Sprintf("No cards in your collection match `%s`.", query)
	}
	return "Your collection is empty! Use `/draw` to get your first card."
}

func CollectionHandler(b *gdbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		query := strings.TrimSpace(e.SlashCommandInteractionData().String("query"))

		pages, empty, err := BuildCollectionPages(ctx, b, e.User().ID.String(), e.User().Username, query, e.ID().String(), e.User().ID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch your collection. Please try again later.")
		}
		if empty {
			return e.CreateMessage(discord.MessageCreate{Content: emptyCollectionMessage(query)})
		}
		return b.Paginator.Create(e.Respond, pages, false)
	}
}
