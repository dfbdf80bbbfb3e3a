package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdcards/bot/gdbot/database/models"
	"github.com/uptrace/bun"
)

// ErrDrawRaced is returned when the conditional cooldown update matched no
// row: a concurrent draw by the same user won between the gate check and the
// write. The transaction is rolled back and nothing is recorded.
var ErrDrawRaced = errors.New("draw lost cooldown race")

// RaritySummary is one group of the per-rarity collection breakdown.
type RaritySummary struct {
	Rarity  string `bun:"rarity"`
	Count   int64  `bun:"count"`
	StarSum int64  `bun:"star_sum"`
}

// ProfileStats are the aggregate numbers shown on a profile.
type ProfileStats struct {
	TotalCards      int64 `bun:"total_cards"`
	TotalStars      int64 `bun:"total_stars"`
	UniqueTemplates int64 `bun:"unique_templates"`
}

// ScoreMismatch reports a user whose incremental score drifted from the sum
// over their cards.
type ScoreMismatch struct {
	DiscordID string `bun:"discord_id"`
	Score     int64  `bun:"score"`
	Actual    int64  `bun:"actual"`
}

type CardRepository interface {
	RecordDraw(ctx context.Context, card *models.Card, now int64, interval time.Duration) error
	GetAllByUserID(ctx context.Context, userID string) ([]*models.Card, error)
	CollectionSummary(ctx context.Context, userID string) ([]RaritySummary, error)
	GetProfileStats(ctx context.Context, userID string) (*ProfileStats, error)
	FindScoreMismatches(ctx context.Context) ([]ScoreMismatch, error)
	RepairScore(ctx context.Context, discordID string) error
}

type cardRepository struct {
	db *bun.DB
}

func NewCardRepository(db *bun.DB) CardRepository {
	return &cardRepository{db: db}
}

// RecordDraw persists one issued card in a single transaction: the profile
// update (last draw timestamp + score increment) is conditional on the
// cooldown still being open, so two racing draws cannot both commit. The
// card insert and the profile update are all-or-nothing.
func (r *cardRepository) RecordDraw(ctx context.Context, card *models.Card, now int64, interval time.Duration) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("last_draw = ?", now).
			Set("collection_score = collection_score + ?", card.Stars).
			Set("updated_at = ?", time.Now()).
			Where("discord_id = ?", card.UserID).
			Where("last_draw = 0 OR ? - last_draw >= ?", now, int64(interval/time.Second)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrDrawRaced
		}

		card.CreatedAt = time.Now()
		if _, err := tx.NewInsert().Model(card).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}

		slog.Info("Recorded draw",
			slog.String("type", "db"),
			slog.String("user_id", card.UserID),
			slog.String("card", card.Name),
			slog.Int("stars", card.Stars),
			slog.String("rarity", card.Rarity))
		return nil
	})
}

func (r *cardRepository) GetAllByUserID(ctx context.Context, userID string) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// CollectionSummary groups a user's cards by rarity. An empty result is the
// normal outcome for users without cards.
func (r *cardRepository) CollectionSummary(ctx context.Context, userID string) ([]RaritySummary, error) {
	var summary []RaritySummary
	err := r.db.NewSelect().
		Model((*models.Card)(nil)).
		ColumnExpr("rarity").
		ColumnExpr("COUNT(*) AS count").
		ColumnExpr("SUM(stars) AS star_sum").
		Where("user_id = ?", userID).
		Group("rarity").
		Scan(ctx, &summary)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *cardRepository) GetProfileStats(ctx context.Context, userID string) (*ProfileStats, error) {
	stats := new(ProfileStats)
	err := r.db.NewSelect().
		Model((*models.Card)(nil)).
		ColumnExpr("COUNT(*) AS total_cards").
		ColumnExpr("COALESCE(SUM(stars), 0) AS total_stars").
		ColumnExpr("COUNT(DISTINCT name) AS unique_templates").
		Where("user_id = ?", userID).
		Scan(ctx, stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// FindScoreMismatches compares every profile's incremental score against the
// true sum over the cards relation.
func (r *cardRepository) FindScoreMismatches(ctx context.Context) ([]ScoreMismatch, error) {
	var mismatches []ScoreMismatch
	err := r.db.NewSelect().
		Model((*models.User)(nil)).
		ColumnExpr("u.discord_id").
		ColumnExpr("u.collection_score AS score").
		ColumnExpr("COALESCE(SUM(c.stars), 0) AS actual").
		Join("LEFT JOIN cards AS c ON c.user_id = u.discord_id").
		GroupExpr("u.id, u.discord_id, u.collection_score").
		Having("u.collection_score <> COALESCE(SUM(c.stars), 0)").
		Scan(ctx, &mismatches)
	if err != nil {
		return nil, err
	}
	return mismatches, nil
}

// RepairScore recomputes one user's score from the cards relation, which is
// the source of truth for any detected drift.
func (r *cardRepository) RepairScore(ctx context.Context, discordID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("collection_score = (SELECT COALESCE(SUM(stars), 0) FROM cards WHERE user_id = ?)", discordID).
		Set("updated_at = ?", time.Now()).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to repair score for %s: %w", discordID, err)
	}

	slog.Warn("Repaired collection score",
		slog.String("type", "db"),
		slog.String("discord_id", discordID))
	return nil
}
