package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/gdcards/bot/gdbot/database/models"
	"github.com/uptrace/bun"
)

// ErrUserNotFound is the normal-path outcome for unregistered users, not a
// storage failure.
var ErrUserNotFound = errors.New("user not found")

// LeaderboardEntry is one ranked row of the leaderboard query.
type LeaderboardEntry struct {
	Username  string `bun:"username"`
	CardCount int64  `bun:"card_count"`
	StarSum   int64  `bun:"star_sum"`
}

type UserRepository interface {
	EnsureUser(ctx context.Context, discordID, username string) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	Leaderboard(ctx context.Context, limit int, includeEmpty bool) ([]LeaderboardEntry, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

// EnsureUser registers the user if absent. The username is first-write-wins:
// an existing row is left untouched, so repeated registrations are no-ops.
func (r *userRepository) EnsureUser(ctx context.Context, discordID, username string) error {
	now := time.Now()
	user := &models.User{
		DiscordID: discordID,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.db.NewInsert().
		Model(user).
		On("CONFLICT (discord_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		slog.Error("Failed to ensure user",
			slog.String("type", "db"),
			slog.String("operation", "EnsureUser"),
			slog.String("discord_id", discordID),
			slog.Any("error", err))
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows > 0 {
		slog.Info("Registered new user",
			slog.String("type", "db"),
			slog.String("discord_id", discordID),
			slog.String("username", username))
	}
	return nil
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		slog.Error("Database error when getting user",
			slog.String("type", "db"),
			slog.String("operation", "GetByDiscordID"),
			slog.String("discord_id", discordID),
			slog.String("error", err.Error()))
		return nil, err
	}
	return user, nil
}

// Leaderboard ranks registered users by collection score. Ties resolve by
// registration order (internal id), so repeated calls are deterministic.
// Zero-card users are kept only when includeEmpty is set.
func (r *userRepository) Leaderboard(ctx context.Context, limit int, includeEmpty bool) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry

	q := r.db.NewSelect().
		Model((*models.User)(nil)).
		ColumnExpr("u.username").
		ColumnExpr("COUNT(c.id) AS card_count").
		ColumnExpr("u.collection_score AS star_sum").
		Join("LEFT JOIN cards AS c ON c.user_id = u.discord_id").
		GroupExpr("u.id, u.username, u.collection_score").
		OrderExpr("u.collection_score DESC, u.id ASC").
		Limit(limit)

	if !includeEmpty {
		q = q.Having("COUNT(c.id) > 0")
	}

	if err := q.Scan(ctx, &entries); err != nil {
		slog.Error("Database error when building leaderboard",
			slog.String("type", "db"),
			slog.String("operation", "Leaderboard"),
			slog.String("error", err.Error()))
		return nil, err
	}
	return entries, nil
}
