package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the per-player profile. The internal autoincrement ID doubles as
// registration order for leaderboard tie breaking. Username is written on
// first registration only.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	DiscordID string `bun:"discord_id,notnull,unique"`
	Username  string `bun:"username,notnull"`

	// LastDraw is epoch seconds of the most recent successful draw,
	// 0 if the user has never drawn.
	LastDraw int64 `bun:"last_draw,notnull,default:0"`

	// CollectionScore is maintained incrementally and must always equal
	// the sum of stars over the user's cards.
	CollectionScore int64 `bun:"collection_score,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
