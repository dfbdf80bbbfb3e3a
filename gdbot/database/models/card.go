package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Card is one issued card. Rows are append-only: created exactly once per
// successful draw, never updated or deleted. The autoincrement ID preserves
// insertion order for collection listings.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID       int64  `bun:"id,pk,autoincrement"`
	UserID   string `bun:"user_id,notnull"`
	Name     string `bun:"name,notnull"`
	Stars    int    `bun:"stars,notnull"`
	Rarity   string `bun:"rarity,notnull"`
	ImageRef string `bun:"image_ref,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
