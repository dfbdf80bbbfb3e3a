package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyUser is a user document from the predecessor bot's Mongo database.
type LegacyUser struct {
	ID       primitive.ObjectID `bson:"_id"`
	UserID   int64              `bson:"user_id"`
	Username string             `bson:"username"`
	LastDraw time.Time          `bson:"last_card_time"`
	Joined   time.Time          `bson:"joined"`
}

// LegacyCard is an issued card document from the predecessor bot. Rarity
// labels are the legacy Russian strings.
type LegacyCard struct {
	ID       primitive.ObjectID `bson:"_id"`
	UserID   int64              `bson:"user_id"`
	Name     string             `bson:"card_name"`
	Stars    int32              `bson:"stars"`
	Rarity   string             `bson:"rarity"`
	Image    string             `bson:"image_path"`
	Obtained time.Time          `bson:"obtained"`
}

// TableStats tracks per-table migration progress.
type TableStats struct {
	Processed int `json:"processed"`
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// MigrationStats tracks the whole run.
type MigrationStats struct {
	Tables    map[string]*TableStats `json:"tables"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
}
