package migration

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gdcards/bot/gdbot/catalog"
	"github.com/gdcards/bot/gdbot/database/models"
)

// legacyRarities maps the predecessor bot's Russian rarity labels onto the
// current closed set.
var legacyRarities = map[string]catalog.Rarity{
	"Обычная":     catalog.RarityCommon,
	"Редкая":      catalog.RarityRare,
	"Эпическая":   catalog.RarityEpic,
	"Легендарная": catalog.RarityLegendary,
}

// Migrator imports the predecessor bot's users and cards into Postgres.
// Source is either BSON dump files under dataDir or a live Mongo database
// set via UseMongo.
type Migrator struct {
	pgDB      *bun.DB
	dataDir   string
	usersPath string
	cardsPath string
	batchSize int

	stats MigrationStats

	mongoDB *mongo.Database

	// Optional pgx CopyFrom fast path for the cards table.
	useCopy bool
	pool    *pgxpool.Pool
}

func NewMigrator(pgDB *bun.DB, dataDir string) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		dataDir:   dataDir,
		usersPath: filepath.Join(dataDir, "users.bson"),
		cardsPath: filepath.Join(dataDir, "cards.bson"),
		batchSize: 1000,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
	}
}

// UseMongo switches the source to a live Mongo database instead of dump
// files.
func (m *Migrator) UseMongo(client *mongo.Client, dbName string) {
	m.mongoDB = client.Database(dbName)
}

// SetBatchSize overrides the default batch size for inserts.
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// SetUseCopy enables COPY FROM mode using pgx for card inserts.
func (m *Migrator) SetUseCopy(v bool) { m.useCopy = v }

// UsePool sets the pgx pool for COPY operations.
func (m *Migrator) UsePool(pool *pgxpool.Pool) { m.pool = pool }

// MigrateAll imports users, then cards, then recomputes collection scores
// from the imported cards.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	slog.Info("Starting legacy migration",
		slog.String("type", "db"),
		slog.String("source", m.sourceName()))

	if err := m.migrateUsers(ctx); err != nil {
		return fmt.Errorf("users migration failed: %w", err)
	}
	if err := m.migrateCards(ctx); err != nil {
		return fmt.Errorf("cards migration failed: %w", err)
	}
	if err := m.RecomputeScores(ctx); err != nil {
		return fmt.Errorf("score recompute failed: %w", err)
	}

	m.stats.EndTime = time.Now()
	m.logStats()
	return nil
}

func (m *Migrator) sourceName() string {
	if m.mongoDB != nil {
		return "mongo:" + m.mongoDB.Name()
	}
	return "dumps:" + m.dataDir
}

func (m *Migrator) tableStats(name string) *TableStats {
	ts, ok := m.stats.Tables[name]
	if !ok {
		ts = &TableStats{}
		m.stats.Tables[name] = ts
	}
	return ts
}

func (m *Migrator) migrateUsers(ctx context.Context) error {
	legacy, err := m.loadUsers(ctx)
	if err != nil {
		return err
	}

	ts := m.tableStats("users")
	batch := make([]*models.User, 0, m.batchSize)
	now := time.Now()

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (discord_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if rows, err := res.RowsAffected(); err == nil {
			ts.Inserted += int(rows)
		}
		batch = batch[:0]
		return nil
	}

	for _, lu := range legacy {
		ts.Processed++
		if lu.UserID == 0 {
			ts.Skipped++
			continue
		}

		var lastDraw int64
		if !lu.LastDraw.IsZero() {
			lastDraw = lu.LastDraw.Unix()
		}
		created := lu.Joined
		if created.IsZero() {
			created = now
		}

		batch = append(batch, &models.User{
			DiscordID: strconv.FormatInt(lu.UserID, 10),
			Username:  lu.Username,
			LastDraw:  lastDraw,
			CreatedAt: created,
			UpdatedAt: now,
		})
		if len(batch) >= m.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	slog.Info("Users migrated",
		slog.String("type", "db"),
		slog.Int("processed", ts.Processed),
		slog.Int("inserted", ts.Inserted),
		slog.Int("skipped", ts.Skipped))
	return nil
}

func (m *Migrator) migrateCards(ctx context.Context) error {
	legacy, err := m.loadCards(ctx)
	if err != nil {
		return err
	}

	ts := m.tableStats("cards")
	converted := make([]*models.Card, 0, len(legacy))
	now := time.Now()

	for _, lc := range legacy {
		ts.Processed++

		rarity, ok := legacyRarities[lc.Rarity]
		if !ok {
			// Unknown label means a corrupt document, not a new tier.
			slog.Warn("Skipping card with unknown rarity",
				slog.String("type", "db"),
				slog.String("rarity", lc.Rarity),
				slog.String("name", lc.Name))
			ts.Skipped++
			continue
		}
		if lc.UserID == 0 || lc.Name == "" {
			ts.Skipped++
			continue
		}

		imageRef := lc.Image
		if imageRef == "" {
			imageRef = catalog.ImageRef(lc.Name)
		}
		created := lc.Obtained
		if created.IsZero() {
			created = now
		}

		converted = append(converted, &models.Card{
			UserID:    strconv.FormatInt(lc.UserID, 10),
			Name:      lc.Name,
			Stars:     int(lc.Stars),
			Rarity:    rarity.String(),
			ImageRef:  imageRef,
			CreatedAt: created,
		})
	}

	if m.useCopy && m.pool != nil {
		if err := m.copyCards(ctx, converted); err != nil {
			return err
		}
		ts.Inserted = len(converted)
	} else {
		for start := 0; start < len(converted); start += m.batchSize {
			end := min(start+m.batchSize, len(converted))
			chunk := converted[start:end]
			if _, err := m.pgDB.NewInsert().Model(&chunk).Exec(ctx); err != nil {
				return err
			}
			ts.Inserted += len(chunk)
		}
	}

	slog.Info("Cards migrated",
		slog.String("type", "db"),
		slog.Int("processed", ts.Processed),
		slog.Int("inserted", ts.Inserted),
		slog.Int("skipped", ts.Skipped))
	return nil
}

// copyCards bulk-loads cards with pgx CopyFrom.
func (m *Migrator) copyCards(ctx context.Context, cards []*models.Card) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	rows := make([][]any, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []any{c.UserID, c.Name, c.Stars, c.Rarity, c.ImageRef, c.CreatedAt})
	}
	columns := []string{"user_id", "name", "stars", "rarity", "image_ref", "created_at"}

	if _, err := conn.Conn().CopyFrom(ctx, pgx.Identifier{"cards"}, columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy from failed: %w", err)
	}
	return nil
}

// RecomputeScores rebuilds every collection score from the cards relation
// so imported profiles start consistent.
func (m *Migrator) RecomputeScores(ctx context.Context) error {
	res, err := m.pgDB.NewUpdate().
		Model((*models.User)(nil)).
		Set("collection_score = COALESCE((SELECT SUM(c.stars) FROM cards AS c WHERE c.user_id = u.discord_id), 0)").
		Set("updated_at = ?", time.Now()).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil {
		slog.Info("Collection scores recomputed",
			slog.String("type", "db"),
			slog.Int64("users", rows))
	}
	return nil
}

func (m *Migrator) loadUsers(ctx context.Context) ([]LegacyUser, error) {
	if m.mongoDB != nil {
		var users []LegacyUser
		cursor, err := m.mongoDB.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &users); err != nil {
			return nil, err
		}
		return users, nil
	}

	var users []LegacyUser
	err := readBSONFile(m.usersPath, func(doc []byte) error {
		var lu LegacyUser
		if err := bson.Unmarshal(doc, &lu); err != nil {
			return err
		}
		users = append(users, lu)
		return nil
	})
	return users, err
}

func (m *Migrator) loadCards(ctx context.Context) ([]LegacyCard, error) {
	if m.mongoDB != nil {
		var cards []LegacyCard
		cursor, err := m.mongoDB.Collection("cards").Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &cards); err != nil {
			return nil, err
		}
		return cards, nil
	}

	var cards []LegacyCard
	err := readBSONFile(m.cardsPath, func(doc []byte) error {
		var lc LegacyCard
		if err := bson.Unmarshal(doc, &lc); err != nil {
			return err
		}
		cards = append(cards, lc)
		return nil
	})
	return cards, err
}

// readBSONFile iterates the length-prefixed documents of a mongodump .bson
// file.
func readBSONFile(path string, fn func(doc []byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		lengthBytes := make([]byte, 4)
		_, err := io.ReadFull(reader, lengthBytes)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read document length: %w", err)
		}

		length := int32(binary.LittleEndian.Uint32(lengthBytes))
		if length <= 4 || length > 16*1024*1024 {
			return fmt.Errorf("invalid document length: %d", length)
		}

		docBytes := make([]byte, length-4)
		if _, err := io.ReadFull(reader, docBytes); err != nil {
			return fmt.Errorf("failed to read document body: %w", err)
		}

		fullDoc := append(lengthBytes, docBytes...)
		if err := fn(fullDoc); err != nil {
			return err
		}
	}
}

func (m *Migrator) logStats() {
	for table, ts := range m.stats.Tables {
		slog.Info("Migration table summary",
			slog.String("type", "db"),
			slog.String("table", table),
			slog.Int("processed", ts.Processed),
			slog.Int("inserted", ts.Inserted),
			slog.Int("skipped", ts.Skipped),
			slog.Int("errors", ts.Errors))
	}
	slog.Info("Migration finished",
		slog.String("type", "db"),
		slog.Duration("took", m.stats.EndTime.Sub(m.stats.StartTime)))
}
