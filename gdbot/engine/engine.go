package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/gdcards/bot/gdbot/catalog"
	"github.com/gdcards/bot/gdbot/database/models"
	"github.com/gdcards/bot/gdbot/database/repositories"
	"github.com/gdcards/bot/gdbot/gacha"
	lru "github.com/hashicorp/golang-lru"
)

const cacheSize = 512

// Config carries the tunable parts of the issuance rules.
type Config struct {
	Cooldown     time.Duration
	SecretChance float64

	// LeaderboardIncludesEmpty keeps registered zero-card users on the
	// leaderboard (with zero counts), matching the legacy bot's LEFT JOIN.
	LeaderboardIncludesEmpty bool

	CacheTTL time.Duration
}

// Engine is the card-issuance and collection-state facade. All storage goes
// through the injected repositories; the catalog is immutable after New.
type Engine struct {
	cfg      Config
	catalog  *catalog.Catalog
	resolver *gacha.Resolver
	users    repositories.UserRepository
	cards    repositories.CardRepository

	// rng is shared across draws and guarded by rngMu; rand.Rand is not
	// safe for concurrent use on its own.
	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time

	cache *lru.Cache
}

func New(cfg Config, cat *catalog.Catalog, users repositories.UserRepository, cards repositories.CardRepository) *Engine {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	cache, _ := lru.New(cacheSize)
	return &Engine{
		cfg:      cfg,
		catalog:  cat,
		resolver: gacha.NewResolver(cat, cfg.SecretChance),
		users:    users,
		cards:    cards,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		cache:    cache,
	}
}

// DrawResult is a successful draw: the persisted card and the full interval
// until the next one.
type DrawResult struct {
	Card       *models.Card
	Secret     bool
	NextDrawIn time.Duration
}

// RarityBreakdown is one row of a collection summary, in rarity tier order.
type RarityBreakdown struct {
	Rarity  catalog.Rarity
	Count   int64
	StarSum int64
}

// CollectionView is the per-rarity breakdown plus the full card list in
// draw order.
type CollectionView struct {
	Summary    []RarityBreakdown
	Cards      []*models.Card
	TotalCards int64
	TotalStars int64
}

// ProfileView aggregates one user's standing.
type ProfileView struct {
	Username        string
	TotalCards      int64
	TotalStars      int64
	UniqueTemplates int64
	LastDraw        int64
}

// Register creates the user's profile on first contact. Repeat calls are
// no-ops; the stored username is first-write-wins.
func (e *Engine) Register(ctx context.Context, userID, username string) error {
	err := withRetry(ctx, "register user", func() error {
		return e.users.EnsureUser(ctx, userID, username)
	})
	if err != nil {
		return err
	}
	e.cache.Remove(leaderboardKey)
	return nil
}

// Draw issues one card or reports the active cooldown. The gate check here
// is advisory; the store's conditional update is what serializes racing
// draws by the same user, so no lock is held across the random rolls.
func (e *Engine) Draw(ctx context.Context, userID string) (*DrawResult, error) {
	user, err := e.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.now().Unix()
	if cd := gacha.CheckCooldown(now, user.LastDraw, e.cfg.Cooldown); !cd.Allowed {
		return nil, &CooldownError{Remaining: cd.Remaining}
	}

	draft := e.resolve()
	card := &models.Card{
		UserID:   userID,
		Name:     draft.Name,
		Stars:    draft.Stars,
		Rarity:   draft.Rarity.String(),
		ImageRef: draft.ImageRef,
	}

	err = withRetry(ctx, "record draw", func() error {
		return e.cards.RecordDraw(ctx, card, now, e.cfg.Cooldown)
	})
	if errors.Is(err, repositories.ErrDrawRaced) {
		return nil, e.racedCooldown(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	e.invalidateUser(userID)
	return &DrawResult{Card: card, Secret: draft.Secret, NextDrawIn: e.cfg.Cooldown}, nil
}

// racedCooldown rebuilds the denial after a concurrent draw won the
// conditional update.
func (e *Engine) racedCooldown(ctx context.Context, userID string) error {
	remaining := e.cfg.Cooldown
	if user, err := e.getUser(ctx, userID); err == nil {
		if cd := gacha.CheckCooldown(e.now().Unix(), user.LastDraw, e.cfg.Cooldown); !cd.Allowed {
			remaining = cd.Remaining
		}
	}
	return &CooldownError{Remaining: remaining}
}

// Collection returns the user's cards and per-rarity breakdown. Users with
// no cards (registered or not) get an empty view.
func (e *Engine) Collection(ctx context.Context, userID string) (*CollectionView, error) {
	key := "collection:" + userID
	if view, ok := e.cached(key); ok {
		return view.(*CollectionView), nil
	}

	var cards []*models.Card
	err := withRetry(ctx, "list cards", func() error {
		var err error
		cards, err = e.cards.GetAllByUserID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	var summary []repositories.RaritySummary
	err = withRetry(ctx, "collection summary", func() error {
		var err error
		summary, err = e.cards.CollectionSummary(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	view := &CollectionView{Cards: cards}
	byRarity := make(map[catalog.Rarity]repositories.RaritySummary, len(summary))
	for _, s := range summary {
		rarity, err := catalog.ParseRarity(s.Rarity)
		if err != nil {
			// Stored label outside the closed set is an integrity
			// defect, not a user error.
			return nil, &StorageError{Op: "collection summary", Err: err}
		}
		byRarity[rarity] = s
	}
	for _, rarity := range catalog.Rarities() {
		s, ok := byRarity[rarity]
		if !ok {
			continue
		}
		view.Summary = append(view.Summary, RarityBreakdown{Rarity: rarity, Count: s.Count, StarSum: s.StarSum})
		view.TotalCards += s.Count
		view.TotalStars += s.StarSum
	}

	e.store(key, view)
	return view, nil
}

// Profile returns aggregate stats for a registered user.
func (e *Engine) Profile(ctx context.Context, userID string) (*ProfileView, error) {
	key := "profile:" + userID
	if view, ok := e.cached(key); ok {
		return view.(*ProfileView), nil
	}

	user, err := e.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var stats *repositories.ProfileStats
	err = withRetry(ctx, "profile stats", func() error {
		var err error
		stats, err = e.cards.GetProfileStats(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		Username:        user.Username,
		TotalCards:      stats.TotalCards,
		TotalStars:      stats.TotalStars,
		UniqueTemplates: stats.UniqueTemplates,
		LastDraw:        user.LastDraw,
	}
	e.store(key, view)
	return view, nil
}

const leaderboardKey = "leaderboard"

// Leaderboard ranks users by collection score, ties broken by registration
// order.
func (e *Engine) Leaderboard(ctx context.Context, limit int) ([]repositories.LeaderboardEntry, error) {
	if entries, ok := e.cached(leaderboardKey); ok {
		cached := entries.([]repositories.LeaderboardEntry)
		if len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	var entries []repositories.LeaderboardEntry
	err := withRetry(ctx, "leaderboard", func() error {
		var err error
		entries, err = e.users.Leaderboard(ctx, limit, e.cfg.LeaderboardIncludesEmpty)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.store(leaderboardKey, entries)
	return entries, nil
}

// Catalog exposes the immutable catalog for display purposes.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Cooldown returns the configured draw interval.
func (e *Engine) Cooldown() time.Duration { return e.cfg.Cooldown }

func (e *Engine) getUser(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User
	err := withRetry(ctx, "get profile", func() error {
		var err error
		user, err = e.users.GetByDiscordID(ctx, userID)
		return err
	})
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (e *Engine) resolve() gacha.Draft {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.resolver.Resolve(e.rng)
}

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

func (e *Engine) cached(key string) (interface{}, bool) {
	if raw, ok := e.cache.Get(key); ok {
		entry := raw.(cacheEntry)
		if e.now().Before(entry.expires) {
			return entry.value, true
		}
		e.cache.Remove(key)
	}
	return nil, false
}

func (e *Engine) store(key string, value interface{}) {
	e.cache.Add(key, cacheEntry{value: value, expires: e.now().Add(e.cfg.CacheTTL)})
}

func (e *Engine) invalidateUser(userID string) {
	e.cache.Remove("collection:" + userID)
	e.cache.Remove("profile:" + userID)
	e.cache.Remove(leaderboardKey)
}
