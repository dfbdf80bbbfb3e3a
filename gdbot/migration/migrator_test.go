package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gdcards/bot/gdbot/catalog"
)

func TestLegacyRarityMapping(t *testing.T) {
	tests := []struct {
		label string
		want  catalog.Rarity
	}{
		{"Обычная", catalog.RarityCommon},
		{"Редкая", catalog.RarityRare},
		{"Эпическая", catalog.RarityEpic},
		{"Легендарная", catalog.RarityLegendary},
	}
	for _, tt := range tests {
		got, ok := legacyRarities[tt.label]
		if !ok {
			t.Errorf("legacyRarities missing %q", tt.label)
			continue
		}
		if got != tt.want {
			t.Errorf("legacyRarities[%q] = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestReadBSONFile(t *testing.T) {
	docs := []LegacyCard{
		{
			ID:       primitive.NewObjectID(),
			UserID:   12345,
			Name:     "Stereo Madness",
			Stars:    2,
			Rarity:   "Обычная",
			Obtained: time.Unix(1_600_000_000, 0).UTC(),
		},
		{
			ID:     primitive.NewObjectID(),
			UserID: 67890,
			Name:   "Deadlocked",
			Stars:  10,
			Rarity: "Легендарная",
		},
	}

	path := filepath.Join(t.TempDir(), "cards.bson")
	var dump []byte
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			t.Fatal(err)
		}
		dump = append(dump, raw...)
	}
	if err := os.WriteFile(path, dump, 0o644); err != nil {
		t.Fatal(err)
	}

	var got []LegacyCard
	err := readBSONFile(path, func(doc []byte) error {
		var lc LegacyCard
		if err := bson.Unmarshal(doc, &lc); err != nil {
			return err
		}
		got = append(got, lc)
		return nil
	})
	if err != nil {
		t.Fatalf("readBSONFile() error = %v", err)
	}

	if len(got) != len(docs) {
		t.Fatalf("document count = %d, want %d", len(got), len(docs))
	}
	for i := range docs {
		if got[i].UserID != docs[i].UserID || got[i].Name != docs[i].Name ||
			got[i].Stars != docs[i].Stars || got[i].Rarity != docs[i].Rarity {
			t.Errorf("doc[%d] = %+v, want %+v", i, got[i], docs[i])
		}
	}
}

func TestReadBSONFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bson")
	if err := os.WriteFile(path, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}

	err := readBSONFile(path, func([]byte) error { return nil })
	if err == nil {
		t.Fatal("readBSONFile() accepted a corrupt dump")
	}
}
