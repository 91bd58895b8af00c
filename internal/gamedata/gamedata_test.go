package gamedata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKnownCodes(t *testing.T) {
	c := MustLoadClassifier()

	tests := []struct {
		name     string
		scheme   Scheme
		itemType int
		itemID   int
		want     Category
		label    string
	}{
		{"koban by id", SchemeItemID, 0, 0, CategoryCurrency, "Koban"},
		{"steel by id", SchemeItemID, 0, 3, CategoryForgeMaterial, "Steel"},
		{"dango by id", SchemeItemID, 1, 37, CategoryCollectible, "Moon dango"},
		{"event item by type", SchemeResourceType, 1, 8, CategoryCollectible, "Event item"},
		{"coolant by type", SchemeResourceType, 4, 0, CategoryForgeMaterial, "Coolant"},
		{"equipment kind", SchemeRewardKind, 3, 12, CategoryEquipment, "Equipment"},
		{"resource kind named by id", SchemeRewardKind, 5, 2, CategoryForgeMaterial, "Charcoal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.scheme, tt.itemType, tt.itemID)
			if got.Category != tt.want {
				t.Errorf("Classify() category = %v, want %v", got.Category, tt.want)
			}
			if got.Label() != tt.label {
				t.Errorf("Classify() label = %q, want %q", got.Label(), tt.label)
			}
		})
	}
}

func TestClassifyUnknownCodes(t *testing.T) {
	c := MustLoadClassifier()

	tests := []struct {
		name     string
		scheme   Scheme
		itemType int
		itemID   int
	}{
		{"unlisted id", SchemeItemID, 0, 9999},
		{"unlisted type", SchemeResourceType, 42, 0},
		{"unlisted kind", SchemeRewardKind, 7, 1},
		{"resource kind with unlisted resource", SchemeRewardKind, 5, 77},
		{"unknown scheme", Scheme(99), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.scheme, tt.itemType, tt.itemID)
			assert.Equal(t, CategoryUnknown, got.Category)
			assert.False(t, got.Known())
			assert.Equal(t, tt.itemType, got.Type)
			assert.Equal(t, tt.itemID, got.ID)
			assert.Contains(t, got.Label(), "unknown")
		})
	}
}

func TestLoadFSRejectsUnknownFields(t *testing.T) {
	fsys := fstest.MapFS{
		"rewards.json": {Data: []byte(`{"items":[{"id":1,"name":"x","category":"currency","colour":"red"}]}`)},
		"bad.json":     {Data: []byte(`{"items":[{"id":1,"category":"gold"}]}`)},
	}

	_, err := LoadFS[RewardTables](fsys, "rewards.json")
	assert.Error(t, err)

	_, err = LoadFS[RewardTables](fsys, "bad.json")
	assert.Error(t, err)

	_, err = LoadFS[RewardTables](fsys, "missing.json")
	assert.Error(t, err)
}

func TestCardRegistry(t *testing.T) {
	r := MustLoadCardRegistry()

	tests := []struct {
		id   int
		kind CardKind
		name string
	}{
		{504, CardWeapon, "Tachi"},
		{505, CardWeapon, "Wakizashi"},
		{243, CardHazard, "Poison arrow"},
		{301, CardGhostFire, "Ghost fire"},
		{999, CardBoss, "Boss"},
		{109, CardJewel, "Jewel"},
		{121, CardJewel, "Jewel"},
		{16, CardUnknown, "unknown"},
		{122, CardUnknown, "unknown"},
	}
	for _, tt := range tests {
		got := r.Resolve(tt.id)
		if got.Kind != tt.kind || got.Name != tt.name {
			t.Errorf("Resolve(%d) = %v %q, want %v %q", tt.id, got.Kind, got.Name, tt.kind, tt.name)
		}
	}

	assert.Len(t, r.Instruments(), 5)
	assert.Equal(t, 8, r.Count())
}

func TestJewelPointsDoublePerGhostFire(t *testing.T) {
	r := MustLoadCardRegistry()

	jewel := r.Resolve(115)
	assert.Equal(t, 16, jewel.JewelPoints(0))
	assert.Equal(t, 32, jewel.JewelPoints(1))
	assert.Equal(t, 128, jewel.JewelPoints(3))
	assert.Equal(t, 0, r.Resolve(504).JewelPoints(2))
}

func TestCatalogLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.sqlite3")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE swords (id INTEGER PRIMARY KEY, name TEXT NOT NULL, type TEXT, rare INTEGER)`,
		`CREATE TABLE equipments (id INTEGER PRIMARY KEY, name TEXT NOT NULL, soldier INTEGER)`,
		`INSERT INTO swords (id, name, type, rare) VALUES (3, 'Mikazuki Munechika', 'tachi', 1)`,
		`INSERT INTO equipments (id, name, soldier) VALUES (12, 'Heavy Cavalry (Gold)', 4)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	catalog, err := OpenCatalog(path)
	require.NoError(t, err)
	defer catalog.Close()

	ctx := context.Background()
	name, ok, err := catalog.SwordName(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Mikazuki Munechika", name)

	_, ok, err = catalog.SwordName(ctx, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	name, ok, err = catalog.EquipmentName(ctx, 12)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Heavy Cavalry (Gold)", name)
}

func TestNilCatalogIsEmpty(t *testing.T) {
	var c *Catalog
	_, ok, err := c.SwordName(context.Background(), 1)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}
