package gamedata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Catalog looks up display names in the reference database shipped with the
// client. The database has two tables, swords(id, name, ...) and
// equipments(id, name, ...).
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens the reference database at path read-only.
func OpenCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path is required")
	}
	db, err := sql.Open("sqlite", "file:"+filepath.Clean(path)+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	return NewCatalog(db), nil
}

// NewCatalog wraps an already open database.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Close releases the database.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SwordName returns the name of a sword by id. ok is false if the id is not
// in the catalog.
func (c *Catalog) SwordName(ctx context.Context, id int) (name string, ok bool, err error) {
	return c.lookup(ctx, "SELECT name FROM swords WHERE id = ?", id)
}

// EquipmentName returns the name of an equipment by id.
func (c *Catalog) EquipmentName(ctx context.Context, id int) (name string, ok bool, err error) {
	return c.lookup(ctx, "SELECT name FROM equipments WHERE id = ?", id)
}

func (c *Catalog) lookup(ctx context.Context, query string, id int) (string, bool, error) {
	if c == nil || c.db == nil {
		return "", false, nil
	}
	var name string
	err := c.db.QueryRowContext(ctx, query, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}
