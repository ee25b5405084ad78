// Package music provides database operations for artists, albums and songs.
//
// This package implements the Store interface defined in internal/catalog.
//
// # Interface Implementation
//
//	var _ catalog.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := music.NewRepository(db)
//	service := catalog.NewService(repo, catalog.Options{})
//
// Name lookups are exact and case-sensitive on every dialect and carry no
// ORDER BY, so with duplicate names the row returned first is whichever the
// database yields first. Lists are ordered by id.
package music

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/music-library/internal/catalog"
)

// Repository handles artist, album and song database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new music repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn with a repository bound to one database transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx catalog.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// nameEquals is an exact, case-sensitive name predicate. MySQL's default
// collations compare case-insensitively, so the argument is cast to binary.
func (r *Repository) nameEquals() string {
	if r.db.Dialector.Name() == "mysql" {
		return "name = BINARY ?"
	}
	return "name = ?"
}

// notFound maps gorm's missing-row error to catalog.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.ErrNotFound
	}
	return err
}

// nullable turns a nil pointer into SQL NULL for column updates.
func nullable[T any](v *T) any {
	if v == nil {
		return gorm.Expr("NULL")
	}
	return *v
}
