package store

import (
	"context"
	"errors"

	"github.com/kanban-dev/kanban/internal/apperr"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence layer for users, projects, tasks and
// memberships. Every multi-row mutation runs in a single transaction on
// the handle passed to New.
type Store struct {
	db     *gorm.DB
	hasher *auth.PasswordHasher
}

func New(db *gorm.DB, hasher *auth.PasswordHasher) *Store {
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultArgon2Params)
	}
	return &Store{db: db, hasher: hasher}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.conn(ctx).Transaction(fn)
}

// lockProject loads a project and takes a row lock on it for the rest of
// the transaction. SQLite ignores the locking clause and serialises
// writers on its own.
func lockProject(tx *gorm.DB, projectID uint) (*models.Project, error) {
	var project models.Project

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}

	return &project, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	return out
}
