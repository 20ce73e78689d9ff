// Package repository reads and writes the relational store with gorm.
package repository

import (
	"errors"
	"fmt"

	"fresh/internal/matching"
	"fresh/internal/media"
	"fresh/internal/models"

	"github.com/jinzhu/gorm"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrEmailExists is returned when registering an email that is taken
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned when an email/password pair does not match
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Store groups the repositories sharing one connection
type Store struct {
	db      *gorm.DB
	Recipes *Recipes
	Users   *Users
	Pantry  *Pantry
	Media   *MediaLibrary
}

// New creates a Store over db. host serves media uploads and URLs.
func New(db *gorm.DB, host media.Host) *Store {
	return &Store{
		db:      db,
		Recipes: &Recipes{db: db},
		Users:   &Users{db: db},
		Pantry:  &Pantry{db: db},
		Media:   &MediaLibrary{db: db, host: host},
	}
}

// Ping checks the database connection
func (s *Store) Ping() error {
	return s.db.DB().Ping()
}

// AIMenu returns the catalog recipes that userID's pantry fully covers
func (s *Store) AIMenu(userID uint) ([]models.Recipe, error) {
	pantry, err := s.Pantry.List(userID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.Recipes.List()
	if err != nil {
		return nil, err
	}
	return matching.MatchableRecipes(pantry, catalog), nil
}

func notFound(err error, what string, id uint) error {
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %d: %w", what, id, err)
}
