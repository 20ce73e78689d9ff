package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fresh/internal/models"

	"github.com/jinzhu/gorm"
)

// ErrEmptyName is returned when a pantry item has no name
var ErrEmptyName = errors.New("pantry item name is required")

// Pantry stores the food items each user owns
type Pantry struct {
	db *gorm.DB
}

// List returns the user's items, soonest expiry first
func (p *Pantry) List(userID uint) ([]models.PantryItem, error) {
	items := []models.PantryItem{}
	if err := p.db.Where("user_id = ?", userID).Order("expiration_date, id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list pantry: %w", err)
	}
	return items, nil
}

// Add stores a new item
func (p *Pantry) Add(item *models.PantryItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return ErrEmptyName
	}
	item.ID = 0
	if err := p.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add pantry item: %w", err)
	}
	return nil
}

// Remove deletes one of the user's items
func (p *Pantry) Remove(userID, id uint) error {
	res := p.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.PantryItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove pantry item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pantry item %d: %w", id, ErrNotFound)
	}
	return nil
}

// Expiring returns the user's items that expire within a week of now
func (p *Pantry) Expiring(userID uint, now time.Time) ([]models.PantryItem, error) {
	items, err := p.List(userID)
	if err != nil {
		return nil, err
	}
	out := []models.PantryItem{}
	for _, item := range items {
		if item.ExpiringSoon(now) {
			out = append(out, item)
		}
	}
	return out, nil
}
