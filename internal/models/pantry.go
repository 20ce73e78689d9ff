package models

import (
	"fmt"
	"math"
	"time"
)

// PantryItem represents a food item a user currently owns
type PantryItem struct {
	ID             uint      `gorm:"primary_key" json:"id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	Name           string    `gorm:"not null" json:"name"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// TableName sets the table name for PantryItem
func (PantryItem) TableName() string {
	return "pantry"
}

// ExpirationStatus is derived from the expiration date and the current day
type ExpirationStatus string

const (
	StatusExpired  ExpirationStatus = "expired"
	StatusToday    ExpirationStatus = "today"
	StatusTomorrow ExpirationStatus = "tomorrow"
	StatusSoon     ExpirationStatus = "soon"
	StatusThisWeek ExpirationStatus = "this_week"
	StatusFresh    ExpirationStatus = "fresh"
)

// Day windows used by the pantry screen
const (
	expiringWindow = 7
	soonWindow     = 3
)

// DaysUntilExpiry returns whole calendar days between now and the expiration date.
// Negative values mean the item has expired.
func (p PantryItem) DaysUntilExpiry(now time.Time) int {
	exp := truncateDay(p.ExpirationDate.In(now.Location()))
	today := truncateDay(now)
	return int(math.Round(exp.Sub(today).Hours() / 24))
}

// ExpirationStatus classifies the item relative to now
func (p PantryItem) ExpirationStatus(now time.Time) ExpirationStatus {
	days := p.DaysUntilExpiry(now)
	switch {
	case days < 0:
		return StatusExpired
	case days == 0:
		return StatusToday
	case days == 1:
		return StatusTomorrow
	case days <= soonWindow:
		return StatusSoon
	case days <= expiringWindow:
		return StatusThisWeek
	default:
		return StatusFresh
	}
}

// ExpiringSoon reports whether the item expires before a week from now
func (p PantryItem) ExpiringSoon(now time.Time) bool {
	return p.ExpirationDate.Before(now.AddDate(0, 0, expiringWindow))
}

// ExpirationText renders the label shown next to a pantry item
func (p PantryItem) ExpirationText(now time.Time) string {
	days := p.DaysUntilExpiry(now)
	switch {
	case days < 0:
		return "Expired"
	case days == 0:
		return "Expiring Today"
	case days == 1:
		return "Expiring Tomorrow"
	case days <= soonWindow:
		return fmt.Sprintf("Expiring in %d Days", days)
	default:
		return fmt.Sprintf("%dd", days)
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
