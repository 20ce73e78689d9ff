package api

import (
	"errors"
	"net/http"
	"time"

	"fresh/internal/auth"
	"fresh/internal/models"
	"fresh/internal/repository"

	"github.com/gin-gonic/gin"
)

// pantryView is a pantry item with its expiry state as of the request
type pantryView struct {
	models.PantryItem
	DaysUntilExpiry int                     `json:"days_until_expiry"`
	Status          models.ExpirationStatus `json:"status"`
	ExpirationText  string                  `json:"expiration_text"`
}

type pantryRequest struct {
	Name string `json:"name" binding:"required"`
	// ExpirationDate accepts RFC 3339 or a plain YYYY-MM-DD date
	ExpirationDate string `json:"expiration_date" binding:"required"`
}

func (a *API) pantryViews(items []models.PantryItem) []pantryView {
	now := a.now()
	views := make([]pantryView, 0, len(items))
	for _, item := range items {
		views = append(views, pantryView{
			PantryItem:      item,
			DaysUntilExpiry: item.DaysUntilExpiry(now),
			Status:          item.ExpirationStatus(now),
			ExpirationText:  item.ExpirationText(now),
		})
	}
	return views
}

// ListPantry returns the caller's pantry
func (a *API) ListPantry(c *gin.Context) {
	userID, _ := auth.UserID(c)
	items, err := a.store.Pantry.List(userID)
	if err != nil {
		a.internalError(c, "Error fetching pantry", err)
		return
	}
	c.JSON(http.StatusOK, a.pantryViews(items))
}

// ExpiringPantry returns the caller's items expiring within a week
func (a *API) ExpiringPantry(c *gin.Context) {
	userID, _ := auth.UserID(c)
	items, err := a.store.Pantry.Expiring(userID, a.now())
	if err != nil {
		a.internalError(c, "Error fetching pantry", err)
		return
	}
	c.JSON(http.StatusOK, a.pantryViews(items))
}

// AddPantryItem stores a new item in the caller's pantry
func (a *API) AddPantryItem(c *gin.Context) {
	var req pantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expires, err := parseDate(req.ExpirationDate, a.now().Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiration_date must be RFC 3339 or YYYY-MM-DD"})
		return
	}

	userID, _ := auth.UserID(c)
	item := &models.PantryItem{UserID: userID, Name: req.Name, ExpirationDate: expires}
	err = a.store.Pantry.Add(item)
	if errors.Is(err, repository.ErrEmptyName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		a.internalError(c, "Error adding pantry item", err)
		return
	}
	c.JSON(http.StatusCreated, a.pantryViews([]models.PantryItem{*item})[0])
}

// RemovePantryItem deletes one of the caller's items
func (a *API) RemovePantryItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := auth.UserID(c)
	err := a.store.Pantry.Remove(userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pantry item not found"})
		return
	}
	if err != nil {
		a.internalError(c, "Error removing pantry item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pantry item removed"})
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}
