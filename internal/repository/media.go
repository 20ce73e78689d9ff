package repository

import (
	"context"
	"fmt"
	"time"

	"fresh/internal/database"
	"fresh/internal/media"
	"fresh/internal/models"

	"github.com/jinzhu/gorm"
)

// UploadRequest is a user-submitted recipe with its video and cover image
type UploadRequest struct {
	UserID       uint     `json:"userId"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	PrepTime     float64  `json:"prep_time"`
	CookTime     float64  `json:"cook_time"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Category     string   `json:"category"`
	Cuisine      string   `json:"cuisine"`
	Tags         []string `json:"tags"`
	VideoURI     string   `json:"videoUri" binding:"required"`
	ImageURI     string   `json:"imageUri" binding:"required"`
}

// MediaLibrary stores uploaded recipe videos
type MediaLibrary struct {
	db   *gorm.DB
	host media.Host
}

// List returns every media row joined with its author and recipe. URLs are
// rebuilt by the media host when it can.
func (m *MediaLibrary) List() ([]models.MediaView, error) {
	views := []models.MediaView{}
	err := m.db.Table("media m").
		Select(`m.media_id, m.public_id, m.url, m.type, m.uploaded_at, m.recipe_id, m.author_id,
			u.first_name AS author_first_name, u.last_name AS author_last_name,
			r.description AS recipe_description`).
		Joins("JOIN users u ON m.author_id = u.id").
		Joins("JOIN recipes r ON m.recipe_id = r.id").
		Order("m.id").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	for i := range views {
		url, err := m.host.URL(views[i].PublicID, media.KindVideo)
		if err != nil {
			return nil, err
		}
		if url != "" {
			views[i].URL = url
		}
	}
	return views, nil
}

// Upload stores the video and image on the media host and records the recipe
// and its media row in one transaction. Nothing is written when any step fails.
func (m *MediaLibrary) Upload(ctx context.Context, req UploadRequest) (*models.Recipe, error) {
	tx := m.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	recipe, err := m.upload(ctx, tx, req)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit upload: %w", err)
	}
	return recipe, nil
}

func (m *MediaLibrary) upload(ctx context.Context, tx *gorm.DB, req UploadRequest) (*models.Recipe, error) {
	var author models.User
	if err := tx.First(&author, req.UserID).Error; err != nil {
		return nil, notFound(err, "user", req.UserID)
	}

	video, err := m.host.Upload(ctx, req.VideoURI, media.KindVideo)
	if err != nil {
		return nil, err
	}
	image, err := m.host.Upload(ctx, req.ImageURI, media.KindImage)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PrepTime:    req.PrepTime,
		CookTime:    req.CookTime,
		TotalTime:   req.PrepTime + req.CookTime,
		Cuisine:     req.Cuisine,
		Image:       image.URL,
		Tags:        models.StringSlice(req.Tags),
	}
	recipe.SetIngredientList(req.Ingredients)
	recipe.SetInstructionList(req.Instructions)

	if err := tx.Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	if err := database.SyncIngredients(tx, recipe); err != nil {
		return nil, err
	}

	row := models.Media{
		MediaID:    video.ID,
		PublicID:   video.PublicID,
		URL:        video.URL,
		Type:       string(media.KindVideo),
		UploadedAt: time.Now(),
		RecipeID:   recipe.ID,
		AuthorID:   author.ID,
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create media: %w", err)
	}
	return recipe, nil
}
