package api

import (
	"errors"
	"net/http"

	"fresh/internal/auth"
	"fresh/internal/media"
	"fresh/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMedia returns every uploaded recipe video with its author
func (a *API) ListMedia(c *gin.Context) {
	views, err := a.store.Media.List()
	if err != nil {
		a.internalError(c, "Error fetching media", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Upload publishes a recipe with its video and cover image. The author is
// the authenticated caller.
func (a *API) Upload(c *gin.Context) {
	var req repository.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.UserID, _ = auth.UserID(c)

	recipe, err := a.store.Media.Upload(c.Request.Context(), req)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, media.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case err != nil:
		a.internalError(c, "Error uploading media", err)
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Recipe uploaded", "recipe": recipe})
	}
}
