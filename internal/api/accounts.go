package api

import (
	"errors"
	"net/http"

	"fresh/internal/models"
	"fresh/internal/repository"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone"`
	State     string `json:"state"`
	City      string `json:"city"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		State:     req.State,
		City:      req.City,
	}
	err := a.store.Users.Register(user, req.Password)
	if errors.Is(err, repository.ErrEmailExists) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		return
	}
	if err != nil {
		a.internalError(c, "An error occurred during registration", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login checks credentials and returns the user with a signed token
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	user, err := a.store.Users.Authenticate(req.Email, req.Password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		a.internalError(c, "An error occurred during login", err)
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		a.internalError(c, "An error occurred during login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// GetUser returns a user's public profile
func (a *API) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := a.store.Users.Get(id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		a.internalError(c, "Error fetching user details", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
