package repository

import (
	"fmt"
	"strings"

	"fresh/internal/models"

	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Users stores accounts
type Users struct {
	db *gorm.DB
}

// Register hashes password and creates the user. Emails are unique
// regardless of case.
func (u *Users) Register(user *models.User, password string) error {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))

	var count int
	if err := u.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	if err := u.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Authenticate returns the user with email when password matches its hash
func (u *Users) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := u.db.Where("email = ?", strings.TrimSpace(strings.ToLower(email))).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get returns one user
func (u *Users) Get(id uint) (*models.User, error) {
	var user models.User
	if err := u.db.First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}
