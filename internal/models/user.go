package models

import "time"

// User is a registered account. Password holds the bcrypt hash and is never serialised.
type User struct {
	ID        uint   `gorm:"primary_key" json:"id"`
	FirstName string `gorm:"size:50;not null" json:"first_name"`
	LastName  string `gorm:"size:50;not null" json:"last_name"`
	Email     string `gorm:"size:100;not null;unique_index" json:"email"`
	Password  string `gorm:"size:100;not null" json:"-"`
	Phone     string `gorm:"size:20" json:"phone,omitempty"`
	State     string `gorm:"size:50" json:"state,omitempty"`
	City      string `gorm:"size:50" json:"city,omitempty"`
}

// TableName sets the table name for User
func (User) TableName() string {
	return "users"
}

// Media is a video hosted by the media host and attached to a recipe
type Media struct {
	ID         uint      `gorm:"primary_key" json:"id"`
	MediaID    string    `json:"media_id"`
	PublicID   string    `json:"public_id"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
	RecipeID   uint      `gorm:"index" json:"recipe_id"`
	AuthorID   uint      `gorm:"index" json:"author_id"`
}

// TableName sets the table name for Media
func (Media) TableName() string {
	return "media"
}

// MediaView is a media row joined with its author and recipe
type MediaView struct {
	MediaID           string    `json:"media_id"`
	PublicID          string    `json:"public_id"`
	URL               string    `json:"url"`
	Type              string    `json:"type"`
	UploadedAt        time.Time `json:"uploaded_at"`
	RecipeID          uint      `json:"recipe_id"`
	AuthorID          uint      `json:"author_id"`
	AuthorFirstName   string    `json:"author_first_name"`
	AuthorLastName    string    `json:"author_last_name"`
	RecipeDescription string    `json:"recipe_description"`
}
