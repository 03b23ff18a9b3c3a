package models

import "time"

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"not null" json:"text"`
	AuthorID int    `gorm:"not null;index" json:"author_id"`
	User     User   `gorm:"foreignKey:AuthorID" json:"user"`
	ArtistID int    `gorm:"not null;index" json:"artist_id"`

	// ParentID references another comment on the same artist. Nil for
	// top-level comments.
	ParentID *int `gorm:"index" json:"parent_id,omitempty"`

	// Deleted comments stay in the table so that replies keep a parent to
	// hang off; readers get the flag, not the text.
	Deleted bool `gorm:"default:false" json:"deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Text     string `json:"text"`
	ArtistID int    `json:"artist_id"`
	ParentID *int   `json:"parent_id,omitempty"`
}
