package handlers

import (
	"gorm.io/gorm"

	"github.com/artist-atlas/backend/internal/comments"
	"github.com/artist-atlas/backend/internal/votes"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Artist  *ArtistHandler
	Comment *CommentHandler
	Vote    *VoteHandler
	User    *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers. Services are
// built once here and passed to whoever needs them; nothing resolves
// siblings through globals.
func NewHandler(db *gorm.DB) *Handler {
	voteService := votes.NewService(db)
	commentService := comments.NewService(db)

	return &Handler{
		Auth:    NewAuthHandler(db),
		Artist:  NewArtistHandler(db, commentService, voteService),
		Comment: NewCommentHandler(db, commentService),
		Vote:    NewVoteHandler(db, voteService),
		User:    NewUserHandler(db, commentService, voteService),
	}
}
