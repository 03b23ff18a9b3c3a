package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/artist-atlas/backend/internal/comments"
	"github.com/artist-atlas/backend/internal/models"
)

type CommentHandler struct {
	db       *gorm.DB
	comments *comments.Service
}

func NewCommentHandler(db *gorm.DB, commentService *comments.Service) *CommentHandler {
	return &CommentHandler{db: db, comments: commentService}
}

func commentErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, comments.ErrEmptyText):
		return http.StatusBadRequest, "Comment text must not be empty"
	case errors.Is(err, comments.ErrParentMismatch):
		return http.StatusBadRequest, "Parent comment belongs to a different artist"
	case errors.Is(err, comments.ErrNotFound):
		return http.StatusNotFound, "Comment not found"
	case errors.Is(err, comments.ErrForbidden):
		return http.StatusForbidden, "You can only modify your own comments"
	}
	return http.StatusInternalServerError, "Something went wrong"
}

// GetByArtist returns an artist's comments as a flat list.
func (h *CommentHandler) GetByArtist(c *gin.Context) {
	artistID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid artist id"})
		return
	}

	list, err := h.comments.ListByArtist(artistID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	if list == nil {
		list = []models.Comment{}
	}
	c.JSON(http.StatusOK, list)
}

// GetThread returns an artist's comments as reply trees, newest root
// first, replies oldest first inside each tree.
func (h *CommentHandler) GetThread(c *gin.Context) {
	artistID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid artist id"})
		return
	}

	var list []models.Comment
	if err := h.db.Where("artist_id = ?", artistID).Preload("User").Order("created_at asc").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments.BuildForest(list))
}

// GetByAuthor returns everything a user has written.
func (h *CommentHandler) GetByAuthor(c *gin.Context) {
	authorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	list, err := h.comments.ListByAuthor(authorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	if list == nil {
		list = []models.Comment{}
	}
	c.JSON(http.StatusOK, list)
}

// Create posts a new comment, optionally as a reply.
func (h *CommentHandler) Create(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Verify the artist exists
	var artist models.Artist
	if err := h.db.First(&artist, input.ArtistID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	comment, err := h.comments.Create(input.Text, authorID, input.ArtistID, input.ParentID)
	if err != nil {
		status, msg := commentErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	// Best-effort refresh to attach the author; the bare comment is still a
	// correct response if the read fails.
	var full models.Comment
	if err := h.db.Preload("User").First(&full, comment.ID).Error; err == nil {
		comment = &full
	}
	c.JSON(http.StatusCreated, comment)
}

// Update edits a comment's text (author only).
func (h *CommentHandler) Update(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Edit(commentID, requesterID, input.Text)
	if err != nil {
		status, msg := commentErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	var full models.Comment
	if err := h.db.Preload("User").First(&full, comment.ID).Error; err == nil {
		comment = &full
	}
	c.JSON(http.StatusOK, comment)
}

// Delete soft-deletes a comment (author only). The record stays so replies
// keep their place in the thread.
func (h *CommentHandler) Delete(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	if err := h.comments.SoftDelete(commentID, requesterID); err != nil {
		status, msg := commentErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
