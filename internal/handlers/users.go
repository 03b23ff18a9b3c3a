package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/artist-atlas/backend/internal/comments"
	"github.com/artist-atlas/backend/internal/models"
	"github.com/artist-atlas/backend/internal/votes"
)

type UserHandler struct {
	db       *gorm.DB
	comments *comments.Service
	votes    *votes.Service
}

func NewUserHandler(db *gorm.DB, commentService *comments.Service, voteService *votes.Service) *UserHandler {
	return &UserHandler{db: db, comments: commentService, votes: voteService}
}

// GetUserProfile returns a user's profile with their comments and votes.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	userComments, err := h.comments.ListByAuthor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	if userComments == nil {
		userComments = []models.Comment{}
	}

	artistVotes, err := h.votes.SummaryByVoter(votes.TargetArtist, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"bio":      user.Bio,
			"avatar":   user.Avatar,
		},
		"comments":     userComments,
		"artist_votes": artistVotes,
	})
}

// UpdateUserProfile lets a user edit their own bio and avatar.
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	userID := c.Param("id")

	authUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if fmt.Sprintf("%d", authUserID) != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own profile"})
		return
	}

	var input struct {
		Bio    string `json:"bio"`
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"bio":      user.Bio,
		"avatar":   user.Avatar,
	})
}

// DeleteUser removes a user's own account. Their votes and comments go
// with them — an explicit cascade, not a storage hook, so no ledger row or
// comment row can outlive its owner regardless of the deletion path.
// Replies by others to the deleted comments stay and surface as thread
// roots.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	authUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if authUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own account"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// One transaction: either the whole cascade lands or none of it does.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		voteSvc := h.votes.WithTx(tx)
		commentSvc := h.comments.WithTx(tx)

		if err := voteSvc.DeleteByVoter(userID); err != nil {
			return err
		}
		deletedComments, err := commentSvc.DeleteByAuthor(userID)
		if err != nil {
			return err
		}
		// Votes cast by others on the removed comments must not dangle either.
		if err := voteSvc.DeleteByTargets(votes.TargetComment, deletedComments); err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
