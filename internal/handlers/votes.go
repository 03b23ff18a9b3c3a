package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/artist-atlas/backend/internal/models"
	"github.com/artist-atlas/backend/internal/votes"
)

type VoteHandler struct {
	db    *gorm.DB
	votes *votes.Service
}

func NewVoteHandler(db *gorm.DB, voteService *votes.Service) *VoteHandler {
	return &VoteHandler{db: db, votes: voteService}
}

// targetExists checks that the thing being voted on is real before the
// ledger is touched.
func (h *VoteHandler) targetExists(kind votes.TargetKind, targetID int) bool {
	var err error
	switch kind {
	case votes.TargetArtist:
		err = h.db.First(&models.Artist{}, targetID).Error
	case votes.TargetComment:
		err = h.db.First(&models.Comment{}, targetID).Error
	default:
		return false
	}
	return err == nil
}

// Cast records, switches, or removes the caller's vote on a target.
// Same value twice toggles the vote off.
func (h *VoteHandler) Cast(c *gin.Context) {
	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	kind, err := votes.ParseTargetKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target kind must be artist or comment"})
		return
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target id"})
		return
	}

	var input struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
		return
	}

	value, err := votes.ParseValue(input.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Value must be up or down"})
		return
	}

	if !h.targetExists(kind, targetID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target not found"})
		return
	}

	result, err := h.votes.Cast(kind, targetID, voterID, value)
	if err != nil {
		if errors.Is(err, votes.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Vote conflicted with a concurrent vote, try again"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	if result.Removed {
		c.JSON(http.StatusOK, gin.H{"removed": true, "message": "Vote removed"})
		return
	}
	c.JSON(http.StatusOK, result.Vote)
}

// GetByTarget returns a target's up/down counts and voter lists.
func (h *VoteHandler) GetByTarget(c *gin.Context) {
	kind, err := votes.ParseTargetKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target kind must be artist or comment"})
		return
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target id"})
		return
	}

	summary, err := h.votes.SummaryByTarget(kind, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetByVoter returns the targets of one kind a user has voted on.
func (h *VoteHandler) GetByVoter(c *gin.Context) {
	kind, err := votes.ParseTargetKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target kind must be artist or comment"})
		return
	}

	voterID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	summary, err := h.votes.SummaryByVoter(kind, voterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
