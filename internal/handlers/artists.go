package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/artist-atlas/backend/internal/comments"
	"github.com/artist-atlas/backend/internal/models"
	"github.com/artist-atlas/backend/internal/votes"
)

type ArtistHandler struct {
	db       *gorm.DB
	comments *comments.Service
	votes    *votes.Service
}

func NewArtistHandler(db *gorm.DB, commentService *comments.Service, voteService *votes.Service) *ArtistHandler {
	return &ArtistHandler{db: db, comments: commentService, votes: voteService}
}

// GetArtists lists artists, optionally filtered by map area.
func (h *ArtistHandler) GetArtists(c *gin.Context) {
	query := h.db.Order("name_eng asc")
	if area := c.Query("area"); area != "" {
		query = query.Where("area = ?", area)
	}

	var artists []models.Artist
	if err := query.Find(&artists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch artists"})
		return
	}
	if artists == nil {
		artists = []models.Artist{}
	}
	c.JSON(http.StatusOK, artists)
}

// GetArtist returns one artist with its vote summary.
func (h *ArtistHandler) GetArtist(c *gin.Context) {
	artistID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid artist id"})
		return
	}

	var artist models.Artist
	if err := h.db.First(&artist, artistID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	summary, err := h.votes.SummaryByTarget(votes.TargetArtist, artistID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artist": artist,
		"votes":  summary,
	})
}

// CreateArtist adds a new artist to the directory.
func (h *ArtistHandler) CreateArtist(c *gin.Context) {
	if _, ok := extractUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateArtistRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.NameEng == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Artist name is required"})
		return
	}

	artist := models.Artist{
		NameEng:   input.NameEng,
		NameHeb:   input.NameHeb,
		IsBand:    input.IsBand,
		Area:      input.Area,
		Location:  input.Location,
		Image:     input.Image,
		SpotifyID: input.SpotifyID,
		Summary:   input.Summary,
	}
	if err := h.db.Create(&artist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create artist"})
		return
	}

	c.JSON(http.StatusCreated, artist)
}

// DeleteArtist removes an artist together with its comment section and
// every vote pointing at either. The cascade is explicit application code
// so it holds on every deletion path.
func (h *ArtistHandler) DeleteArtist(c *gin.Context) {
	if _, ok := extractUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	artistID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid artist id"})
		return
	}

	var artist models.Artist
	if err := h.db.First(&artist, artistID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	// One transaction: either the whole cascade lands or none of it does.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		voteSvc := h.votes.WithTx(tx)
		commentSvc := h.comments.WithTx(tx)

		commentIDs, err := commentSvc.DeleteByArtist(artistID)
		if err != nil {
			return err
		}
		if err := voteSvc.DeleteByTargets(votes.TargetComment, commentIDs); err != nil {
			return err
		}
		if err := voteSvc.DeleteByTarget(votes.TargetArtist, artistID); err != nil {
			return err
		}
		return tx.Delete(&artist).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete artist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Artist deleted successfully"})
}
