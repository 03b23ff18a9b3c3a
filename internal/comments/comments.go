package comments

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/artist-atlas/backend/internal/models"
)

var (
	ErrEmptyText = errors.New("comments: text must not be empty")
	ErrNotFound  = errors.New("comments: comment not found")
	ErrForbidden = errors.New("comments: only the author may modify a comment")
	// ErrParentMismatch means the parent comment discusses a different
	// artist; replies never cross targets.
	ErrParentMismatch = errors.New("comments: parent comment belongs to a different artist")
)

// Service owns comment records. Ordering and nesting are the thread
// builder's job; the service only reads and writes flat rows.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WithTx returns a copy of the service bound to tx, so callers can run the
// service's writes inside their own transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx}
}

// Create persists a new comment. A parent, when given, must exist and must
// discuss the same artist.
func (s *Service) Create(text string, authorID, artistID int, parentID *int) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	if parentID != nil {
		var parent models.Comment
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("loading parent comment: %w", err)
		}
		if parent.ArtistID != artistID {
			return nil, ErrParentMismatch
		}
	}

	comment := models.Comment{
		Text:     text,
		AuthorID: authorID,
		ArtistID: artistID,
		ParentID: parentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return &comment, nil
}

func (s *Service) Get(id int) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading comment %d: %w", id, err)
	}
	return &comment, nil
}

// Edit replaces the text of a live comment. Author-only.
func (s *Service) Edit(id, requesterID int, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	comment, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if comment.Deleted {
		return nil, ErrNotFound
	}
	if comment.AuthorID != requesterID {
		return nil, ErrForbidden
	}

	comment.Text = text
	if err := s.db.Save(comment).Error; err != nil {
		return nil, fmt.Errorf("updating comment %d: %w", id, err)
	}
	return comment, nil
}

// SoftDelete flips the deleted flag and nothing else. The row stays so
// replies keep their parent; children are not touched.
func (s *Service) SoftDelete(id, requesterID int) error {
	comment, err := s.Get(id)
	if err != nil {
		return err
	}
	if comment.Deleted {
		return ErrNotFound
	}
	if comment.AuthorID != requesterID {
		return ErrForbidden
	}

	if err := s.db.Model(comment).Update("deleted", true).Error; err != nil {
		return fmt.Errorf("soft-deleting comment %d: %w", id, err)
	}
	return nil
}

// ListByArtist returns the artist's comments, deleted ones included, in no
// particular order.
func (s *Service) ListByArtist(artistID int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.Where("artist_id = ?", artistID).Preload("User").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("listing comments for artist %d: %w", artistID, err)
	}
	return comments, nil
}

func (s *Service) ListByAuthor(authorID int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.Where("author_id = ?", authorID).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("listing comments by author %d: %w", authorID, err)
	}
	return comments, nil
}

// IDsByArtist returns the ids of every comment on an artist, for the
// artist-deletion cascade (their votes have to go too).
func (s *Service) IDsByArtist(artistID int) ([]int, error) {
	var ids []int
	if err := s.db.Model(&models.Comment{}).Where("artist_id = ?", artistID).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("collecting comment ids for artist %d: %w", artistID, err)
	}
	return ids, nil
}

// DeleteByAuthor hard-deletes every comment a user wrote, as part of
// account deletion. Replies by other users survive; the thread builder
// promotes them to roots when their parent row is gone.
func (s *Service) DeleteByAuthor(authorID int) ([]int, error) {
	var ids []int
	if err := s.db.Model(&models.Comment{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("collecting comment ids by author %d: %w", authorID, err)
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if err := s.db.Delete(&models.Comment{}, ids).Error; err != nil {
		return nil, fmt.Errorf("deleting comments by author %d: %w", authorID, err)
	}
	return ids, nil
}

// DeleteByArtist hard-deletes an artist's whole comment section, as part
// of artist deletion.
func (s *Service) DeleteByArtist(artistID int) ([]int, error) {
	ids, err := s.IDsByArtist(artistID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if err := s.db.Delete(&models.Comment{}, ids).Error; err != nil {
		return nil, fmt.Errorf("deleting comments for artist %d: %w", artistID, err)
	}
	return ids, nil
}
