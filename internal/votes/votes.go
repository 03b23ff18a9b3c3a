package votes

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/artist-atlas/backend/internal/models"
)

// TargetKind selects which ledger a vote belongs to. Artist votes and
// comment votes run through the same code but never mix in aggregation.
type TargetKind string

const (
	TargetArtist  TargetKind = "artist"
	TargetComment TargetKind = "comment"
)

func ParseTargetKind(s string) (TargetKind, error) {
	switch TargetKind(s) {
	case TargetArtist, TargetComment:
		return TargetKind(s), nil
	}
	return "", ErrBadKind
}

// Value is a voter's stance. Stored as 1/-1, "up"/"down" on the wire.
type Value int

const (
	Up   Value = 1
	Down Value = -1
)

func ParseValue(s string) (Value, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, ErrBadValue
}

func (v Value) String() string {
	if v == Down {
		return "down"
	}
	return "up"
}

var (
	ErrBadValue = errors.New("votes: value must be \"up\" or \"down\"")
	ErrBadKind  = errors.New("votes: unknown target kind")
	// ErrConflict means concurrent casts kept invalidating each other past
	// the retry budget.
	ErrConflict = errors.New("votes: conflicting concurrent vote")
)

// castAttempts bounds the optimistic retry loop in Cast.
const castAttempts = 3

// Service owns the vote ledger for all target kinds.
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

// CastResult is either the vote as persisted, or a removal acknowledgement
// when the cast toggled an identical vote off.
type CastResult struct {
	Removed bool         `json:"removed,omitempty"`
	Vote    *models.Vote `json:"vote,omitempty"`
}

// Cast applies the toggle state machine for one (target, voter) key:
// no vote -> vote created; same value again -> vote removed; opposite
// value -> vote switched in place. Every write is guarded so that a row
// changed by a concurrent cast is never blindly overwritten; on such a
// race the whole read-modify-write is retried.
func (s *Service) Cast(kind TargetKind, targetID, voterID int, value Value) (*CastResult, error) {
	if _, err := ParseTargetKind(string(kind)); err != nil {
		return nil, err
	}
	if value != Up && value != Down {
		return nil, ErrBadValue
	}

	for attempt := 0; attempt < castAttempts; attempt++ {
		var existing models.Vote
		err := s.db.
			Where("target_kind = ? AND target_id = ? AND voter_id = ?", kind, targetID, voterID).
			First(&existing).Error

		switch {
		case err == nil && existing.Value == int(value):
			// Same stance repeated — toggle off. The value guard makes the
			// delete a no-op if a concurrent switch got there first.
			res := s.db.Where("id = ? AND value = ?", existing.ID, existing.Value).Delete(&models.Vote{})
			if res.Error != nil {
				return nil, fmt.Errorf("removing vote: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}
			return &CastResult{Removed: true}, nil

		case err == nil:
			// Opposite stance — switch in place, never transiently both.
			res := s.db.Model(&models.Vote{}).
				Where("id = ? AND value = ?", existing.ID, existing.Value).
				Update("value", int(value))
			if res.Error != nil {
				return nil, fmt.Errorf("switching vote: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}
			existing.Value = int(value)
			return &CastResult{Vote: &existing}, nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				TargetKind: string(kind),
				TargetID:   targetID,
				VoterID:    voterID,
				Value:      int(value),
			}
			if err := s.db.Create(&vote).Error; err != nil {
				if isUniqueViolation(err) {
					// A concurrent cast won the insert; re-read and toggle
					// against its row instead.
					continue
				}
				return nil, fmt.Errorf("creating vote: %w", err)
			}
			return &CastResult{Vote: &vote}, nil

		default:
			return nil, fmt.Errorf("reading vote: %w", err)
		}
	}

	return nil, ErrConflict
}

// isUniqueViolation reports whether err is the (target_kind, target_id,
// voter_id) unique index rejecting a second row for the same key.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Tally is one side of a target's summary.
type Tally struct {
	Count int   `json:"count"`
	Users []int `json:"users"`
}

type TargetSummary struct {
	Upvotes   Tally `json:"upvotes"`
	Downvotes Tally `json:"downvotes"`
}

type VoterSummary struct {
	Upvotes   []int `json:"upvotes"`
	Downvotes []int `json:"downvotes"`
}

// SummaryByTarget partitions a target's ledger rows into up and down
// voters. A voter appears in at most one list because the ledger holds at
// most one row per (target, voter).
func (s *Service) SummaryByTarget(kind TargetKind, targetID int) (*TargetSummary, error) {
	var rows []models.Vote
	err := s.db.
		Select("voter_id", "value").
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("scanning votes for %s %d: %w", kind, targetID, err)
	}

	summary := &TargetSummary{
		Upvotes:   Tally{Users: []int{}},
		Downvotes: Tally{Users: []int{}},
	}
	for _, row := range rows {
		switch Value(row.Value) {
		case Up:
			summary.Upvotes.Count++
			summary.Upvotes.Users = append(summary.Upvotes.Users, row.VoterID)
		case Down:
			summary.Downvotes.Count++
			summary.Downvotes.Users = append(summary.Downvotes.Users, row.VoterID)
		}
	}
	return summary, nil
}

// SummaryByVoter lists the targets of one kind a voter has voted on.
func (s *Service) SummaryByVoter(kind TargetKind, voterID int) (*VoterSummary, error) {
	var rows []models.Vote
	err := s.db.
		Select("target_id", "value").
		Where("target_kind = ? AND voter_id = ?", kind, voterID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("scanning votes by voter %d: %w", voterID, err)
	}

	summary := &VoterSummary{Upvotes: []int{}, Downvotes: []int{}}
	for _, row := range rows {
		switch Value(row.Value) {
		case Up:
			summary.Upvotes = append(summary.Upvotes, row.TargetID)
		case Down:
			summary.Downvotes = append(summary.Downvotes, row.TargetID)
		}
	}
	return summary, nil
}

// DeleteByVoter removes every vote a user has cast, across both ledgers.
// Called by the user-deletion path so no ledger row outlives its voter.
func (s *Service) DeleteByVoter(voterID int) error {
	if err := s.db.Where("voter_id = ?", voterID).Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("deleting votes by voter %d: %w", voterID, err)
	}
	return nil
}

// DeleteByTarget removes every vote cast on one target. Called by the
// artist- and comment-deletion paths.
func (s *Service) DeleteByTarget(kind TargetKind, targetID int) error {
	if err := s.db.Where("target_kind = ? AND target_id = ?", kind, targetID).Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("deleting votes on %s %d: %w", kind, targetID, err)
	}
	return nil
}

// DeleteByTargets is DeleteByTarget over a batch, used when an artist
// takes its whole comment section down with it.
func (s *Service) DeleteByTargets(kind TargetKind, targetIDs []int) error {
	if len(targetIDs) == 0 {
		return nil
	}
	if err := s.db.Where("target_kind = ? AND target_id IN ?", kind, targetIDs).Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("deleting votes on %d %s targets: %w", len(targetIDs), kind, err)
	}
	return nil
}
