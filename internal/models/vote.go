package models

import "time"

// Vote is one ledger row: a single user's current stance on one target.
// Artist votes and comment votes share the table, discriminated by
// TargetKind. The unique index over (target_kind, target_id, voter_id) is
// what makes the toggle state machine safe under concurrent casts.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	TargetKind string    `gorm:"size:16;not null;uniqueIndex:idx_votes_target_voter" json:"target_kind"`
	TargetID   int       `gorm:"not null;uniqueIndex:idx_votes_target_voter" json:"target_id"`
	VoterID    int       `gorm:"not null;index;uniqueIndex:idx_votes_target_voter" json:"voter_id"`
	Value      int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
