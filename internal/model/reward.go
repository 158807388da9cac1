package model

import (
	"time"

	"github.com/google/uuid"
)

// Reward kinds. Attendance and quiz are day-scoped: at most one accepted
// event per (user, kind, day). Submission and referral may recur.
const (
	RewardAttendance = "attendance"
	RewardQuiz       = "quiz"
	RewardSubmission = "submission"
	RewardReferral   = "referral"
)

// RewardEvent is the append-only point ledger. DedupKey holds the calendar
// day key for day-scoped kinds and a fresh UUID otherwise, so the composite
// unique index enforces the one-per-day rule in the storage layer.
type RewardEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reward_dedup,priority:1;index:idx_reward_user" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Kind        string    `gorm:"size:20;not null;uniqueIndex:idx_reward_dedup,priority:2" json:"kind"`
	DedupKey    string    `gorm:"size:40;not null;uniqueIndex:idx_reward_dedup,priority:3" json:"dedup_key"`
	Points      int       `gorm:"not null" json:"points"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
