package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionPrayer    = "prayer"
	SubmissionTestimony = "testimony"
	SubmissionIdea      = "idea"
)

type Submission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Kind      string    `gorm:"size:20;not null" json:"kind"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
