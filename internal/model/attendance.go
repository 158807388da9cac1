package model

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is the member-visible history row. It is written only after the
// reward ledger accepts the day's grant, so the ledger's unique index is what
// actually enforces one-per-day.
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DayKey    string    `gorm:"size:10;not null" json:"day_key"`
	Method    string    `gorm:"size:20;not null;default:qr" json:"method"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
