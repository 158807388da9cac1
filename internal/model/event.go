package model

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Location    string    `gorm:"size:200;not null" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
