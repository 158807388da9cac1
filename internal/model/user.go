package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Email         string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	Role          string     `gorm:"size:20;not null;default:member" json:"role"`
	Points        int        `gorm:"not null;default:0" json:"points"`
	ReferralCode  string     `gorm:"size:12;uniqueIndex;not null" json:"referral_code"`
	ReferredBy    *uuid.UUID `gorm:"type:uuid" json:"referred_by,omitempty"`
	DateOfBirth   *string    `gorm:"size:20" json:"date_of_birth,omitempty"`
	Hobby         *string    `gorm:"size:100" json:"hobby,omitempty"`
	FavoriteVerse *string    `gorm:"size:200" json:"favorite_verse,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
