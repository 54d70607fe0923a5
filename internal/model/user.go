package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedUserHandle is the placeholder account created at platform launch. It is
// never ranked and never notified.
const SeedUserHandle = "0unveiled"

// User rows are owned by the main platform; this service only reads them.
// Notification preference flags gate what the dispatcher may deliver.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"-"`
	Headline  *string   `gorm:"size:255" json:"headline,omitempty"`
	AvatarURL *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Onboarded bool      `gorm:"default:false" json:"onboarded"`

	// Per-category notification preferences.
	NotifyLeaderboard bool `gorm:"default:true" json:"notify_leaderboard"`
	EmailLeaderboard  bool `gorm:"default:true" json:"email_leaderboard"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
