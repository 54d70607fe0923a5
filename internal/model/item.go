package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShowcasedItem is a portfolio entry (typically an imported repository).
// Metadata holds the analyzer payload: repository statistics, AI insights,
// security/quality/code metrics and the detected tech stack. The leaderboard
// job treats these rows as read-only input.
type ShowcasedItem struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	Title    string         `gorm:"size:255;not null" json:"title"`
	URL      *string        `gorm:"type:text" json:"url,omitempty"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (i *ShowcasedItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
