package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaderboardType string

const (
	TypeGeneral   LeaderboardType = "GENERAL"
	TypeTechStack LeaderboardType = "TECH_STACK"
	TypeDomain    LeaderboardType = "DOMAIN"
)

type Domain string

const (
	DomainFrontend Domain = "FRONTEND"
	DomainBackend  Domain = "BACKEND"
	DomainAIML     Domain = "AI_ML"
)

// Partition identifies one independently ranked leaderboard: GENERAL, a
// specific tech-stack bucket, or a specific domain bucket. TechStack and
// Domain are empty strings (not NULLs) when unused so the composite unique
// index behaves under Postgres NULL semantics.
type Partition struct {
	Type      LeaderboardType
	TechStack string
	Domain    string
}

func GeneralPartition() Partition {
	return Partition{Type: TypeGeneral}
}

// LeaderboardScore is the one row this service owns per (user, partition).
// Score is the 0-10000 composite; Rank is dense and 1-based, assigned only
// among eligible rows. Rank 0 means the row has never been ranked.
type LeaderboardScore struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_leaderboard_key,priority:1" json:"user_id"`
	LeaderboardType LeaderboardType `gorm:"size:20;not null;uniqueIndex:idx_leaderboard_key,priority:2" json:"leaderboard_type"`
	TechStack       string          `gorm:"size:50;not null;default:'';uniqueIndex:idx_leaderboard_key,priority:3" json:"tech_stack,omitempty"`
	Domain          string          `gorm:"size:20;not null;default:'';uniqueIndex:idx_leaderboard_key,priority:4" json:"domain,omitempty"`
	Score           int             `gorm:"not null" json:"score"`
	Rank            int             `gorm:"not null;default:0" json:"rank"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (s *LeaderboardScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// PartitionKey returns the partition this row belongs to.
func (s *LeaderboardScore) PartitionKey() Partition {
	return Partition{Type: s.LeaderboardType, TechStack: s.TechStack, Domain: s.Domain}
}
