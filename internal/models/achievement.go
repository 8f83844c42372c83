package models

import (
	"time"

	"gorm.io/gorm"
)

// Achievement rows are created at most once per (user, name) and never
// deleted, even if the point total could somehow go down.
type Achievement struct {
	gorm.Model

	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_user_achievement,priority:1"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_user_achievement,priority:2"`
	Description string    `gorm:"size:255"`
	UnlockedAt  time.Time `gorm:"autoCreateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
