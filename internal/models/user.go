package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username     string `gorm:"uniqueIndex;size:80;not null"`
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"not null"`
	IsActive     bool   `gorm:"not null;default:false"`

	// ExercisePoints only ever increases; every write goes through an
	// atomic SQL increment, never a read-modify-write in Go.
	ExercisePoints       int       `gorm:"not null;default:0"`
	JoinDate             time.Time `gorm:"autoCreateTime"`
	AchievementsUnlocked int       `gorm:"not null;default:0"`

	// Relationships
	Exercises    []Exercise    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Achievements []Achievement `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
