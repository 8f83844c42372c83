package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Exercise is immutable once created: no handler updates or deletes a row,
// entries only disappear when their owner is deleted.
type Exercise struct {
	gorm.Model

	UserID       uint           `gorm:"not null;index"`
	ExerciseType string         `gorm:"size:20;not null;index"`
	Count        int            `gorm:"not null"`
	Intensity    float64        `gorm:"not null;default:1.0"`
	Points       int            `gorm:"not null;default:0"`
	Date         datatypes.Date `gorm:"not null;index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
