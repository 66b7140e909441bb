package models

import (
	"time"
)

var DefaultTeamColors = []string{"#EF4444", "#3B82F6", "#10B981", "#F59E0B", "#8B5CF6", "#EC4899"}

type Team struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    uint      `json:"game_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Color     string    `json:"color" gorm:"not null"`
	Score     int       `json:"score" gorm:"not null;default:0"` // may go negative
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Students []Student `json:"students,omitempty" gorm:"foreignKey:TeamID"`
}
