package models

import (
	"time"
)

type Student struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	GameID    uint       `json:"game_id" gorm:"not null;index;uniqueIndex:idx_student_game_name"`
	TeamID    *uint      `json:"team_id" gorm:"index"`
	Name      string     `json:"name" gorm:"not null;uniqueIndex:idx_student_game_name"`
	BuzzerAt  *time.Time `json:"buzzer_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relationships
	Team *Team `json:"team,omitempty"`
}
