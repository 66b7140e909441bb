package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GameStatusLobby      = "LOBBY"
	GameStatusInProgress = "IN_PROGRESS"
	GameStatusCompleted  = "COMPLETED"
)

const (
	TeamAssignmentManual = "MANUAL"
	TeamAssignmentRandom = "RANDOM"
)

type Game struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Code           string         `json:"code" gorm:"uniqueIndex;size:6;not null"`
	InstructorID   uint           `json:"instructor_id" gorm:"not null;index"`
	BoardID        uint           `json:"board_id" gorm:"not null"`
	Status         string         `json:"status" gorm:"not null;default:'LOBBY'"` // LOBBY, IN_PROGRESS, COMPLETED
	TeamAssignment string         `json:"team_assignment" gorm:"not null;default:'MANUAL'"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Board    *Board     `json:"board,omitempty"`
	Teams    []Team     `json:"teams,omitempty" gorm:"foreignKey:GameID"`
	Students []Student  `json:"students,omitempty" gorm:"foreignKey:GameID"`
	State    *GameState `json:"game_state,omitempty" gorm:"foreignKey:GameID"`
}

// Joinable reports whether students may still join with the game code.
func (g *Game) Joinable() bool {
	return g.Status == GameStatusLobby
}
