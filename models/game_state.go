package models

import (
	"time"
)

// GameState is the per-question sub-state of a game. CurrentSlotID is set
// exactly while a question is in flight.
type GameState struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	GameID            uint       `json:"game_id" gorm:"uniqueIndex;not null"`
	CurrentSlotID     *uint      `json:"current_slot_id"`
	CurrentTeamID     *uint      `json:"current_team_id"`
	QuestionStartedAt *time.Time `json:"question_started_at"`
	BuzzerEnabled     bool       `json:"buzzer_enabled" gorm:"not null;default:false"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Loaded from answered_slots in insertion order.
	AnsweredSlots []uint `json:"answered_slots" gorm:"-"`
}

// QuestionActive reports whether a revealed question is awaiting its answer.
func (s *GameState) QuestionActive() bool {
	return s.CurrentSlotID != nil
}

// Answered reports whether slotID is in the answered set.
func (s *GameState) Answered(slotID uint) bool {
	for _, id := range s.AnsweredSlots {
		if id == slotID {
			return true
		}
	}
	return false
}

// AnsweredSlot is one entry of the append-only answered set. The unique index
// keeps a slot from being resolved twice in the same game.
type AnsweredSlot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    uint      `json:"game_id" gorm:"not null;uniqueIndex:idx_answered_game_slot"`
	SlotID    uint      `json:"slot_id" gorm:"not null;uniqueIndex:idx_answered_game_slot"`
	CreatedAt time.Time `json:"created_at"`
}
