package models

import (
	"time"

	"gorm.io/datatypes"
)

// GameEvent is one journaled push event, stored in publish order.
type GameEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	GameID    uint           `json:"game_id" gorm:"not null;index"`
	Type      string         `json:"type" gorm:"size:64;not null"`
	Payload   datatypes.JSON `json:"payload" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
}
