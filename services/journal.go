package services

import (
	"context"
	"encoding/json"
	"log"

	"buzzboard/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Journal records every published event in game_events before handing it to
// the next publisher. Journal failures are logged and never block delivery.
type Journal struct {
	db   *gorm.DB
	next Publisher
}

func NewJournal(db *gorm.DB, next Publisher) *Journal {
	return &Journal{db: db, next: next}
}

func (j *Journal) Publish(ctx context.Context, gameID uint, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[journal] failed to marshal %s for game %d: %v", ev.EventType(), gameID, err)
	} else {
		row := models.GameEvent{
			GameID:  gameID,
			Type:    ev.EventType(),
			Payload: datatypes.JSON(payload),
		}
		if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
			log.Printf("[journal] failed to record %s for game %d: %v", ev.EventType(), gameID, err)
		}
	}

	return j.next.Publish(ctx, gameID, ev)
}
