package models

import (
	"time"
)

const (
	BoardCategories  = 6
	CategorySlots    = 5
	BoardSlotsNeeded = BoardCategories * CategorySlots
)

type Board struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	InstructorID uint      `json:"instructor_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Categories []Category `json:"categories,omitempty" gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
}

// SlotCount reports how many slots the loaded categories hold.
func (b *Board) SlotCount() int {
	n := 0
	for _, c := range b.Categories {
		n += len(c.Slots)
	}
	return n
}

// Complete reports whether every category and slot of the board is filled in.
func (b *Board) Complete() bool {
	return len(b.Categories) == BoardCategories && b.SlotCount() == BoardSlotsNeeded
}

type Category struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	BoardID uint   `json:"board_id" gorm:"not null;index"`
	Name    string `json:"name" gorm:"not null"`
	Order   int    `json:"order" gorm:"column:position;not null"`

	Slots []Slot `json:"slots,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// Slot places a question on the board at (Row, Column) with a point value.
type Slot struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	CategoryID    uint `json:"category_id" gorm:"not null;index"`
	QuestionID    uint `json:"question_id" gorm:"not null"`
	Row           int  `json:"row" gorm:"column:row_index;not null"`
	Column        int  `json:"column" gorm:"column:column_index;not null"`
	Points        int  `json:"points" gorm:"not null"`
	IsDailyDouble bool `json:"is_daily_double" gorm:"not null;default:false"`

	Question *Question `json:"question,omitempty"`
}
