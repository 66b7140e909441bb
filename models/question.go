package models

import (
	"time"
)

type Question struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	InstructorID uint      `json:"instructor_id" gorm:"not null;index"`
	Question     string    `json:"question" gorm:"not null"`
	Answer       string    `json:"answer" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Tags []Tag `json:"tags" gorm:"many2many:question_tags;constraint:OnDelete:CASCADE"`
}
