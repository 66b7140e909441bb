package services

import (
	"encoding/json"
	"fmt"
	"time"

	"buzzboard/models"
)

// Event kinds as they appear in the "type" field of the envelope.
const (
	EventConnected        = "connected"
	EventQuestionRevealed = "question-revealed"
	EventAnswerSubmitted  = "answer-submitted"
	EventBuzzerPressed    = "buzzer-pressed"
	EventGameStarted      = "game-started"
	EventGameEnded        = "game-ended"
	EventStudentJoined    = "student-joined"
	EventTeamAssigned     = "team-assigned"
	EventBuzzerEnabled    = "buzzer-enabled"
	EventBuzzerDisabled   = "buzzer-disabled"
)

// Event is the closed set of push events. Only types in this file implement it.
type Event interface {
	EventType() string
	event()
}

// Message is the wire envelope of every frame.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Connected struct {
	ConnectionID string `json:"connection_id"`
}

// RevealedSlot is the slot payload of a question reveal.
type RevealedSlot struct {
	models.Slot
	Category *models.Category `json:"category,omitempty"`
}

type QuestionRevealed struct {
	SlotID        uint         `json:"slot_id"`
	CurrentSlot   RevealedSlot `json:"current_slot"`
	BuzzerEnabled bool         `json:"buzzer_enabled"`
}

type AnswerSubmitted struct {
	TeamID        uint          `json:"team_id"`
	IsCorrect     bool          `json:"is_correct"`
	ScoreChange   int           `json:"score_change"`
	Teams         []models.Team `json:"teams"`
	AnsweredSlots []uint        `json:"answered_slots"`
	CurrentSlotID *uint         `json:"current_slot_id"`
}

type BuzzerPressed struct {
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	TeamID      *uint     `json:"team_id"`
	TeamName    string    `json:"team_name,omitempty"`
	BuzzerAt    time.Time `json:"buzzer_at"`
}

type GameStarted struct {
	Status string `json:"status"`
}

type GameEnded struct {
	Status      string        `json:"status"`
	FinalScores []models.Team `json:"final_scores"`
}

type StudentJoined struct {
	Student  models.Student   `json:"student"`
	Students []models.Student `json:"students"`
	Teams    []models.Team    `json:"teams"`
}

type TeamAssigned struct {
	Student  models.Student   `json:"student"`
	Students []models.Student `json:"students"`
	Teams    []models.Team    `json:"teams"`
}

type BuzzerEnabled struct {
	Enabled bool `json:"enabled"`
}

type BuzzerDisabled struct {
	Enabled bool `json:"enabled"`
}

func (Connected) EventType() string        { return EventConnected }
func (QuestionRevealed) EventType() string { return EventQuestionRevealed }
func (AnswerSubmitted) EventType() string  { return EventAnswerSubmitted }
func (BuzzerPressed) EventType() string    { return EventBuzzerPressed }
func (GameStarted) EventType() string      { return EventGameStarted }
func (GameEnded) EventType() string        { return EventGameEnded }
func (StudentJoined) EventType() string    { return EventStudentJoined }
func (TeamAssigned) EventType() string     { return EventTeamAssigned }
func (BuzzerEnabled) EventType() string    { return EventBuzzerEnabled }
func (BuzzerDisabled) EventType() string   { return EventBuzzerDisabled }

func (Connected) event()        {}
func (QuestionRevealed) event() {}
func (AnswerSubmitted) event()  {}
func (BuzzerPressed) event()    {}
func (GameStarted) event()      {}
func (GameEnded) event()        {}
func (StudentJoined) event()    {}
func (TeamAssigned) event()     {}
func (BuzzerEnabled) event()    {}
func (BuzzerDisabled) event()   {}

// EncodeEvent serializes ev into the JSON envelope.
func EncodeEvent(ev Event) ([]byte, error) {
	data, err := json.Marshal(Message{Type: ev.EventType(), Payload: ev})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", ev.EventType(), err)
	}
	return data, nil
}

// EnvelopeType extracts the event kind from an encoded envelope.
func EnvelopeType(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	return head.Type, nil
}
