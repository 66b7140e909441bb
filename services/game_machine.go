package services

import (
	"buzzboard/models"
)

// The Check functions are the transition guards of a game. GameService runs
// them against a fresh read and then applies the transition as a conditional
// update on the same preconditions, so a guard that passed on a stale read
// still cannot let a conflicting transition through.

func CheckStart(game *models.Game) error {
	if game.Status != models.GameStatusLobby {
		return IllegalTransitionf("game has already started")
	}
	return nil
}

// CheckReveal validates revealing slot. onBoard reports whether the slot
// belongs to the game's board.
func CheckReveal(game *models.Game, state *models.GameState, slot *models.Slot, onBoard bool) error {
	if game.Status != models.GameStatusInProgress {
		return IllegalTransitionf("game is not in progress")
	}
	if !onBoard {
		return IllegalTransitionf("slot does not belong to this game board")
	}
	if state.Answered(slot.ID) {
		return IllegalTransitionf("question has already been answered")
	}
	if state.QuestionActive() {
		return IllegalTransitionf("another question is already active")
	}
	return nil
}

// BuzzerOnReveal is the buzzer state right after a reveal. Daily doubles go
// straight to the directed answer.
func BuzzerOnReveal(slot *models.Slot) bool {
	return !slot.IsDailyDouble
}

func CheckBuzz(game *models.Game, state *models.GameState) error {
	if !state.BuzzerEnabled {
		return IllegalTransitionf("buzzer is not enabled")
	}
	if game.Status != models.GameStatusInProgress {
		return IllegalTransitionf("game is not in progress")
	}
	return nil
}

func CheckAnswer(game *models.Game, state *models.GameState) error {
	if game.Status != models.GameStatusInProgress {
		return IllegalTransitionf("game is not in progress")
	}
	if !state.QuestionActive() {
		return IllegalTransitionf("no question is currently active")
	}
	return nil
}

func CheckSetBuzzer(game *models.Game, state *models.GameState, enabled bool) error {
	if game.Status != models.GameStatusInProgress {
		return IllegalTransitionf("game is not in progress")
	}
	if enabled && !state.QuestionActive() {
		return IllegalTransitionf("no question is currently active")
	}
	return nil
}

func CheckEnd(game *models.Game) error {
	if game.Status == models.GameStatusCompleted {
		return IllegalTransitionf("game is already completed")
	}
	return nil
}

// ScoreDelta is the score change for answering a slot worth points.
func ScoreDelta(points int, correct bool) int {
	if correct {
		return points
	}
	return -points
}
