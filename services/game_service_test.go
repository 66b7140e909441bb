package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"buzzboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGameDefaults(t *testing.T) {
	f := newGameFixture(t, 3, models.TeamAssignmentManual)

	assert.Equal(t, models.GameStatusLobby, f.game.Status)
	assert.True(t, ValidGameCode(f.game.Code), "code %q", f.game.Code)
	require.Len(t, f.game.Teams, 3)
	for i, team := range f.game.Teams {
		assert.Equal(t, models.DefaultTeamColors[i], team.Color)
		assert.Zero(t, team.Score)
	}
	assert.Equal(t, "Team 1", f.game.Teams[0].Name)
	assert.Equal(t, "Team 3", f.game.Teams[2].Name)

	require.NotNil(t, f.game.State)
	assert.False(t, f.game.State.BuzzerEnabled)
	assert.Nil(t, f.game.State.CurrentSlotID)
	assert.Empty(t, f.game.State.AnsweredSlots)
}

func TestCreateGameCustomTeams(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)

	game, err := f.svc.CreateGame(context.Background(), f.user.ID, &CreateGameRequest{
		BoardID:        f.board.ID,
		TeamCount:      2,
		TeamAssignment: models.TeamAssignmentRandom,
		TeamNames:      []string{"  Owls ", ""},
		TeamColors:     []string{"", "#000000"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Owls", game.Teams[0].Name)
	assert.Equal(t, models.DefaultTeamColors[0], game.Teams[0].Color)
	assert.Equal(t, "Team 2", game.Teams[1].Name)
	assert.Equal(t, "#000000", game.Teams[1].Color)
	assert.NotEqual(t, f.game.Code, game.Code)
}

func TestCreateGameValidation(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateGameRequest
		kind error
	}{
		{"too few teams", CreateGameRequest{BoardID: f.board.ID, TeamCount: 1, TeamAssignment: models.TeamAssignmentManual}, ErrInvalidInput},
		{"too many teams", CreateGameRequest{BoardID: f.board.ID, TeamCount: 7, TeamAssignment: models.TeamAssignmentManual}, ErrInvalidInput},
		{"unknown assignment", CreateGameRequest{BoardID: f.board.ID, TeamCount: 2, TeamAssignment: "DRAFT"}, ErrInvalidInput},
		{"unknown board", CreateGameRequest{BoardID: 9999, TeamCount: 2, TeamAssignment: models.TeamAssignmentManual}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.CreateGame(ctx, f.user.ID, &req)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestCreateGameRequiresOwnCompleteBoard(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	other := createInstructor(t, f.db, "other@example.com")
	_, err := f.svc.CreateGame(ctx, other.ID, &CreateGameRequest{
		BoardID: f.board.ID, TeamCount: 2, TeamAssignment: models.TeamAssignmentManual,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	partial := models.Board{InstructorID: f.user.ID, Name: "Draft"}
	require.NoError(t, f.db.Create(&partial).Error)
	require.NoError(t, f.db.Create(&models.Category{BoardID: partial.ID, Name: "Only"}).Error)

	_, err = f.svc.CreateGame(ctx, f.user.ID, &CreateGameRequest{
		BoardID: partial.ID, TeamCount: 2, TeamAssignment: models.TeamAssignmentManual,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateGameRegeneratesTakenCodes(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	codes := []string{f.game.Code, f.game.Code, "QQQQQQ"}
	f.svc.WithCodeGenerator(func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	})

	game, err := f.svc.CreateGame(ctx, f.user.ID, &CreateGameRequest{
		BoardID: f.board.ID, TeamCount: 2, TeamAssignment: models.TeamAssignmentManual,
	})
	require.NoError(t, err)
	assert.Equal(t, "QQQQQQ", game.Code)
	assert.Empty(t, codes)
}

func TestDeletedGameKeepsItsCode(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	require.NoError(t, f.db.Delete(&models.Game{}, f.game.ID).Error)

	codes := []string{f.game.Code, "RRRRRR"}
	f.svc.WithCodeGenerator(func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	})

	game, err := f.svc.CreateGame(ctx, f.user.ID, &CreateGameRequest{
		BoardID: f.board.ID, TeamCount: 2, TeamAssignment: models.TeamAssignmentManual,
	})
	require.NoError(t, err)
	assert.Equal(t, "RRRRRR", game.Code)
}

func TestCreateGameGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)

	calls := 0
	f.svc.WithCodeGenerator(func() (string, error) {
		calls++
		return f.game.Code, nil
	})

	_, err := f.svc.CreateGame(context.Background(), f.user.ID, &CreateGameRequest{
		BoardID: f.board.ID, TeamCount: 2, TeamAssignment: models.TeamAssignmentManual,
	})
	require.Error(t, err)
	assert.Equal(t, ErrorKind(""), KindOf(err))
	assert.Equal(t, maxCodeAttempts, calls)
}

func TestJoinGame(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	res, err := f.svc.JoinGame(ctx, &JoinGameRequest{Code: "  " + strings.ToLower(f.game.Code) + " ", Name: "  Ada  "})
	require.NoError(t, err)
	assert.Equal(t, "Ada", res.Student.Name)
	assert.Equal(t, f.game.ID, res.GameID)
	assert.Nil(t, res.Student.TeamID)

	joined, ok := f.pub.last().(StudentJoined)
	require.True(t, ok)
	assert.Equal(t, "Ada", joined.Student.Name)
	assert.Len(t, joined.Students, 1)
	assert.Len(t, joined.Teams, 2)

	tests := []struct {
		name string
		req  JoinGameRequest
		kind error
	}{
		{"duplicate name", JoinGameRequest{Code: f.game.Code, Name: "Ada"}, ErrInvalidInput},
		{"blank name", JoinGameRequest{Code: f.game.Code, Name: "   "}, ErrInvalidInput},
		{"blank code", JoinGameRequest{Code: " ", Name: "Bob"}, ErrInvalidInput},
		{"unknown code", JoinGameRequest{Code: "ZZZZZZ", Name: "Bob"}, ErrNotFound},
		{"malformed code", JoinGameRequest{Code: "AB1", Name: "Bob"}, ErrInvalidInput},
		{"ambiguous characters", JoinGameRequest{Code: "ABCD0O", Name: "Bob"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.JoinGame(ctx, &req)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestJoinGameOnlyInLobby(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	f.start(t)

	_, err := f.svc.JoinGame(context.Background(), &JoinGameRequest{Code: f.game.Code, Name: "Late"})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestJoinGameRandomAssignmentBalancesTeams(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentRandom)
	first, second := f.game.Teams[0].ID, f.game.Teams[1].ID

	a := f.join(t, "A")
	b := f.join(t, "B")
	c := f.join(t, "C")

	require.NotNil(t, a.TeamID)
	require.NotNil(t, b.TeamID)
	require.NotNil(t, c.TeamID)
	assert.Equal(t, first, *a.TeamID)
	assert.Equal(t, second, *b.TeamID)
	assert.Equal(t, first, *c.TeamID)
}

func TestStartGame(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	other := createInstructor(t, f.db, "other@example.com")
	_, err := f.svc.StartGame(ctx, other.ID, f.game.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	game, err := f.svc.StartGame(ctx, f.user.ID, f.game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusInProgress, game.Status)
	assert.Equal(t, []string{EventGameStarted}, f.pub.types())

	_, err = f.svc.StartGame(ctx, f.user.ID, f.game.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Len(t, f.pub.types(), 1)
}

func TestRevealBuzzAnswerRound(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()
	team := f.game.Teams[0]

	ada := f.join(t, "Ada")
	bob := f.join(t, "Bob")
	_, err := f.svc.AssignTeam(ctx, f.user.ID, f.game.ID, ada.ID, team.ID)
	require.NoError(t, err)
	f.start(t)

	slot := f.slot(0, 1)
	state, err := f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, slot.ID)
	require.NoError(t, err)
	require.NotNil(t, state.CurrentSlotID)
	assert.Equal(t, slot.ID, *state.CurrentSlotID)
	assert.True(t, state.BuzzerEnabled)
	assert.NotNil(t, state.QuestionStartedAt)
	assert.True(t, state.QuestionActive())

	revealed, ok := f.pub.last().(QuestionRevealed)
	require.True(t, ok)
	assert.Equal(t, slot.ID, revealed.SlotID)
	assert.Equal(t, 200, revealed.CurrentSlot.Points)
	require.NotNil(t, revealed.CurrentSlot.Question)
	require.NotNil(t, revealed.CurrentSlot.Category)
	assert.Equal(t, "Category 1", revealed.CurrentSlot.Category.Name)

	first, err := f.svc.PressBuzzer(ctx, f.game.ID, ada.ID)
	require.NoError(t, err)
	assert.True(t, first.Success)
	require.NotNil(t, first.Team)
	assert.Equal(t, team.ID, first.Team.ID)

	second, err := f.svc.PressBuzzer(ctx, f.game.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, second.Team)
	assert.True(t, second.BuzzerAt.After(first.BuzzerAt))

	pressed, ok := f.pub.last().(BuzzerPressed)
	require.True(t, ok)
	assert.Equal(t, "Bob", pressed.StudentName)

	result, err := f.svc.SubmitAnswer(ctx, f.user.ID, f.game.ID, team.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 200, result.ScoreChange)
	assert.Nil(t, result.GameState.CurrentSlotID)
	assert.False(t, result.GameState.BuzzerEnabled)
	assert.Equal(t, []uint{slot.ID}, result.GameState.AnsweredSlots)
	assert.Equal(t, 200, f.teamScore(t, team.ID))

	_, err = f.svc.SubmitAnswer(ctx, f.user.ID, f.game.ID, team.ID, true)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, 200, f.teamScore(t, team.ID))

	assert.Equal(t, []string{
		EventStudentJoined,
		EventStudentJoined,
		EventTeamAssigned,
		EventGameStarted,
		EventQuestionRevealed,
		EventBuzzerPressed,
		EventBuzzerPressed,
		EventAnswerSubmitted,
	}, f.pub.types())

	answered, ok := f.pub.last().(AnswerSubmitted)
	require.True(t, ok)
	assert.Nil(t, answered.CurrentSlotID)
	assert.Equal(t, []uint{slot.ID}, answered.AnsweredSlots)
}

func TestIncorrectAnswerDeductsPoints(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()
	f.start(t)

	team := f.game.Teams[1]
	_, err := f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, f.slot(2, 2).ID)
	require.NoError(t, err)

	result, err := f.svc.SubmitAnswer(ctx, f.user.ID, f.game.ID, team.ID, false)
	require.NoError(t, err)
	assert.Equal(t, -300, result.ScoreChange)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, -300, f.teamScore(t, team.ID))
}

func TestRevealRejections(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	_, err := f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, f.slot(0, 0).ID)
	assert.ErrorIs(t, err, ErrIllegalTransition, "lobby")

	f.start(t)

	_, err = f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, 99999)
	assert.ErrorIs(t, err, ErrNotFound)

	otherBoard := createBoard(t, f.db, f.user.ID)
	_, err = f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, otherBoard.Categories[0].Slots[0].ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, f.slot(0, 0).ID)
	require.NoError(t, err)

	_, err = f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, f.slot(0, 1).ID)
	assert.ErrorIs(t, err, ErrIllegalTransition, "question already active")

	_, err = f.svc.SubmitAnswer(ctx, f.user.ID, f.game.ID, f.game.Teams[0].ID, true)
	require.NoError(t, err)

	_, err = f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, f.slot(0, 0).ID)
	assert.ErrorIs(t, err, ErrIllegalTransition, "already answered")

	state := f.state(t)
	assert.Nil(t, state.CurrentSlotID)
	assert.Equal(t, []uint{f.slot(0, 0).ID}, state.AnsweredSlots)
}

func TestDailyDoubleLeavesBuzzerOff(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()
	student := f.join(t, "Ada")
	f.start(t)

	dd := f.slot(models.BoardCategories-1, models.CategorySlots-1)
	require.True(t, dd.IsDailyDouble)

	state, err := f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, dd.ID)
	require.NoError(t, err)
	assert.False(t, state.BuzzerEnabled)
	assert.True(t, state.QuestionActive())

	_, err = f.svc.PressBuzzer(ctx, f.game.ID, student.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestPressBuzzerRules(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()
	student := f.join(t, "Ada")

	_, err := f.svc.PressBuzzer(ctx, f.game.ID, student.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition, "buzzer off in lobby")

	f.start(t)
	_, err = f.svc.PressBuzzer(ctx, f.game.ID, student.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition, "no question revealed")

	_, err = f.svc.PressBuzzer(ctx, f.game.ID, 99999)
	assert.ErrorIs(t, err, ErrNotFound)

	var stored models.Student
	require.NoError(t, f.db.First(&stored, student.ID).Error)
	assert.Nil(t, stored.BuzzerAt)
}

func TestSetBuzzer(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	_, err := f.svc.SetBuzzer(ctx, f.user.ID, f.game.ID, false)
	assert.ErrorIs(t, err, ErrIllegalTransition, "not started")

	f.start(t)
	_, err = f.svc.SetBuzzer(ctx, f.user.ID, f.game.ID, true)
	assert.ErrorIs(t, err, ErrIllegalTransition, "no active question")

	dd := f.slot(models.BoardCategories-1, models.CategorySlots-1)
	_, err = f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, dd.ID)
	require.NoError(t, err)

	state, err := f.svc.SetBuzzer(ctx, f.user.ID, f.game.ID, true)
	require.NoError(t, err)
	assert.True(t, state.BuzzerEnabled)
	assert.Equal(t, EventBuzzerEnabled, f.pub.last().EventType())

	state, err = f.svc.SetBuzzer(ctx, f.user.ID, f.game.ID, false)
	require.NoError(t, err)
	assert.False(t, state.BuzzerEnabled)
	assert.Equal(t, EventBuzzerDisabled, f.pub.last().EventType())
}

func TestAssignTeam(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()
	student := f.join(t, "Ada")

	got, err := f.svc.AssignTeam(ctx, f.user.ID, f.game.ID, student.ID, f.game.Teams[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.TeamID)
	assert.Equal(t, f.game.Teams[0].ID, *got.TeamID)

	got, err = f.svc.AssignTeam(ctx, f.user.ID, f.game.ID, student.ID, f.game.Teams[1].ID)
	require.NoError(t, err)
	assert.Equal(t, f.game.Teams[1].ID, *got.TeamID)
	require.NotNil(t, got.Team)
	assert.Equal(t, "Team 2", got.Team.Name)

	assigned, ok := f.pub.last().(TeamAssigned)
	require.True(t, ok)
	assert.Equal(t, student.ID, assigned.Student.ID)
	require.Len(t, assigned.Teams, 2)
	assert.Empty(t, assigned.Teams[0].Students)
	assert.Len(t, assigned.Teams[1].Students, 1)

	_, err = f.svc.AssignTeam(ctx, f.user.ID, f.game.ID, student.ID, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.AssignTeam(ctx, f.user.ID, f.game.ID, 99999, f.game.Teams[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEndGame(t *testing.T) {
	f := newGameFixture(t, 3, models.TeamAssignmentManual)
	ctx := context.Background()
	f.start(t)

	winner := f.game.Teams[2]
	_, err := f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, f.slot(1, 4).ID)
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(ctx, f.user.ID, f.game.ID, winner.ID, true)
	require.NoError(t, err)

	_, err = f.svc.Results(ctx, f.user.ID, f.game.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition, "results before the end")

	game, err := f.svc.EndGame(ctx, f.user.ID, f.game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusCompleted, game.Status)
	assert.False(t, game.State.BuzzerEnabled)

	ended, ok := f.pub.last().(GameEnded)
	require.True(t, ok)
	require.Len(t, ended.FinalScores, 3)
	assert.Equal(t, winner.ID, ended.FinalScores[0].ID)
	assert.Equal(t, 500, ended.FinalScores[0].Score)

	_, err = f.svc.EndGame(ctx, f.user.ID, f.game.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	results, err := f.svc.Results(ctx, f.user.ID, f.game.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, results.Teams[0].ID)

	_, err = f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, f.slot(0, 0).ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestEndGameFromLobby(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)

	game, err := f.svc.EndGame(context.Background(), f.user.ID, f.game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusCompleted, game.Status)
}

func TestConcurrentAnswersScoreOnce(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()
	f.start(t)

	team := f.game.Teams[0]
	_, err := f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, f.slot(3, 0).ID)
	require.NoError(t, err)

	const racers = 5
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.SubmitAnswer(ctx, f.user.ID, f.game.ID, team.ID, true)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrIllegalTransition)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 100, f.teamScore(t, team.ID))
}

func TestConcurrentRevealsActivateOne(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()
	f.start(t)

	slots := []uint{f.slot(0, 0).ID, f.slot(1, 0).ID, f.slot(2, 0).ID, f.slot(3, 0).ID}
	errs := make([]error, len(slots))
	var wg sync.WaitGroup
	for i, id := range slots {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = f.svc.RevealQuestion(ctx, f.user.ID, f.game.ID, id)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrIllegalTransition)
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, f.state(t).QuestionActive())
}

func TestGetGameByCodeAndList(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	game, err := f.svc.GetGameByCode(ctx, strings.ToLower(f.game.Code))
	require.NoError(t, err)
	assert.Equal(t, f.game.ID, game.ID)

	_, err = f.svc.GetGameByCode(ctx, "NPEZZZ")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.GetGameByCode(ctx, "NOPE00")
	assert.ErrorIs(t, err, ErrInvalidInput)

	games, err := f.svc.ListGames(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.NotNil(t, games[0].Board)

	assert.NoError(t, f.svc.GameExists(ctx, f.game.ID))
	assert.ErrorIs(t, f.svc.GameExists(ctx, 99999), ErrNotFound)

	_, err = f.svc.GetGame(ctx, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventsReadsJournal(t *testing.T) {
	f := newGameFixture(t, 2, models.TeamAssignmentManual)
	ctx := context.Background()

	journaled := NewGameService(f.db, NewJournal(f.db, f.pub))
	_, err := journaled.StartGame(ctx, f.user.ID, f.game.ID)
	require.NoError(t, err)

	events, err := journaled.Events(ctx, f.user.ID, f.game.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventGameStarted, events[0].Type)
	assert.JSONEq(t, `{"status":"IN_PROGRESS"}`, string(events[0].Payload))

	other := createInstructor(t, f.db, "other@example.com")
	_, err = journaled.Events(ctx, other.ID, f.game.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
