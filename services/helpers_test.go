package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"buzzboard/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type publishedEvent struct {
	GameID uint
	Event  Event
}

// recordingPublisher keeps every published event in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, gameID uint, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{GameID: gameID, Event: ev})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event.EventType())
	}
	return out
}

func (p *recordingPublisher) last() Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1].Event
}

func createInstructor(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Name: "Instructor", Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createQuestions(t *testing.T, db *gorm.DB, userID uint, n int) []models.Question {
	t.Helper()
	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		q := models.Question{
			InstructorID: userID,
			Question:     fmt.Sprintf("Question %d", i+1),
			Answer:       fmt.Sprintf("Answer %d", i+1),
		}
		require.NoError(t, db.Create(&q).Error)
		questions = append(questions, q)
	}
	return questions
}

// completeBoardRequest lays out 6x5 slots worth 100..500 per category. The
// last slot of the last category is a daily double.
func completeBoardRequest(questions []models.Question) *BoardRequest {
	req := &BoardRequest{Name: "Science", Description: "  grade 7  "}
	for c := 0; c < models.BoardCategories; c++ {
		category := CategoryRequest{Name: fmt.Sprintf("Category %d", c+1)}
		for r := 0; r < models.CategorySlots; r++ {
			category.Slots = append(category.Slots, SlotRequest{
				QuestionID: questions[c*models.CategorySlots+r].ID,
				Points:     (r + 1) * 100,
			})
		}
		req.Categories = append(req.Categories, category)
	}
	req.Categories[models.BoardCategories-1].Slots[models.CategorySlots-1].IsDailyDouble = true
	return req
}

func createBoard(t *testing.T, db *gorm.DB, userID uint) *models.Board {
	t.Helper()
	questions := createQuestions(t, db, userID, models.BoardSlotsNeeded)
	board, err := NewBoardService(db).CreateBoard(context.Background(), userID, completeBoardRequest(questions))
	require.NoError(t, err)
	return board
}

type gameFixture struct {
	db    *gorm.DB
	pub   *recordingPublisher
	svc   *GameService
	user  *models.User
	board *models.Board
	game  *models.Game
}

func newGameFixture(t *testing.T, teamCount int, assignment string) *gameFixture {
	t.Helper()

	db := newTestDB(t)
	pub := &recordingPublisher{}
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewGameService(db, pub).WithClock(func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	})

	user := createInstructor(t, db, "instructor@example.com")
	board := createBoard(t, db, user.ID)

	game, err := svc.CreateGame(context.Background(), user.ID, &CreateGameRequest{
		BoardID:        board.ID,
		TeamCount:      teamCount,
		TeamAssignment: assignment,
	})
	require.NoError(t, err)

	return &gameFixture{db: db, pub: pub, svc: svc, user: user, board: board, game: game}
}

// slot returns the slot at category c, row r of the fixture board.
func (f *gameFixture) slot(c, r int) models.Slot {
	return f.board.Categories[c].Slots[r]
}

func (f *gameFixture) start(t *testing.T) {
	t.Helper()
	_, err := f.svc.StartGame(context.Background(), f.user.ID, f.game.ID)
	require.NoError(t, err)
}

func (f *gameFixture) join(t *testing.T, name string) models.Student {
	t.Helper()
	res, err := f.svc.JoinGame(context.Background(), &JoinGameRequest{Code: f.game.Code, Name: name})
	require.NoError(t, err)
	return res.Student
}

func (f *gameFixture) state(t *testing.T) *models.GameState {
	t.Helper()
	state, err := f.svc.loadState(f.db, f.game.ID)
	require.NoError(t, err)
	return state
}

func (f *gameFixture) teamScore(t *testing.T, teamID uint) int {
	t.Helper()
	var team models.Team
	require.NoError(t, f.db.First(&team, teamID).Error)
	return team.Score
}
