package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"buzzboard/models"

	"gorm.io/gorm"
)

type GameService struct {
	db        *gorm.DB
	publisher Publisher
	codes     CodeGenerator
	now       func() time.Time
}

func NewGameService(db *gorm.DB, publisher Publisher) *GameService {
	return &GameService{
		db:        db,
		publisher: publisher,
		codes:     GenerateGameCode,
		now:       time.Now,
	}
}

// WithCodeGenerator replaces the join code source.
func (s *GameService) WithCodeGenerator(codes CodeGenerator) *GameService {
	s.codes = codes
	return s
}

// WithClock replaces the time source used for buzzer and reveal stamps.
func (s *GameService) WithClock(now func() time.Time) *GameService {
	s.now = now
	return s
}

type CreateGameRequest struct {
	BoardID        uint     `json:"board_id" binding:"required"`
	TeamCount      int      `json:"team_count" binding:"required,min=2,max=6"`
	TeamAssignment string   `json:"team_assignment" binding:"required,oneof=MANUAL RANDOM"`
	TeamNames      []string `json:"team_names"`
	TeamColors     []string `json:"team_colors"`
}

type JoinGameRequest struct {
	Code string `json:"game_code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type BuzzRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
	GameID    uint `json:"game_id" binding:"required"`
}

type RevealRequest struct {
	SlotID uint `json:"slot_id" binding:"required"`
}

type SubmitAnswerRequest struct {
	TeamID    uint  `json:"team_id" binding:"required"`
	IsCorrect *bool `json:"is_correct" binding:"required"`
}

type AssignTeamRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
	TeamID    uint `json:"team_id" binding:"required"`
}

type SetBuzzerRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type JoinResult struct {
	Student models.Student `json:"student"`
	GameID  uint           `json:"game_id"`
}

type BuzzResult struct {
	Success  bool         `json:"success"`
	BuzzerAt time.Time    `json:"buzzer_at"`
	Team     *models.Team `json:"team"`
}

type AnswerResult struct {
	GameState   *models.GameState `json:"game_state"`
	Teams       []models.Team     `json:"teams"`
	ScoreChange int               `json:"score_change"`
	IsCorrect   bool              `json:"is_correct"`
}

func (s *GameService) CreateGame(ctx context.Context, instructorID uint, req *CreateGameRequest) (*models.Game, error) {
	if req.TeamCount < 2 || req.TeamCount > 6 {
		return nil, InvalidInputf("team count must be between 2 and 6")
	}
	if req.TeamAssignment != models.TeamAssignmentManual && req.TeamAssignment != models.TeamAssignmentRandom {
		return nil, InvalidInputf("team assignment must be MANUAL or RANDOM")
	}

	db := s.db.WithContext(ctx)

	// Check if board exists and belongs to instructor
	var board models.Board
	if err := db.Where("id = ? AND instructor_id = ?", req.BoardID, instructorID).
		Preload("Categories.Slots").
		First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("board not found")
		}
		return nil, err
	}

	if !board.Complete() {
		return nil, InvalidInputf("board must be complete before creating a game")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codes()
		if err != nil {
			return nil, err
		}

		// Codes stay reserved after a game is deleted.
		var taken int64
		if err := db.Unscoped().Model(&models.Game{}).Where("code = ?", code).Count(&taken).Error; err != nil {
			return nil, err
		}
		if taken > 0 {
			log.Printf("[game] code %s already in use, regenerating", code)
			continue
		}

		game, err := s.createGame(ctx, instructorID, code, req)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("[game] code %s was taken concurrently, regenerating", code)
			continue
		}
		if err != nil {
			return nil, err
		}
		return s.GetGame(ctx, game.ID)
	}

	return nil, fmt.Errorf("failed to allocate a unique game code after %d attempts", maxCodeAttempts)
}

func (s *GameService) createGame(ctx context.Context, instructorID uint, code string, req *CreateGameRequest) (*models.Game, error) {
	game := models.Game{
		Code:           code,
		InstructorID:   instructorID,
		BoardID:        req.BoardID,
		Status:         models.GameStatusLobby,
		TeamAssignment: req.TeamAssignment,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}

		for i := 0; i < req.TeamCount; i++ {
			team := models.Team{
				GameID: game.ID,
				Name:   fmt.Sprintf("Team %d", i+1),
				Color:  models.DefaultTeamColors[i%len(models.DefaultTeamColors)],
			}
			if i < len(req.TeamNames) && strings.TrimSpace(req.TeamNames[i]) != "" {
				team.Name = strings.TrimSpace(req.TeamNames[i])
			}
			if i < len(req.TeamColors) && req.TeamColors[i] != "" {
				team.Color = req.TeamColors[i]
			}
			if err := tx.Create(&team).Error; err != nil {
				return err
			}
		}

		state := models.GameState{GameID: game.ID}
		return tx.Create(&state).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGame loads a game with its board, teams, students and state.
func (s *GameService) GetGame(ctx context.Context, gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).
		Preload("Board.Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.position ASC")
		}).
		Preload("Board.Categories.Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("slots.row_index ASC")
		}).
		Preload("Board.Categories.Slots.Question").
		Preload("Teams", orderTeams).
		Preload("Teams.Students", orderStudents).
		Preload("Students", orderStudents).
		Preload("State").
		First(&game, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("game not found")
		}
		return nil, err
	}

	if err := s.loadAnswered(s.db.WithContext(ctx), game.State); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGameByCode resolves a join code to the lobby view of a game.
func (s *GameService) GetGameByCode(ctx context.Context, code string) (*models.Game, error) {
	code = NormalizeGameCode(code)
	if !ValidGameCode(code) {
		return nil, InvalidInputf("game code must be %d letters or digits", GameCodeLength)
	}

	var game models.Game
	err := s.db.WithContext(ctx).
		Where("code = ?", code).
		Preload("Teams", orderTeams).
		Preload("Students", orderStudents).
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("game not found. please check the game code")
		}
		return nil, err
	}
	return &game, nil
}

// GameExists reports NotFound for unknown game ids.
func (s *GameService) GameExists(ctx context.Context, gameID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", gameID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return NotFoundf("game not found")
	}
	return nil
}

func (s *GameService) ListGames(ctx context.Context, instructorID uint) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Preload("Board").
		Preload("Teams", orderTeams).
		Order("created_at DESC").
		Find(&games).Error
	return games, err
}

func (s *GameService) StartGame(ctx context.Context, instructorID, gameID uint) (*models.Game, error) {
	db := s.db.WithContext(ctx)

	game, err := s.ownedGame(db, instructorID, gameID)
	if err != nil {
		return nil, err
	}
	if err := CheckStart(game); err != nil {
		return nil, err
	}

	res := db.Model(&models.Game{}).
		Where("id = ? AND status = ?", gameID, models.GameStatusLobby).
		Update("status", models.GameStatusInProgress)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, IllegalTransitionf("game has already started")
	}

	s.publish(ctx, gameID, GameStarted{Status: models.GameStatusInProgress})
	return s.GetGame(ctx, gameID)
}

func (s *GameService) RevealQuestion(ctx context.Context, instructorID, gameID, slotID uint) (*models.GameState, error) {
	db := s.db.WithContext(ctx)

	game, err := s.ownedGame(db, instructorID, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusInProgress {
		return nil, IllegalTransitionf("game is not in progress")
	}

	var slot models.Slot
	if err := db.Preload("Question").First(&slot, slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("question slot not found")
		}
		return nil, err
	}
	var category models.Category
	if err := db.First(&category, slot.CategoryID).Error; err != nil {
		return nil, fmt.Errorf("failed to load category of slot %d: %w", slotID, err)
	}
	onBoard := category.BoardID == game.BoardID

	state, err := s.loadState(db, gameID)
	if err != nil {
		return nil, err
	}
	if err := CheckReveal(game, state, &slot, onBoard); err != nil {
		return nil, err
	}

	buzzer := BuzzerOnReveal(&slot)
	res := db.Model(&models.GameState{}).
		Where("game_id = ? AND current_slot_id IS NULL", gameID).
		Where("NOT EXISTS (?)", db.Model(&models.AnsweredSlot{}).Select("1").
			Where("game_id = ? AND slot_id = ?", gameID, slotID)).
		Where("EXISTS (?)", inProgress(db, gameID)).
		Updates(map[string]interface{}{
			"current_slot_id":     slotID,
			"current_team_id":     nil,
			"question_started_at": s.now(),
			"buzzer_enabled":      buzzer,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, s.explain(ctx, gameID, func(g *models.Game, st *models.GameState) error {
			return CheckReveal(g, st, &slot, onBoard)
		}, "question could not be revealed")
	}

	state, err = s.loadState(db, gameID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, gameID, QuestionRevealed{
		SlotID:        slotID,
		CurrentSlot:   RevealedSlot{Slot: slot, Category: &category},
		BuzzerEnabled: state.BuzzerEnabled,
	})
	return state, nil
}

// PressBuzzer records the press time of a student. Every press is recorded;
// the instructor's answer decision picks whose press counts.
func (s *GameService) PressBuzzer(ctx context.Context, gameID, studentID uint) (*BuzzResult, error) {
	db := s.db.WithContext(ctx)

	var student models.Student
	if err := db.Where("id = ? AND game_id = ?", studentID, gameID).
		Preload("Team").
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("student not found")
		}
		return nil, err
	}

	game, state, err := s.gameAndState(db, gameID)
	if err != nil {
		return nil, err
	}
	if err := CheckBuzz(game, state); err != nil {
		return nil, err
	}

	pressedAt := s.now()
	res := db.Model(&models.Student{}).
		Where("id = ? AND game_id = ?", studentID, gameID).
		Where("EXISTS (?)", db.Model(&models.GameState{}).Select("1").
			Where("game_id = ? AND buzzer_enabled = ?", gameID, true)).
		Where("EXISTS (?)", inProgress(db, gameID)).
		Update("buzzer_at", pressedAt)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, s.explain(ctx, gameID, CheckBuzz, "buzzer is not enabled")
	}

	ev := BuzzerPressed{
		StudentID:   student.ID,
		StudentName: student.Name,
		TeamID:      student.TeamID,
		BuzzerAt:    pressedAt,
	}
	if student.Team != nil {
		ev.TeamName = student.Team.Name
	}
	s.publish(ctx, gameID, ev)

	return &BuzzResult{Success: true, BuzzerAt: pressedAt, Team: student.Team}, nil
}

// SubmitAnswer scores the active question for a team and returns the game
// to idle. The clear of current_slot_id is conditional on the slot read, so
// of two racing submissions only one can apply.
func (s *GameService) SubmitAnswer(ctx context.Context, instructorID, gameID, teamID uint, isCorrect bool) (*AnswerResult, error) {
	db := s.db.WithContext(ctx)

	game, err := s.ownedGame(db, instructorID, gameID)
	if err != nil {
		return nil, err
	}

	var team models.Team
	if err := db.Where("id = ? AND game_id = ?", teamID, gameID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("team not found")
		}
		return nil, err
	}

	var delta int
	err = db.Transaction(func(tx *gorm.DB) error {
		state, err := s.loadState(tx, gameID)
		if err != nil {
			return err
		}
		if err := CheckAnswer(game, state); err != nil {
			return err
		}
		slotID := *state.CurrentSlotID

		var slot models.Slot
		if err := tx.First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("question slot not found")
			}
			return err
		}
		delta = ScoreDelta(slot.Points, isCorrect)

		res := tx.Model(&models.GameState{}).
			Where("game_id = ? AND current_slot_id = ?", gameID, slotID).
			Where("EXISTS (?)", inProgress(tx, gameID)).
			Updates(map[string]interface{}{
				"current_slot_id":     nil,
				"current_team_id":     nil,
				"question_started_at": nil,
				"buzzer_enabled":      false,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return IllegalTransitionf("no question is currently active")
		}

		if err := tx.Create(&models.AnsweredSlot{GameID: gameID, SlotID: slotID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return IllegalTransitionf("question has already been answered")
			}
			return err
		}

		return tx.Model(&models.Team{}).
			Where("id = ? AND game_id = ?", teamID, gameID).
			Update("score", gorm.Expr("score + ?", delta)).Error
	})
	if err != nil {
		return nil, err
	}

	state, err := s.loadState(db, gameID)
	if err != nil {
		return nil, err
	}
	teams, err := s.teams(db, gameID, orderTeams)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, gameID, AnswerSubmitted{
		TeamID:        teamID,
		IsCorrect:     isCorrect,
		ScoreChange:   delta,
		Teams:         teams,
		AnsweredSlots: state.AnsweredSlots,
		CurrentSlotID: state.CurrentSlotID,
	})

	return &AnswerResult{
		GameState:   state,
		Teams:       teams,
		ScoreChange: delta,
		IsCorrect:   isCorrect,
	}, nil
}

// SetBuzzer lets the instructor open or lock the buzzer for the active
// question.
func (s *GameService) SetBuzzer(ctx context.Context, instructorID, gameID uint, enabled bool) (*models.GameState, error) {
	db := s.db.WithContext(ctx)

	game, err := s.ownedGame(db, instructorID, gameID)
	if err != nil {
		return nil, err
	}
	state, err := s.loadState(db, gameID)
	if err != nil {
		return nil, err
	}
	if err := CheckSetBuzzer(game, state, enabled); err != nil {
		return nil, err
	}

	q := db.Model(&models.GameState{}).
		Where("game_id = ?", gameID).
		Where("EXISTS (?)", inProgress(db, gameID))
	if enabled {
		q = q.Where("current_slot_id IS NOT NULL")
	}
	res := q.Update("buzzer_enabled", enabled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, s.explain(ctx, gameID, func(g *models.Game, st *models.GameState) error {
			return CheckSetBuzzer(g, st, enabled)
		}, "buzzer could not be changed")
	}

	if enabled {
		s.publish(ctx, gameID, BuzzerEnabled{Enabled: true})
	} else {
		s.publish(ctx, gameID, BuzzerDisabled{Enabled: false})
	}
	return s.loadState(db, gameID)
}

func (s *GameService) AssignTeam(ctx context.Context, instructorID, gameID, studentID, teamID uint) (*models.Student, error) {
	db := s.db.WithContext(ctx)

	if _, err := s.ownedGame(db, instructorID, gameID); err != nil {
		return nil, err
	}

	var student models.Student
	if err := db.Where("id = ? AND game_id = ?", studentID, gameID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("student not found")
		}
		return nil, err
	}

	var team models.Team
	if err := db.Where("id = ? AND game_id = ?", teamID, gameID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("team not found")
		}
		return nil, err
	}

	if err := db.Model(&models.Student{}).Where("id = ?", studentID).Update("team_id", teamID).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Team").First(&student, studentID).Error; err != nil {
		return nil, err
	}
	students, teams, err := s.roster(db, gameID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, gameID, TeamAssigned{Student: student, Students: students, Teams: teams})
	return &student, nil
}

func (s *GameService) EndGame(ctx context.Context, instructorID, gameID uint) (*models.Game, error) {
	db := s.db.WithContext(ctx)

	game, err := s.ownedGame(db, instructorID, gameID)
	if err != nil {
		return nil, err
	}
	if err := CheckEnd(game); err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Game{}).
			Where("id = ? AND status <> ?", gameID, models.GameStatusCompleted).
			Update("status", models.GameStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return IllegalTransitionf("game is already completed")
		}
		return tx.Model(&models.GameState{}).
			Where("game_id = ?", gameID).
			Update("buzzer_enabled", false).Error
	})
	if err != nil {
		return nil, err
	}

	finalScores, err := s.teams(db, gameID, orderTeamsByScore)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, gameID, GameEnded{Status: models.GameStatusCompleted, FinalScores: finalScores})

	return s.GetGame(ctx, gameID)
}

func (s *GameService) JoinGame(ctx context.Context, req *JoinGameRequest) (*JoinResult, error) {
	code := NormalizeGameCode(req.Code)
	if code == "" {
		return nil, InvalidInputf("game code is required")
	}
	if !ValidGameCode(code) {
		return nil, InvalidInputf("game code must be %d letters or digits", GameCodeLength)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, InvalidInputf("name is required")
	}

	db := s.db.WithContext(ctx)

	var game models.Game
	if err := db.Where("code = ?", code).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("game not found. please check the game code")
		}
		return nil, err
	}

	student := models.Student{GameID: game.ID, Name: name}
	err := db.Transaction(func(tx *gorm.DB) error {
		var current models.Game
		if err := tx.First(&current, game.ID).Error; err != nil {
			return err
		}
		if !current.Joinable() {
			return IllegalTransitionf("game has already started. cannot join now")
		}

		var taken int64
		if err := tx.Model(&models.Student{}).Where("game_id = ? AND name = ?", game.ID, name).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return InvalidInputf("name is already taken. please choose a different name")
		}

		if current.TeamAssignment == models.TeamAssignmentRandom {
			teamID, err := smallestTeam(tx, game.ID)
			if err != nil {
				return err
			}
			student.TeamID = teamID
		}

		if err := tx.Create(&student).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return InvalidInputf("name is already taken. please choose a different name")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Team").First(&student, student.ID).Error; err != nil {
		return nil, err
	}
	students, teams, err := s.roster(db, game.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, game.ID, StudentJoined{Student: student, Students: students, Teams: teams})

	return &JoinResult{Student: student, GameID: game.ID}, nil
}

// Results returns a completed game with teams ranked by score.
func (s *GameService) Results(ctx context.Context, instructorID, gameID uint) (*models.Game, error) {
	db := s.db.WithContext(ctx)

	if _, err := s.ownedGame(db, instructorID, gameID); err != nil {
		return nil, err
	}

	var game models.Game
	err := db.Preload("Board").
		Preload("Teams", orderTeamsByScore).
		Preload("Teams.Students", orderStudents).
		Preload("Students", orderStudents).
		Preload("Students.Team").
		Preload("State").
		First(&game, gameID).Error
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusCompleted {
		return nil, IllegalTransitionf("game is not yet completed")
	}
	if err := s.loadAnswered(db, game.State); err != nil {
		return nil, err
	}
	return &game, nil
}

// Events returns the event journal of an owned game.
func (s *GameService) Events(ctx context.Context, instructorID, gameID uint) ([]models.GameEvent, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.ownedGame(db, instructorID, gameID); err != nil {
		return nil, err
	}

	var events []models.GameEvent
	err := db.Where("game_id = ?", gameID).Order("id ASC").Find(&events).Error
	return events, err
}

func (s *GameService) publish(ctx context.Context, gameID uint, ev Event) {
	if s.publisher == nil {
		return
	}
	// The transition is already committed; delivery problems stay here.
	if err := s.publisher.Publish(ctx, gameID, ev); err != nil {
		log.Printf("[game] failed to publish %s for game %d: %v", ev.EventType(), gameID, err)
	}
}

// explain re-reads the game after a conditional update matched nothing and
// returns the guard error that now applies.
func (s *GameService) explain(ctx context.Context, gameID uint, check func(*models.Game, *models.GameState) error, fallback string) error {
	game, state, err := s.gameAndState(s.db.WithContext(ctx), gameID)
	if err != nil {
		return err
	}
	if err := check(game, state); err != nil {
		return err
	}
	return IllegalTransitionf("%s", fallback)
}

func (s *GameService) ownedGame(db *gorm.DB, instructorID, gameID uint) (*models.Game, error) {
	var game models.Game
	if err := db.Where("id = ? AND instructor_id = ?", gameID, instructorID).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("game not found")
		}
		return nil, err
	}
	return &game, nil
}

func (s *GameService) gameAndState(db *gorm.DB, gameID uint) (*models.Game, *models.GameState, error) {
	var game models.Game
	if err := db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFoundf("game not found")
		}
		return nil, nil, err
	}
	state, err := s.loadState(db, gameID)
	if err != nil {
		return nil, nil, err
	}
	return &game, state, nil
}

func (s *GameService) loadState(db *gorm.DB, gameID uint) (*models.GameState, error) {
	var state models.GameState
	if err := db.Where("game_id = ?", gameID).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("game state not found")
		}
		return nil, err
	}
	if err := s.loadAnswered(db, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *GameService) loadAnswered(db *gorm.DB, state *models.GameState) error {
	if state == nil {
		return nil
	}
	ids := []uint{}
	if err := db.Model(&models.AnsweredSlot{}).
		Where("game_id = ?", state.GameID).
		Order("id ASC").
		Pluck("slot_id", &ids).Error; err != nil {
		return err
	}
	state.AnsweredSlots = ids
	return nil
}

func (s *GameService) teams(db *gorm.DB, gameID uint, order func(*gorm.DB) *gorm.DB) ([]models.Team, error) {
	teams := []models.Team{}
	err := order(db.Where("game_id = ?", gameID)).
		Preload("Students", orderStudents).
		Find(&teams).Error
	return teams, err
}

func (s *GameService) roster(db *gorm.DB, gameID uint) ([]models.Student, []models.Team, error) {
	students := []models.Student{}
	if err := orderStudents(db.Where("game_id = ?", gameID)).
		Preload("Team").
		Find(&students).Error; err != nil {
		return nil, nil, err
	}
	teams, err := s.teams(db, gameID, orderTeams)
	if err != nil {
		return nil, nil, err
	}
	return students, teams, nil
}

// smallestTeam picks the team with the fewest students, earliest first on ties.
func smallestTeam(tx *gorm.DB, gameID uint) (*uint, error) {
	var teams []models.Team
	if err := orderTeams(tx.Where("game_id = ?", gameID)).Find(&teams).Error; err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, nil
	}

	best, bestCount := teams[0].ID, int64(-1)
	for _, team := range teams {
		var count int64
		if err := tx.Model(&models.Student{}).Where("team_id = ?", team.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if bestCount < 0 || count < bestCount {
			best, bestCount = team.ID, count
		}
	}
	return &best, nil
}

func inProgress(db *gorm.DB, gameID uint) *gorm.DB {
	return db.Model(&models.Game{}).Select("1").
		Where("id = ? AND status = ?", gameID, models.GameStatusInProgress)
}

func orderTeams(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func orderTeamsByScore(db *gorm.DB) *gorm.DB {
	return db.Order("score DESC").Order("id ASC")
}

func orderStudents(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
