package services

import (
	"context"
	"errors"
	"strings"

	"buzzboard/models"

	"gorm.io/gorm"
)

type BoardService struct {
	db *gorm.DB
}

func NewBoardService(db *gorm.DB) *BoardService {
	return &BoardService{db: db}
}

type BoardRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Categories  []CategoryRequest `json:"categories" binding:"required,len=6,dive"`
}

type CategoryRequest struct {
	Name  string        `json:"name" binding:"required"`
	Slots []SlotRequest `json:"slots" binding:"required,len=5,dive"`
}

type SlotRequest struct {
	QuestionID    uint `json:"question_id" binding:"required"`
	Points        int  `json:"points" binding:"required,gt=0"`
	IsDailyDouble bool `json:"is_daily_double"`
}

func (r *BoardRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return InvalidInputf("board name is required")
	}
	if len(r.Categories) != models.BoardCategories {
		return InvalidInputf("board must have exactly %d categories", models.BoardCategories)
	}
	for i, c := range r.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return InvalidInputf("category %d must have a name", i+1)
		}
		if len(c.Slots) != models.CategorySlots {
			return InvalidInputf("category %d must have exactly %d question slots", i+1, models.CategorySlots)
		}
		for j, slot := range c.Slots {
			if slot.QuestionID == 0 {
				return InvalidInputf("category %d, slot %d must have a question id", i+1, j+1)
			}
			if slot.Points <= 0 {
				return InvalidInputf("category %d, slot %d must have valid points", i+1, j+1)
			}
		}
	}
	return nil
}

func (r *BoardRequest) questionIDs() []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, c := range r.Categories {
		for _, slot := range c.Slots {
			if !seen[slot.QuestionID] {
				seen[slot.QuestionID] = true
				ids = append(ids, slot.QuestionID)
			}
		}
	}
	return ids
}

func (s *BoardService) CreateBoard(ctx context.Context, userID uint, req *BoardRequest) (*models.Board, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var board models.Board
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkQuestionsOwned(tx, userID, req.questionIDs()); err != nil {
			return err
		}

		board = models.Board{
			InstructorID: userID,
			Name:         strings.TrimSpace(req.Name),
			Description:  trimmedOrNil(req.Description),
		}
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
		return createCategories(tx, board.ID, req.Categories)
	})
	if err != nil {
		return nil, err
	}

	// Fetch the board with categories and slots loaded
	return s.GetBoard(ctx, board.ID, userID)
}

func (s *BoardService) GetUserBoards(ctx context.Context, userID uint) ([]models.Board, error) {
	var boards []models.Board
	err := s.db.WithContext(ctx).Where("instructor_id = ?", userID).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.position ASC")
		}).
		Preload("Categories.Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("slots.row_index ASC")
		}).
		Preload("Categories.Slots.Question").
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (s *BoardService) GetBoard(ctx context.Context, boardID, userID uint) (*models.Board, error) {
	var board models.Board
	err := s.db.WithContext(ctx).Where("id = ? AND instructor_id = ?", boardID, userID).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.position ASC")
		}).
		Preload("Categories.Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("slots.row_index ASC")
		}).
		Preload("Categories.Slots.Question.Tags").
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("board not found")
		}
		return nil, err
	}
	return &board, nil
}

// UpdateBoard renames the board and replaces all of its categories and slots.
func (s *BoardService) UpdateBoard(ctx context.Context, boardID, userID uint, req *BoardRequest) (*models.Board, error) {
	if _, err := s.GetBoard(ctx, boardID, userID); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkBoardIdle(tx, boardID); err != nil {
			return err
		}
		if err := checkQuestionsOwned(tx, userID, req.questionIDs()); err != nil {
			return err
		}

		if err := tx.Model(&models.Board{}).Where("id = ?", boardID).Updates(map[string]interface{}{
			"name":        strings.TrimSpace(req.Name),
			"description": trimmedOrNil(req.Description),
		}).Error; err != nil {
			return err
		}

		if err := deleteCategories(tx, boardID); err != nil {
			return err
		}
		return createCategories(tx, boardID, req.Categories)
	})
	if err != nil {
		return nil, err
	}

	return s.GetBoard(ctx, boardID, userID)
}

func (s *BoardService) DeleteBoard(ctx context.Context, boardID, userID uint) error {
	if _, err := s.GetBoard(ctx, boardID, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkBoardIdle(tx, boardID); err != nil {
			return err
		}
		if err := deleteCategories(tx, boardID); err != nil {
			return err
		}
		return tx.Delete(&models.Board{}, boardID).Error
	})
}

func createCategories(tx *gorm.DB, boardID uint, categories []CategoryRequest) error {
	for column, cReq := range categories {
		category := models.Category{
			BoardID: boardID,
			Name:    strings.TrimSpace(cReq.Name),
			Order:   column,
		}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}

		for row, sReq := range cReq.Slots {
			slot := models.Slot{
				CategoryID:    category.ID,
				QuestionID:    sReq.QuestionID,
				Row:           row,
				Column:        column,
				Points:        sReq.Points,
				IsDailyDouble: sReq.IsDailyDouble,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func deleteCategories(tx *gorm.DB, boardID uint) error {
	categoryIDs := tx.Model(&models.Category{}).Select("id").Where("board_id = ?", boardID)
	if err := tx.Where("category_id IN (?)", categoryIDs).Delete(&models.Slot{}).Error; err != nil {
		return err
	}
	return tx.Where("board_id = ?", boardID).Delete(&models.Category{}).Error
}

// checkBoardIdle rejects edits to a board that an unfinished game is played on.
// Slots are recreated on update, which would strand the game's current and
// answered slot ids.
func checkBoardIdle(tx *gorm.DB, boardID uint) error {
	var count int64
	if err := tx.Model(&models.Game{}).
		Where("board_id = ? AND status <> ?", boardID, models.GameStatusCompleted).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return IllegalTransitionf("board is in use by a game that has not ended")
	}
	return nil
}

func checkQuestionsOwned(tx *gorm.DB, userID uint, ids []uint) error {
	var count int64
	if err := tx.Model(&models.Question{}).
		Where("id IN ? AND instructor_id = ?", ids, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return NotFoundf("one or more questions on the board were not found")
	}
	return nil
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
