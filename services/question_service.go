package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"buzzboard/models"

	"gorm.io/gorm"
)

const (
	defaultQuestionLimit = 50
	maxQuestionLimit     = 200
	exportVersion        = "1.0"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	TagIDs   []uint `json:"tag_ids"`
}

type QuestionFilter struct {
	Search string
	TagIDs []uint
	Limit  int
	Offset int
}

type QuestionPage struct {
	Questions []models.Question `json:"questions"`
	Total     int64             `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

type ImportQuestion struct {
	Answer   string   `json:"answer" binding:"required"`
	Question string   `json:"question" binding:"required"`
	Tags     []string `json:"tags" binding:"required"`
}

type ImportRequest struct {
	Questions []ImportQuestion `json:"questions" binding:"required,dive"`
}

type ImportResult struct {
	Imported  int               `json:"imported"`
	Questions []models.Question `json:"questions"`
}

type QuestionExport struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Instructor string           `json:"instructor"`
	Count      int              `json:"count"`
	Questions  []ImportQuestion `json:"questions"`
}

func (r *QuestionRequest) validate() error {
	if strings.TrimSpace(r.Answer) == "" {
		return InvalidInputf("answer is required")
	}
	if strings.TrimSpace(r.Question) == "" {
		return InvalidInputf("question is required")
	}
	return nil
}

func (s *QuestionService) ListQuestions(ctx context.Context, userID uint, filter QuestionFilter) (*QuestionPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultQuestionLimit
	}
	if filter.Limit > maxQuestionLimit {
		filter.Limit = maxQuestionLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	db := s.db.WithContext(ctx)
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("instructor_id = ?", userID)
		if filter.Search != "" {
			q = matchText(q, filter.Search)
		}
		if len(filter.TagIDs) > 0 {
			q = q.Where("id IN (?)", db.Table("question_tags").Select("question_id").Where("tag_id IN ?", filter.TagIDs))
		}
		return q
	}

	page := &QuestionPage{Questions: []models.Question{}, Limit: filter.Limit, Offset: filter.Offset}
	if err := scope(db.Model(&models.Question{})).Count(&page.Total).Error; err != nil {
		return nil, err
	}
	err := scope(db).
		Preload("Tags").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&page.Questions).Error
	if err != nil {
		return nil, err
	}
	return page, nil
}

// SearchQuestions filters by free text and tag names, unpaginated.
func (s *QuestionService) SearchQuestions(ctx context.Context, userID uint, term string, tagNames []string) ([]models.Question, error) {
	db := s.db.WithContext(ctx)

	q := db.Where("instructor_id = ?", userID)
	if term != "" {
		q = matchText(q, term)
	}
	if len(tagNames) > 0 {
		q = q.Where("id IN (?)", db.Table("question_tags").
			Select("question_tags.question_id").
			Joins("JOIN tags ON tags.id = question_tags.tag_id").
			Where("tags.name IN ?", tagNames))
	}

	questions := []models.Question{}
	err := q.Preload("Tags").Order("created_at DESC").Find(&questions).Error
	return questions, err
}

func (s *QuestionService) CreateQuestion(ctx context.Context, userID uint, req *QuestionRequest) (*models.Question, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var question models.Question
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := tagsByID(tx, req.TagIDs)
		if err != nil {
			return err
		}
		question = models.Question{
			InstructorID: userID,
			Question:     strings.TrimSpace(req.Question),
			Answer:       strings.TrimSpace(req.Answer),
			Tags:         tags,
		}
		return tx.Create(&question).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestion(ctx, question.ID, userID)
}

func (s *QuestionService) GetQuestion(ctx context.Context, questionID, userID uint) (*models.Question, error) {
	var question models.Question
	err := s.db.WithContext(ctx).
		Where("id = ? AND instructor_id = ?", questionID, userID).
		Preload("Tags").
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("question not found")
		}
		return nil, err
	}
	return &question, nil
}

// UpdateQuestion rewrites the text and replaces the tag set.
func (s *QuestionService) UpdateQuestion(ctx context.Context, questionID, userID uint, req *QuestionRequest) (*models.Question, error) {
	question, err := s.GetQuestion(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := tagsByID(tx, req.TagIDs)
		if err != nil {
			return err
		}
		if err := tx.Model(question).Updates(map[string]interface{}{
			"question": strings.TrimSpace(req.Question),
			"answer":   strings.TrimSpace(req.Answer),
		}).Error; err != nil {
			return err
		}
		return tx.Model(question).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestion(ctx, questionID, userID)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, questionID, userID uint) error {
	question, err := s.GetQuestion(ctx, questionID, userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkQuestionIdle(tx, questionID); err != nil {
			return err
		}
		if err := tx.Model(question).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(question).Error
	})
}

// ImportQuestions creates questions in bulk, creating tags by name as needed.
func (s *QuestionService) ImportQuestions(ctx context.Context, userID uint, items []ImportQuestion) (*ImportResult, error) {
	for i, item := range items {
		if strings.TrimSpace(item.Answer) == "" {
			return nil, InvalidInputf("question %d must have an answer", i+1)
		}
		if strings.TrimSpace(item.Question) == "" {
			return nil, InvalidInputf("question %d must have a question", i+1)
		}
	}

	result := &ImportResult{Questions: []models.Question{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			tags, err := upsertTags(tx, item.Tags)
			if err != nil {
				return err
			}
			question := models.Question{
				InstructorID: userID,
				Question:     strings.TrimSpace(item.Question),
				Answer:       strings.TrimSpace(item.Answer),
				Tags:         tags,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			result.Questions = append(result.Questions, question)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Imported = len(result.Questions)
	return result, nil
}

func (s *QuestionService) ExportQuestions(ctx context.Context, user *models.User) (*QuestionExport, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Where("instructor_id = ?", user.ID).
		Preload("Tags").
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	export := &QuestionExport{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Instructor: user.Email,
		Count:      len(questions),
		Questions:  make([]ImportQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		names := make([]string, 0, len(q.Tags))
		for _, t := range q.Tags {
			names = append(names, t.Name)
		}
		export.Questions = append(export.Questions, ImportQuestion{
			Answer:   q.Answer,
			Question: q.Question,
			Tags:     names,
		})
	}
	return export, nil
}

// checkQuestionIdle rejects removing a question that sits on the board of an
// unfinished game.
func checkQuestionIdle(tx *gorm.DB, questionID uint) error {
	categoryIDs := tx.Model(&models.Slot{}).Select("category_id").Where("question_id = ?", questionID)
	boardIDs := tx.Model(&models.Category{}).Select("board_id").Where("id IN (?)", categoryIDs)

	var count int64
	if err := tx.Model(&models.Game{}).
		Where("board_id IN (?) AND status <> ?", boardIDs, models.GameStatusCompleted).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return IllegalTransitionf("question is on the board of a game that has not ended")
	}
	return nil
}

func matchText(q *gorm.DB, term string) *gorm.DB {
	pattern := "%" + strings.ToLower(term) + "%"
	return q.Where("(LOWER(question) LIKE ? OR LOWER(answer) LIKE ?)", pattern, pattern)
}

func tagsByID(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(dedupe(ids)) {
		return nil, NotFoundf("tag not found")
	}
	return tags, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
