package services

import (
	"context"
	"errors"
	"strings"

	"buzzboard/models"

	"gorm.io/gorm"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListTags returns every tag by name with the number of questions using it.
func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	db := s.db.WithContext(ctx)

	var tags []models.Tag
	if err := db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}

	type tagCount struct {
		TagID uint
		Count int64
	}
	var counts []tagCount
	if err := db.Table("question_tags").
		Select("tag_id, COUNT(*) AS count").
		Group("tag_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	byTag := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byTag[c.TagID] = c.Count
	}
	for i := range tags {
		tags[i].QuestionCount = byTag[tags[i].ID]
	}
	return tags, nil
}

// CreateTag returns the existing tag when the name is already known; created
// reports whether a new row was written.
func (s *TagService) CreateTag(ctx context.Context, name string) (tag *models.Tag, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, InvalidInputf("tag name is required")
	}

	db := s.db.WithContext(ctx)

	var existing models.Tag
	err = db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	t := models.Tag{Name: name}
	if err := db.Create(&t).Error; err != nil {
		return nil, false, err
	}
	return &t, true, nil
}

func (s *TagService) DeleteTag(ctx context.Context, tagID uint) error {
	db := s.db.WithContext(ctx)

	var tag models.Tag
	if err := db.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("tag not found")
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM question_tags WHERE tag_id = ?", tagID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// upsertTags resolves tag names to tags, creating the missing ones.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag := models.Tag{Name: name}
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
