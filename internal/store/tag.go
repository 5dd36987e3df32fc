package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

type TagStore struct {
	db *gorm.DB
}

func NewTagStore(db *gorm.DB) *TagStore {
	return &TagStore{db: db}
}

// Create inserts a new tag. Tag names are globally unique
func (s *TagStore) Create(name, ownerID string) (*model.Tag, error) {
	var found bool

	r := s.db.Model(model.Tag{}).
		Select("count(*) > 0").
		Where("name = ?", name).
		Find(&found)
	if r.Error != nil {
		return nil, fmt.Errorf("failed to check for existing tag, %w", r.Error)
	}

	if found {
		return nil, ErrDuplicateTag
	}

	id, err := gonanoid.Generate(idCharset, idSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tag ID, %w", err)
	}

	tag := model.Tag{
		ID:        id,
		Name:      name,
		CreatedBy: ownerID,
	}

	if err := s.db.Create(&tag).Error; err != nil {
		// Covers the race between the existence check and the insert,
		// the unique index is the source of truth
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return nil, ErrDuplicateTag
		}

		return nil, fmt.Errorf("failed to create tag, %w", err)
	}

	return &tag, nil
}

// List returns every tag, ordered by name
func (s *TagStore) List() ([]model.Tag, error) {
	var tags []model.Tag

	if err := s.db.Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags, %w", err)
	}

	return tags, nil
}

// Get returns a tag by id
func (s *TagStore) Get(tagID string) (*model.Tag, error) {
	var tag model.Tag

	if err := s.db.Where("id = ?", tagID).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch tag, %w", err)
	}

	return &tag, nil
}

// Delete removes a tag and all of its word links in one transaction.
// Words tagged with it are left alone
func (s *TagStore) Delete(tagID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tag model.Tag

		err := tx.Where("id = ?", tagID).First(&tag).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return fmt.Errorf("failed to load tag, %w", err)
		}

		if err := tx.Model(&tag).Association("Words").Clear(); err != nil {
			return fmt.Errorf("failed to clear word links, %w", err)
		}

		if err := tx.Delete(&tag).Error; err != nil {
			return fmt.Errorf("failed to delete tag, %w", err)
		}

		return nil
	})
}
