package store

import (
	"errors"
	"fmt"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

type ResultStore struct {
	db *gorm.DB
}

func NewResultStore(db *gorm.DB) *ResultStore {
	return &ResultStore{db: db}
}

// Pagination describes one page of quiz history
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Create persists a graded quiz result. Results are immutable, there is
// no update path
func (s *ResultStore) Create(r *model.QuizResult) error {
	if r.ID == "" {
		id, err := gonanoid.Generate(idCharset, idSize)
		if err != nil {
			return fmt.Errorf("failed to generate result ID, %w", err)
		}

		r.ID = id
	}

	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to create quiz result, %w", err)
	}

	return nil
}

// Get returns a result by id, scoped to the requesting user
func (s *ResultStore) Get(resultID, userID string) (*model.QuizResult, error) {
	var r model.QuizResult

	err := s.db.
		Where("id = ? AND user_id = ?", resultID, userID).
		First(&r).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch quiz result, %w", err)
	}

	return &r, nil
}

// History returns one page of a user's results, newest first
func (s *ResultStore) History(userID string, page, limit int) ([]model.QuizResult, *Pagination, error) {
	var total int64

	err := s.db.
		Model(model.QuizResult{}).
		Where("user_id = ?", userID).
		Count(&total).
		Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count quiz results, %w", err)
	}

	var results []model.QuizResult

	err = s.db.
		Where("user_id = ?", userID).
		Order("completed_at desc").
		Offset(page * limit).
		Limit(limit).
		Find(&results).
		Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch quiz history, %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return results, &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
