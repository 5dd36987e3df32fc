package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// QuizResult is the durable record of one graded quiz. Unlike the quiz
// session token it survives forever and is never mutated after insert.
type QuizResult struct {
	ID             string         `gorm:"primaryKey" json:"result_id"`
	UserID         string         `gorm:"index" json:"user_id"`
	SelectedTags   StringSlice    `gorm:"type:text" json:"selected_tags"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	CompletedAt    time.Time      `json:"completed_at"`
	WordResults    WordResultList `gorm:"type:text" json:"word_results"`
	CreatedAt      time.Time      `json:"-"`
	UpdatedAt      time.Time      `json:"-"`
}

// Score returns the percentage of correct answers rounded to the
// nearest whole number
func (r *QuizResult) Score() int {
	if r.TotalQuestions == 0 {
		return 0
	}

	return int(math.Round(float64(r.CorrectAnswers) / float64(r.TotalQuestions) * 100))
}

// WordResult is the per-question outcome inside a QuizResult. Error is
// only set when the word couldn't be resolved at grading time.
type WordResult struct {
	WordID     string `json:"word_id"`
	English    string `json:"english,omitempty"`
	Arabic     string `json:"arabic,omitempty"`
	Root       string `json:"root,omitempty"`
	UserAnswer string `json:"user_answer"`
	Correct    bool   `json:"correct"`
	Error      string `json:"error,omitempty"`
}

type WordResultList []WordResult

// Value implements the driver.Valuer interface.
func (l WordResultList) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize word results, %w", err)
	}

	return string(b), nil
}

// Scan implements the sql.Scanner interface.
func (l *WordResultList) Scan(value interface{}) error {
	if value == nil {
		*l = WordResultList{}
		return nil
	}

	var b []byte

	switch v := value.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("failed to scan WordResultList, %v", value)
	}

	return json.Unmarshal(b, l)
}
