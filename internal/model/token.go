package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Token classes. The tokens table is shared by every short-lived
// server-side session type and discriminated only by this value.
const (
	TokenClassVerify = "VERIFY"
	TokenClassQuiz   = "QUIZ"
)

// Token is an ephemeral record carrying short-lived state for one user.
// Rows are never updated in place, only destroyed and recreated.
type Token struct {
	ID         string    `gorm:"primaryKey" json:"token_id"`
	UserID     string    `gorm:"index:idx_tokens_user_class" json:"user_id"`
	TokenClass string    `gorm:"index:idx_tokens_user_class" json:"token_class"`
	Payload    Payload   `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

// Payload holds the class-specific token body as raw JSON. The store
// treats it as opaque, services marshal their own payload types into it.
type Payload json.RawMessage

// Value implements the driver.Valuer interface.
func (p Payload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}

	if !json.Valid(p) {
		return nil, fmt.Errorf("invalid JSON payload, %s", p)
	}

	return string(p), nil
}

// Scan implements the sql.Scanner interface.
func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	switch v := value.(type) {
	case string:
		*p = Payload(v)
	case []byte:
		*p = append((*p)[:0], v...)
	default:
		return fmt.Errorf("failed to scan Payload, %v", value)
	}

	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = append((*p)[:0], data...)
	return nil
}
