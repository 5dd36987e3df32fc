package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/akulicka/vocabularapp-sub000/pkg/util"
	"gorm.io/gorm"
)

const tokenIDSize = 32

// TokenStore is generic CRUD over the shared tokens table. It has no
// idea what a token class means, it only files rows under (user, class)
// and applies the TTL configured for that class.
type TokenStore struct {
	db   *gorm.DB
	ttls map[string]time.Duration
}

// TokenTTLs configures the per-class lifetime once at construction
// instead of having every call site pass its own.
type TokenTTLs struct {
	Verify time.Duration
	Quiz   time.Duration
}

func NewTokenStore(db *gorm.DB, ttls TokenTTLs) *TokenStore {
	return &TokenStore{
		db: db,
		ttls: map[string]time.Duration{
			model.TokenClassVerify: ttls.Verify,
			model.TokenClassQuiz:   ttls.Quiz,
		},
	}
}

// TTL returns the configured lifetime for a token class
func (s *TokenStore) TTL(class string) time.Duration {
	return s.ttls[class]
}

// NewID generates a fresh token id for callers that need it before the
// row exists, e.g. when the payload embeds its own id
func (s *TokenStore) NewID() (string, error) {
	id, err := util.GenerateToken(tokenIDSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate token ID, %w", err)
	}

	return id, nil
}

// Issue persists a new token row. The ID is generated when empty.
// No uniqueness check is done here, callers that want a single live
// token per class should use Replace instead
func (s *TokenStore) Issue(t *model.Token) error {
	if t.ID == "" {
		id, err := util.GenerateToken(tokenIDSize)
		if err != nil {
			return fmt.Errorf("failed to generate token ID, %w", err)
		}

		t.ID = id
	}

	if err := s.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to issue token, %w", err)
	}

	return nil
}

// Replace destroys every token of the same (user, class) pair and
// inserts the new one in a single transaction. Two concurrent calls can
// never leave two live tokens behind
func (s *TokenStore) Replace(t *model.Token) error {
	if t.ID == "" {
		id, err := util.GenerateToken(tokenIDSize)
		if err != nil {
			return fmt.Errorf("failed to generate token ID, %w", err)
		}

		t.ID = id
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("user_id = ? AND token_class = ?", t.UserID, t.TokenClass).
			Delete(model.Token{}).
			Error
		if err != nil {
			return err
		}

		return tx.Create(t).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace token, %w", err)
	}

	return nil
}

// FindActive looks a token up by exact id, owner and class. Age isn't
// checked here, expiry is the caller's concern
func (s *TokenStore) FindActive(id, userID, class string) (*model.Token, error) {
	var t model.Token

	err := s.db.
		Where("id = ? AND user_id = ? AND token_class = ?", id, userID, class).
		First(&t).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to lookup token, %w", err)
	}

	return &t, nil
}

// FindActiveWithinTTL returns the user's token of a class only if it's
// younger than the class TTL
func (s *TokenStore) FindActiveWithinTTL(userID, class string) (*model.Token, error) {
	var t model.Token

	err := s.db.
		Where("user_id = ? AND token_class = ? AND created_at > ?",
			userID, class, time.Now().Add(-s.ttls[class])).
		First(&t).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to lookup token, %w", err)
	}

	return &t, nil
}

// Destroy hard-deletes a token by id. Deleting a token that's already
// gone is not an error
func (s *TokenStore) Destroy(id string) error {
	err := s.db.
		Where("id = ?", id).
		Delete(model.Token{}).
		Error
	if err != nil {
		return fmt.Errorf("failed to destroy token, %w", err)
	}

	return nil
}

// DestroyAllOf deletes every token of a class owned by a user and
// returns how many rows were removed
func (s *TokenStore) DestroyAllOf(userID, class string) (int64, error) {
	r := s.db.
		Where("user_id = ? AND token_class = ?", userID, class).
		Delete(model.Token{})
	if r.Error != nil {
		return 0, fmt.Errorf("failed to destroy tokens, %w", r.Error)
	}

	return r.RowsAffected, nil
}

// SweepExpired bulk-deletes every token of a class older than its TTL.
// Meant to run on a fixed interval, independent of request traffic
func (s *TokenStore) SweepExpired(class string) (int64, error) {
	r := s.db.
		Where("token_class = ? AND created_at < ?", class, time.Now().Add(-s.ttls[class])).
		Delete(model.Token{})
	if r.Error != nil {
		return 0, fmt.Errorf("failed to sweep expired tokens, %w", r.Error)
	}

	return r.RowsAffected, nil
}
