package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"gorm.io/gorm"
)

// Validation outcomes for a verification challenge
const (
	ChallengeVerified = "verified"
	ChallengeExpired  = "expired"
)

// VerificationService issues and validates email verification
// challenges on top of the token store, class VERIFY
type VerificationService struct {
	db       *gorm.DB
	tokens   *store.TokenStore
	mailer   Mailer
	lifetime time.Duration
}

func NewVerificationService(db *gorm.DB, tokens *store.TokenStore, mailer Mailer, lifetime time.Duration) *VerificationService {
	return &VerificationService{
		db:       db,
		tokens:   tokens,
		mailer:   mailer,
		lifetime: lifetime,
	}
}

// CreateChallenge replaces any live VERIFY token for the user with a
// fresh one and hands it to the mailer
func (s *VerificationService) CreateChallenge(userID string) (*model.Token, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	token := &model.Token{
		UserID:     userID,
		TokenClass: model.TokenClassVerify,
	}

	if err := s.tokens.Replace(token); err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(user, token.ID); err != nil {
		return nil, fmt.Errorf("failed to deliver verification mail, %w", err)
	}

	return token, nil
}

// ValidateChallenge checks a challenge against the configured lifetime.
// A live challenge marks the user verified, a stale one is replaced and
// re-delivered. Exactly one of the two happens per call
func (s *VerificationService) ValidateChallenge(tokenID, userID string) (string, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.FindActive(tokenID, userID, model.TokenClassVerify)
	if err != nil {
		return "", err
	}

	if time.Since(token.CreatedAt) >= s.lifetime {
		replacement := &model.Token{
			UserID:     userID,
			TokenClass: model.TokenClassVerify,
		}

		if err := s.tokens.Replace(replacement); err != nil {
			return "", err
		}

		if err := s.mailer.SendVerification(user, replacement.ID); err != nil {
			return "", fmt.Errorf("failed to deliver verification mail, %w", err)
		}

		return ChallengeExpired, nil
	}

	if err := s.tokens.Destroy(token.ID); err != nil {
		return "", err
	}

	err = s.db.
		Model(model.User{}).
		Where("id = ?", userID).
		Update("verified", true).
		Error
	if err != nil {
		return "", fmt.Errorf("failed to mark user verified, %w", err)
	}

	return ChallengeVerified, nil
}

func (s *VerificationService) loadUser(userID string) (*model.User, error) {
	var user model.User

	err := s.db.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("failed to load user, %w", err)
	}

	return &user, nil
}
