package service

import (
	"testing"
	"time"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		model.User{},
		model.Token{},
		model.Word{},
		model.Noun{},
		model.Verb{},
		model.Tag{},
		model.QuizResult{},
	)
	require.NoError(t, err)

	return db
}

func newTestTokenStore(db *gorm.DB) *store.TokenStore {
	return store.NewTokenStore(db, store.TokenTTLs{
		Verify: 30 * time.Minute,
		Quiz:   10 * time.Minute,
	})
}

func createTestUser(t *testing.T, db *gorm.DB, id string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

// recordMailer captures deliveries instead of sending anything
type recordMailer struct {
	calls []string
}

func (m *recordMailer) SendVerification(user *model.User, challengeID string) error {
	m.calls = append(m.calls, challengeID)
	return nil
}
