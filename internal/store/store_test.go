package store

import (
	"testing"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
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

func createTestUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()

	err := db.Create(&model.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "x",
	}).Error
	require.NoError(t, err)
}

func createTestTag(t *testing.T, db *gorm.DB, s *TagStore, name string) *model.Tag {
	t.Helper()

	tag, err := s.Create(name, "owner")
	require.NoError(t, err)

	return tag
}
