package store

import (
	"testing"
	"time"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenStore(t *testing.T) *TokenStore {
	t.Helper()

	return NewTokenStore(newTestDB(t), TokenTTLs{
		Verify: 30 * time.Minute,
		Quiz:   10 * time.Minute,
	})
}

func TestTokenStore_IssueAndFind(t *testing.T) {
	s := newTestTokenStore(t)

	token := &model.Token{
		UserID:     "u1",
		TokenClass: model.TokenClassVerify,
	}
	require.NoError(t, s.Issue(token))
	require.NotEmpty(t, token.ID)

	found, err := s.FindActive(token.ID, "u1", model.TokenClassVerify)
	require.NoError(t, err)
	assert.Equal(t, token.ID, found.ID)
	assert.Equal(t, "u1", found.UserID)

	// Same id under the wrong class or owner is invisible
	_, err = s.FindActive(token.ID, "u1", model.TokenClassQuiz)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindActive(token.ID, "u2", model.TokenClassVerify)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenStore_IssueDoesNotDeduplicate(t *testing.T) {
	s := newTestTokenStore(t)

	require.NoError(t, s.Issue(&model.Token{UserID: "u1", TokenClass: model.TokenClassQuiz}))
	require.NoError(t, s.Issue(&model.Token{UserID: "u1", TokenClass: model.TokenClassQuiz}))

	assert.Equal(t, int64(2), countTokens(t, s, "u1", model.TokenClassQuiz))
}

func TestTokenStore_ReplaceLeavesOneToken(t *testing.T) {
	s := newTestTokenStore(t)

	require.NoError(t, s.Issue(&model.Token{UserID: "u1", TokenClass: model.TokenClassQuiz}))
	require.NoError(t, s.Issue(&model.Token{UserID: "u1", TokenClass: model.TokenClassQuiz}))
	require.NoError(t, s.Issue(&model.Token{UserID: "u1", TokenClass: model.TokenClassVerify}))

	replacement := &model.Token{UserID: "u1", TokenClass: model.TokenClassQuiz}
	require.NoError(t, s.Replace(replacement))

	assert.Equal(t, int64(1), countTokens(t, s, "u1", model.TokenClassQuiz))

	found, err := s.FindActive(replacement.ID, "u1", model.TokenClassQuiz)
	require.NoError(t, err)
	assert.Equal(t, replacement.ID, found.ID)

	// The other class is untouched
	assert.Equal(t, int64(1), countTokens(t, s, "u1", model.TokenClassVerify))
}

func TestTokenStore_FindActiveWithinTTL(t *testing.T) {
	s := newTestTokenStore(t)

	fresh := &model.Token{
		UserID:     "u1",
		TokenClass: model.TokenClassQuiz,
		CreatedAt:  time.Now().Add(-9 * time.Minute),
	}
	require.NoError(t, s.Issue(fresh))

	found, err := s.FindActiveWithinTTL("u1", model.TokenClassQuiz)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, found.ID)

	stale := &model.Token{
		UserID:     "u2",
		TokenClass: model.TokenClassQuiz,
		CreatedAt:  time.Now().Add(-11 * time.Minute),
	}
	require.NoError(t, s.Issue(stale))

	_, err = s.FindActiveWithinTTL("u2", model.TokenClassQuiz)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenStore_DestroyIdempotent(t *testing.T) {
	s := newTestTokenStore(t)

	token := &model.Token{UserID: "u1", TokenClass: model.TokenClassVerify}
	require.NoError(t, s.Issue(token))

	require.NoError(t, s.Destroy(token.ID))

	_, err := s.FindActive(token.ID, "u1", model.TokenClassVerify)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op, not an error
	require.NoError(t, s.Destroy(token.ID))
}

func TestTokenStore_DestroyAllOf(t *testing.T) {
	s := newTestTokenStore(t)

	require.NoError(t, s.Issue(&model.Token{UserID: "u1", TokenClass: model.TokenClassQuiz}))
	require.NoError(t, s.Issue(&model.Token{UserID: "u1", TokenClass: model.TokenClassQuiz}))
	require.NoError(t, s.Issue(&model.Token{UserID: "u1", TokenClass: model.TokenClassVerify}))

	n, err := s.DestroyAllOf("u1", model.TokenClassQuiz)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Equal(t, int64(0), countTokens(t, s, "u1", model.TokenClassQuiz))
	assert.Equal(t, int64(1), countTokens(t, s, "u1", model.TokenClassVerify))
}

func TestTokenStore_SweepExpired(t *testing.T) {
	s := newTestTokenStore(t)

	tokens := []*model.Token{
		{UserID: "u1", TokenClass: model.TokenClassQuiz, CreatedAt: time.Now().Add(-11 * time.Minute)},
		{UserID: "u2", TokenClass: model.TokenClassQuiz, CreatedAt: time.Now().Add(-15 * time.Minute)},
		{UserID: "u3", TokenClass: model.TokenClassQuiz, CreatedAt: time.Now().Add(-5 * time.Minute)},
		{UserID: "u1", TokenClass: model.TokenClassVerify, CreatedAt: time.Now().Add(-15 * time.Minute)},
	}
	for _, tok := range tokens {
		require.NoError(t, s.Issue(tok))
	}

	n, err := s.SweepExpired(model.TokenClassQuiz)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Fresh quiz token survives
	_, err = s.FindActive(tokens[2].ID, "u3", model.TokenClassQuiz)
	assert.NoError(t, err)

	// Old verify token is out of scope for a QUIZ sweep even though its
	// age exceeds the quiz TTL
	_, err = s.FindActive(tokens[3].ID, "u1", model.TokenClassVerify)
	assert.NoError(t, err)
}

func countTokens(t *testing.T, s *TokenStore, userID, class string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, s.db.
		Model(model.Token{}).
		Where("user_id = ? AND token_class = ?", userID, class).
		Count(&n).
		Error)

	return n
}
