package service

import (
	"testing"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type quizFixture struct {
	db     *gorm.DB
	words  *store.WordStore
	tags   *store.TagStore
	tokens *store.TokenStore
	engine *QuizEngine
}

func newQuizFixture(t *testing.T, trustClient bool) *quizFixture {
	t.Helper()

	db := newTestDB(t)
	words := store.NewWordStore(db)
	tokens := newTestTokenStore(db)
	results := store.NewResultStore(db)

	return &quizFixture{
		db:     db,
		words:  words,
		tags:   store.NewTagStore(db),
		tokens: tokens,
		engine: NewQuizEngine(words, results, tokens, 10, trustClient),
	}
}

func (f *quizFixture) addTaggedNoun(t *testing.T, english, arabic, root, tagName string) (*model.Word, *model.Tag) {
	t.Helper()

	tag, err := f.tags.Create(tagName, "u1")
	if err != nil {
		// Reuse when two words share a tag
		tags, listErr := f.tags.List()
		require.NoError(t, listErr)
		for i := range tags {
			if tags[i].Name == tagName {
				tag = &tags[i]
			}
		}
	}
	require.NotNil(t, tag)

	word, err := f.words.Create(&store.WordInput{
		English:      english,
		Arabic:       arabic,
		Root:         root,
		PartOfSpeech: model.PartOfSpeechNoun,
		Noun:         &model.Noun{NounType: "concrete", Gender: "masculine"},
		TagIDs:       []string{tag.ID},
	}, "u1")
	require.NoError(t, err)

	return word, tag
}

func TestQuizEngine_StartNoTags(t *testing.T) {
	f := newQuizFixture(t, false)

	_, err := f.engine.Start("u1", nil)
	assert.ErrorIs(t, err, ErrNoTagsSelected)
}

func TestQuizEngine_StartNoWords(t *testing.T) {
	f := newQuizFixture(t, false)

	tag, err := f.tags.Create("empty", "u1")
	require.NoError(t, err)

	_, err = f.engine.Start("u1", []string{tag.ID})
	assert.ErrorIs(t, err, ErrNoWordsFound)
}

func TestQuizEngine_EndToEnd(t *testing.T) {
	f := newQuizFixture(t, false)

	word, tag := f.addTaggedNoun(t, "book", "كتاب", "ktb", "t1")

	session, err := f.engine.Start("u1", []string{tag.ID})
	require.NoError(t, err)

	require.Len(t, session.Questions, 1)
	assert.Equal(t, word.ID, session.Questions[0].WordID)
	assert.Equal(t, "ktb", session.Questions[0].Root)
	assert.Equal(t, 1, session.TotalQuestions)
	assert.NotEmpty(t, session.QuizID)

	result, err := f.engine.Submit("u1", session.QuizID, []Answer{
		{WordID: word.ID, UserAnswer: "ktb", IsCorrect: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 1, result.TotalQuestions)
	assert.Equal(t, 100, result.Score())
	require.Len(t, result.WordResults, 1)
	assert.True(t, result.WordResults[0].Correct)

	// The session token is consumed, grading twice is impossible
	_, err = f.engine.Submit("u1", session.QuizID, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The durable result is still there
	fetched, err := f.engine.Result(result.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, result.ID, fetched.ID)
}

func TestQuizEngine_SubmitUnknownSession(t *testing.T) {
	f := newQuizFixture(t, false)

	_, err := f.engine.Submit("u1", "never-started", nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizEngine_SequentialStartExclusivity(t *testing.T) {
	f := newQuizFixture(t, false)

	word, tag := f.addTaggedNoun(t, "book", "كتاب", "ktb", "t1")

	first, err := f.engine.Start("u1", []string{tag.ID})
	require.NoError(t, err)

	second, err := f.engine.Start("u1", []string{tag.ID})
	require.NoError(t, err)
	require.NotEqual(t, first.QuizID, second.QuizID)

	var n int64
	require.NoError(t, f.db.Model(model.Token{}).
		Where("user_id = ? AND token_class = ?", "u1", model.TokenClassQuiz).
		Count(&n).
		Error)
	assert.Equal(t, int64(1), n)

	// Only the second session is gradeable
	_, err = f.engine.Submit("u1", first.QuizID, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.engine.Submit("u1", second.QuizID, []Answer{
		{WordID: word.ID, UserAnswer: "ktb"},
	})
	assert.NoError(t, err)
}

func TestQuizEngine_GradingRecomputesFromRoot(t *testing.T) {
	f := newQuizFixture(t, false)

	word, tag := f.addTaggedNoun(t, "book", "كتاب", "ktb", "t1")

	session, err := f.engine.Start("u1", []string{tag.ID})
	require.NoError(t, err)

	// The client claims correct but the answer doesn't match the root
	result, err := f.engine.Submit("u1", session.QuizID, []Answer{
		{WordID: word.ID, UserAnswer: "drs", IsCorrect: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.CorrectAnswers)
	assert.False(t, result.WordResults[0].Correct)
}

func TestQuizEngine_GradingNormalizesAnswer(t *testing.T) {
	f := newQuizFixture(t, false)

	word, tag := f.addTaggedNoun(t, "book", "كتاب", "ktb", "t1")

	session, err := f.engine.Start("u1", []string{tag.ID})
	require.NoError(t, err)

	result, err := f.engine.Submit("u1", session.QuizID, []Answer{
		{WordID: word.ID, UserAnswer: "  KTB "},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectAnswers)
}

func TestQuizEngine_GradingTrustsClientWhenConfigured(t *testing.T) {
	f := newQuizFixture(t, true)

	word, tag := f.addTaggedNoun(t, "book", "كتاب", "ktb", "t1")

	session, err := f.engine.Start("u1", []string{tag.ID})
	require.NoError(t, err)

	result, err := f.engine.Submit("u1", session.QuizID, []Answer{
		{WordID: word.ID, UserAnswer: "wrong", IsCorrect: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectAnswers)
}

func TestQuizEngine_MissingWordBecomesErrorOutcome(t *testing.T) {
	f := newQuizFixture(t, false)

	word, tag := f.addTaggedNoun(t, "book", "كتاب", "ktb", "t1")
	other, _ := f.addTaggedNoun(t, "house", "بيت", "byt", "t2")

	session, err := f.engine.Start("u1", []string{tag.ID})
	require.NoError(t, err)

	// The word disappears between start and submit
	require.NoError(t, f.words.Delete(word.ID))

	result, err := f.engine.Submit("u1", session.QuizID, []Answer{
		{WordID: word.ID, UserAnswer: "ktb"},
		{WordID: other.ID, UserAnswer: "byt"},
	})
	require.NoError(t, err)

	require.Len(t, result.WordResults, 2)
	assert.False(t, result.WordResults[0].Correct)
	assert.NotEmpty(t, result.WordResults[0].Error)
	assert.True(t, result.WordResults[1].Correct)
	assert.Equal(t, 1, result.CorrectAnswers)
}

func TestQuizEngine_History(t *testing.T) {
	f := newQuizFixture(t, false)

	word, tag := f.addTaggedNoun(t, "book", "كتاب", "ktb", "t1")

	for range 3 {
		session, err := f.engine.Start("u1", []string{tag.ID})
		require.NoError(t, err)

		_, err = f.engine.Submit("u1", session.QuizID, []Answer{
			{WordID: word.ID, UserAnswer: "ktb"},
		})
		require.NoError(t, err)
	}

	results, pagination, err := f.engine.History("u1", 0, 2)
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, 2, pagination.TotalPages)

	rest, _, err := f.engine.History("u1", 1, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	// Another user sees nothing
	none, pagination, err := f.engine.History("u2", 0, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Equal(t, int64(0), pagination.Total)
}

func TestQuizEngine_ResultScopedToOwner(t *testing.T) {
	f := newQuizFixture(t, false)

	word, tag := f.addTaggedNoun(t, "book", "كتاب", "ktb", "t1")

	session, err := f.engine.Start("u1", []string{tag.ID})
	require.NoError(t, err)

	result, err := f.engine.Submit("u1", session.QuizID, []Answer{
		{WordID: word.ID, UserAnswer: "ktb"},
	})
	require.NoError(t, err)

	_, err = f.engine.Result(result.ID, "u2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
