package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/akulicka/vocabularapp-sub000/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrNoTagsSelected is returned when a quiz is started without tags
	ErrNoTagsSelected = errors.New("no tags selected")

	// ErrNoWordsFound is returned when the selected tags match no words
	ErrNoWordsFound = errors.New("no words found for selected tags")

	// ErrSessionNotFound is returned when the quiz session doesn't
	// exist. Covers never-started, already graded and swept sessions alike
	ErrSessionNotFound = errors.New("quiz session not found")
)

// QuizPayload is the JSON body of a QUIZ token. QuizID always equals
// the token id
type QuizPayload struct {
	QuizID         string     `json:"quizId"`
	Questions      []Question `json:"questions"`
	SelectedTags   []string   `json:"selectedTags"`
	TotalQuestions int        `json:"totalQuestions"`
	StartedAt      time.Time  `json:"startedAt"`
}

// Question carries the display fields of one word plus its grading key
type Question struct {
	WordID       string      `json:"wordId"`
	English      string      `json:"english"`
	Arabic       string      `json:"arabic"`
	Root         string      `json:"root,omitempty"`
	PartOfSpeech string      `json:"partOfSpeech"`
	Noun         *model.Noun `json:"noun,omitempty"`
	Verb         *model.Verb `json:"verb,omitempty"`
}

// Answer is one submitted response. IsCorrect is the client's own
// verdict and is only trusted when the engine is configured to, or when
// the word has no root to grade against
type Answer struct {
	WordID     string `json:"word_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuizEngine drives the quiz session lifecycle on top of the token
// store (class QUIZ) and the word store
type QuizEngine struct {
	words        *store.WordStore
	results      *store.ResultStore
	tokens       *store.TokenStore
	maxQuestions int
	trustClient  bool
}

func NewQuizEngine(words *store.WordStore, results *store.ResultStore, tokens *store.TokenStore, maxQuestions int, trustClient bool) *QuizEngine {
	return &QuizEngine{
		words:        words,
		results:      results,
		tokens:       tokens,
		maxQuestions: maxQuestions,
		trustClient:  trustClient,
	}
}

// Start builds a question set from the selected tags and stores it as a
// fresh QUIZ token, replacing any session the user still had open
func (e *QuizEngine) Start(userID string, selectedTags []string) (*QuizPayload, error) {
	if len(selectedTags) == 0 {
		return nil, ErrNoTagsSelected
	}

	words, err := e.words.FindByTags(selectedTags, e.maxQuestions)
	if err != nil {
		return nil, err
	}

	if len(words) == 0 {
		return nil, ErrNoWordsFound
	}

	questions := make([]Question, len(words))
	for i, w := range words {
		questions[i] = Question{
			WordID:       w.ID,
			English:      w.English,
			Arabic:       w.Arabic,
			Root:         w.Root,
			PartOfSpeech: w.PartOfSpeech,
			Noun:         w.Noun,
			Verb:         w.Verb,
		}
	}

	token := &model.Token{
		UserID:     userID,
		TokenClass: model.TokenClassQuiz,
	}

	payload := QuizPayload{
		Questions:      questions,
		SelectedTags:   selectedTags,
		TotalQuestions: len(questions),
		StartedAt:      time.Now(),
	}

	// The token id doubles as the quiz id, so it has to exist before
	// the payload can be marshaled
	id, err := e.tokens.NewID()
	if err != nil {
		return nil, err
	}

	token.ID = id
	payload.QuizID = id

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quiz payload, %w", err)
	}

	token.Payload = model.Payload(raw)

	if err := e.tokens.Replace(token); err != nil {
		return nil, err
	}

	return &payload, nil
}

// Submit grades a session, persists the durable result and destroys the
// session token. A missing word becomes a per-question error outcome
// instead of failing the whole submission
func (e *QuizEngine) Submit(userID, quizID string, answers []Answer) (*model.QuizResult, error) {
	token, err := e.tokens.FindActive(quizID, userID, model.TokenClassQuiz)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	var payload QuizPayload
	if err := json.Unmarshal(token.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz payload, %w", err)
	}

	outcomes := make(model.WordResultList, 0, len(answers))
	correct := 0

	for _, ans := range answers {
		word, err := e.words.FetchComplete(ans.WordID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}

			zap.L().Warn("Word missing during grading",
				zap.String("wordID", ans.WordID),
				zap.String("quizID", quizID),
			)

			outcomes = append(outcomes, model.WordResult{
				WordID:     ans.WordID,
				UserAnswer: ans.UserAnswer,
				Correct:    false,
				Error:      "word not found",
			})
			continue
		}

		ok := e.grade(word, ans)
		if ok {
			correct++
		}

		outcomes = append(outcomes, model.WordResult{
			WordID:     word.ID,
			English:    word.English,
			Arabic:     word.Arabic,
			Root:       word.Root,
			UserAnswer: ans.UserAnswer,
			Correct:    ok,
		})
	}

	result := &model.QuizResult{
		UserID:         userID,
		SelectedTags:   payload.SelectedTags,
		TotalQuestions: payload.TotalQuestions,
		CorrectAnswers: correct,
		CompletedAt:    time.Now(),
		WordResults:    outcomes,
	}

	if err := e.results.Create(result); err != nil {
		return nil, err
	}

	if err := e.tokens.Destroy(token.ID); err != nil {
		return nil, err
	}

	return result, nil
}

// Result returns a durable result scoped to the requesting user
func (e *QuizEngine) Result(resultID, userID string) (*model.QuizResult, error) {
	return e.results.Get(resultID, userID)
}

// History returns one page of the user's results, newest first
func (e *QuizEngine) History(userID string, page, limit int) ([]model.QuizResult, *store.Pagination, error) {
	return e.results.History(userID, page, limit)
}

// grade decides whether an answer is correct. The server recomputes the
// root comparison itself unless it's configured to trust the client, or
// the word carries no root at all
func (e *QuizEngine) grade(word *model.Word, ans Answer) bool {
	if e.trustClient || word.Root == "" {
		return ans.IsCorrect
	}

	return normalize(ans.UserAnswer) == normalize(word.Root)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
