package store

import (
	"testing"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nounInput(tagIDs ...string) *WordInput {
	return &WordInput{
		English:      "book",
		Arabic:       "كتاب",
		Root:         "ktb",
		PartOfSpeech: model.PartOfSpeechNoun,
		Noun: &model.Noun{
			NounType:     "concrete",
			Gender:       "masculine",
			BrokenPlural: "كتب",
		},
		TagIDs: tagIDs,
	}
}

func verbInput(tagIDs ...string) *WordInput {
	return &WordInput{
		English:      "to write",
		Arabic:       "كتب",
		Root:         "ktb",
		PartOfSpeech: model.PartOfSpeechVerb,
		Verb: &model.Verb{
			VerbForm: "I",
			Tense:    "past",
		},
		TagIDs: tagIDs,
	}
}

func TestWordStore_CreateNoun(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)
	tags := NewTagStore(db)

	tag := createTestTag(t, db, tags, "writing")

	word, err := words.Create(nounInput(tag.ID), "u1")
	require.NoError(t, err)

	require.NotNil(t, word.Noun)
	assert.Nil(t, word.Verb)
	assert.Equal(t, model.PartOfSpeechNoun, word.PartOfSpeech)
	assert.Equal(t, "masculine", word.Noun.Gender)
	require.Len(t, word.Tags, 1)
	assert.Equal(t, "writing", word.Tags[0].Name)
}

func TestWordStore_CreateParticleHasNoExtension(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)

	word, err := words.Create(&WordInput{
		English:      "and",
		Arabic:       "و",
		PartOfSpeech: model.PartOfSpeechParticle,
	}, "u1")
	require.NoError(t, err)

	assert.Nil(t, word.Noun)
	assert.Nil(t, word.Verb)
}

func TestWordStore_CreateMissingProps(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)

	tests := []struct {
		name  string
		input *WordInput
	}{
		{
			name: "noun without noun props",
			input: &WordInput{
				English:      "book",
				Arabic:       "كتاب",
				PartOfSpeech: model.PartOfSpeechNoun,
			},
		},
		{
			name: "verb without verb props",
			input: &WordInput{
				English:      "to write",
				Arabic:       "كتب",
				PartOfSpeech: model.PartOfSpeechVerb,
				Noun:         &model.Noun{NounType: "concrete"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := words.Create(tt.input, "u1")
			assert.ErrorIs(t, err, ErrMissingExtensionProps)

			// Nothing half-written survives the failed transaction
			var n int64
			require.NoError(t, db.Model(model.Word{}).Count(&n).Error)
			assert.Equal(t, int64(0), n)
		})
	}
}

func TestWordStore_CreateUnknownTag(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)

	_, err := words.Create(nounInput("no-such-tag"), "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, db.Model(model.Word{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestWordStore_UpdateSwitchesExtension(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)

	word, err := words.Create(nounInput(), "u1")
	require.NoError(t, err)

	updated, err := words.Update(word.ID, verbInput())
	require.NoError(t, err)

	assert.Nil(t, updated.Noun)
	require.NotNil(t, updated.Verb)
	assert.Equal(t, model.PartOfSpeechVerb, updated.PartOfSpeech)
	assert.Equal(t, "past", updated.Verb.Tense)

	// The stale noun row is actually gone, not just unloaded
	var n int64
	require.NoError(t, db.Model(model.Noun{}).Where("word_id = ?", word.ID).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestWordStore_UpdateExtensionInPlace(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)

	word, err := words.Create(nounInput(), "u1")
	require.NoError(t, err)

	input := nounInput()
	input.Noun.Gender = "feminine"
	input.Noun.BrokenPlural = ""

	updated, err := words.Update(word.ID, input)
	require.NoError(t, err)

	require.NotNil(t, updated.Noun)
	assert.Equal(t, "feminine", updated.Noun.Gender)
	assert.Empty(t, updated.Noun.BrokenPlural)

	var n int64
	require.NoError(t, db.Model(model.Noun{}).Where("word_id = ?", word.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestWordStore_UpdateRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)

	word, err := words.Create(nounInput(), "u1")
	require.NoError(t, err)

	// The extension swap happens before the tag replace inside the same
	// transaction, so an unknown tag id must undo the swap too
	_, err = words.Update(word.ID, verbInput("no-such-tag"))
	assert.ErrorIs(t, err, ErrNotFound)

	current, err := words.FetchComplete(word.ID)
	require.NoError(t, err)

	require.NotNil(t, current.Noun)
	assert.Nil(t, current.Verb)
	assert.Equal(t, model.PartOfSpeechNoun, current.PartOfSpeech)
	assert.Equal(t, "book", current.English)
}

func TestWordStore_UpdateMissingWord(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)

	_, err := words.Update("no-such-word", nounInput())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWordStore_Delete(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)
	tags := NewTagStore(db)

	tag := createTestTag(t, db, tags, "writing")

	word, err := words.Create(nounInput(tag.ID), "u1")
	require.NoError(t, err)

	require.NoError(t, words.Delete(word.ID))

	_, err = words.FetchComplete(word.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, db.Model(model.Noun{}).Where("word_id = ?", word.ID).Count(&n).Error)
	assert.Equal(t, int64(0), n)

	require.NoError(t, db.Table("word_tags").Where("word_id = ?", word.ID).Count(&n).Error)
	assert.Equal(t, int64(0), n)

	// The tag itself is untouched
	_, err = tags.Get(tag.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, words.Delete(word.ID), ErrNotFound)
}

func TestWordStore_FindByTags(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)
	tags := NewTagStore(db)

	t1 := createTestTag(t, db, tags, "t1")
	t2 := createTestTag(t, db, tags, "t2")

	w1, err := words.Create(nounInput(t1.ID), "u1")
	require.NoError(t, err)

	_, err = words.Create(verbInput(t2.ID), "u1")
	require.NoError(t, err)

	// Untagged word never shows up
	_, err = words.Create(&WordInput{
		English:      "and",
		Arabic:       "و",
		PartOfSpeech: model.PartOfSpeechParticle,
	}, "u1")
	require.NoError(t, err)

	found, err := words.FindByTags([]string{t1.ID}, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, w1.ID, found[0].ID)
	require.NotNil(t, found[0].Noun)

	both, err := words.FindByTags([]string{t1.ID, t2.ID}, 10)
	require.NoError(t, err)
	assert.Len(t, both, 2)

	capped, err := words.FindByTags([]string{t1.ID, t2.ID}, 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

func TestTagStore_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagStore(db)

	_, err := tags.Create("verbs", "u1")
	require.NoError(t, err)

	_, err = tags.Create("verbs", "u2")
	assert.ErrorIs(t, err, ErrDuplicateTag)
}

func TestTagStore_DeleteKeepsWords(t *testing.T) {
	db := newTestDB(t)
	words := NewWordStore(db)
	tags := NewTagStore(db)

	tag := createTestTag(t, db, tags, "writing")

	word, err := words.Create(nounInput(tag.ID), "u1")
	require.NoError(t, err)

	require.NoError(t, tags.Delete(tag.ID))

	var n int64
	require.NoError(t, db.Table("word_tags").Where("tag_id = ?", tag.ID).Count(&n).Error)
	assert.Equal(t, int64(0), n)

	current, err := words.FetchComplete(word.ID)
	require.NoError(t, err)
	assert.Empty(t, current.Tags)

	assert.ErrorIs(t, tags.Delete(tag.ID), ErrNotFound)
}
