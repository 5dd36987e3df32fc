package validators

import (
	"errors"
	"slices"
)

var (
	ErrEnglishEmpty        = errors.New("no english form provided")
	ErrArabicEmpty         = errors.New("no arabic form provided")
	ErrPartOfSpeechInvalid = errors.New("part of speech must be NOUN, VERB or PARTICLE")
)

var validPartsOfSpeech = []string{"NOUN", "VERB", "PARTICLE"}

// WordValidator checks the base fields of a word before it reaches the
// store. Extension props presence is the store's concern since it
// depends on the declared part of speech
func WordValidator(english, arabic, partOfSpeech string) error {
	if english == "" {
		return ErrEnglishEmpty
	}

	if arabic == "" {
		return ErrArabicEmpty
	}

	if !slices.Contains(validPartsOfSpeech, partOfSpeech) {
		return ErrPartOfSpeechInvalid
	}

	return nil
}
