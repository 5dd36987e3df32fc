package store

import (
	"errors"
	"fmt"

	"github.com/akulicka/vocabularapp-sub000/internal/model"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idSize    = 16
)

// WordStore owns the word/noun/verb/tag entities. All mutations run in
// one transaction so a word can never be observed with a stale or
// doubled extension
type WordStore struct {
	db *gorm.DB
}

func NewWordStore(db *gorm.DB) *WordStore {
	return &WordStore{db: db}
}

// WordInput carries the base fields plus the extension props for the
// declared part of speech. Noun and Verb are mutually exclusive, the
// one matching PartOfSpeech must be present (PARTICLE takes neither)
type WordInput struct {
	English      string
	Arabic       string
	Root         string
	PartOfSpeech string
	Img          string
	Noun         *model.Noun
	Verb         *model.Verb
	TagIDs       []string
}

// Create inserts the base word, its extension and its tag links in one
// transaction and returns the fully joined word
func (s *WordStore) Create(input *WordInput, ownerID string) (*model.Word, error) {
	id, err := gonanoid.Generate(idCharset, idSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate word ID, %w", err)
	}

	word := model.Word{
		ID:           id,
		English:      input.English,
		Arabic:       input.Arabic,
		Root:         input.Root,
		PartOfSpeech: input.PartOfSpeech,
		Img:          input.Img,
		CreatedBy:    ownerID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&word).Error; err != nil {
			return fmt.Errorf("failed to create word, %w", err)
		}

		if err := applyExtension(tx, &word, input); err != nil {
			return err
		}

		return replaceTags(tx, &word, input.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.FetchComplete(word.ID)
}

// Update rewrites a word inside one transaction. When the part of
// speech changes the stale extension is destroyed and the new one
// created, otherwise the existing extension is updated in place
func (s *WordStore) Update(wordID string, input *WordInput) (*model.Word, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var word model.Word

		err := tx.
			Preload("Noun").
			Preload("Verb").
			Where("id = ?", wordID).
			First(&word).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return fmt.Errorf("failed to load word, %w", err)
		}

		if err := applyExtension(tx, &word, input); err != nil {
			return err
		}

		if err := replaceTags(tx, &word, input.TagIDs); err != nil {
			return err
		}

		err = tx.
			Model(&model.Word{}).
			Where("id = ?", wordID).
			Select("english", "arabic", "root", "part_of_speech", "img").
			Updates(model.Word{
				English:      input.English,
				Arabic:       input.Arabic,
				Root:         input.Root,
				PartOfSpeech: input.PartOfSpeech,
				Img:          input.Img,
			}).
			Error
		if err != nil {
			return fmt.Errorf("failed to update word, %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FetchComplete(wordID)
}

// Delete destroys the extensions, the tag links and the base row in one
// transaction
func (s *WordStore) Delete(wordID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var word model.Word

		err := tx.Where("id = ?", wordID).First(&word).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return fmt.Errorf("failed to load word, %w", err)
		}

		if err := tx.Where("word_id = ?", wordID).Delete(model.Noun{}).Error; err != nil {
			return fmt.Errorf("failed to delete noun extension, %w", err)
		}

		if err := tx.Where("word_id = ?", wordID).Delete(model.Verb{}).Error; err != nil {
			return fmt.Errorf("failed to delete verb extension, %w", err)
		}

		if err := tx.Model(&word).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear tag links, %w", err)
		}

		if err := tx.Delete(&word).Error; err != nil {
			return fmt.Errorf("failed to delete word, %w", err)
		}

		return nil
	})
}

// FetchComplete returns the base word joined with its extension and tags
func (s *WordStore) FetchComplete(wordID string) (*model.Word, error) {
	var word model.Word

	err := s.db.
		Preload("Noun").
		Preload("Verb").
		Preload("Tags").
		Where("id = ?", wordID).
		First(&word).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch word, %w", err)
	}

	return &word, nil
}

// FindByTags returns up to limit words carrying at least one of the
// given tags, each joined with its extension and tags
func (s *WordStore) FindByTags(tagIDs []string, limit int) ([]model.Word, error) {
	var words []model.Word

	tagged := s.db.
		Table("word_tags").
		Select("word_id").
		Where("tag_id IN ?", tagIDs)

	err := s.db.
		Preload("Noun").
		Preload("Verb").
		Preload("Tags").
		Where("id IN (?)", tagged).
		Limit(limit).
		Find(&words).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to find words by tags, %w", err)
	}

	return words, nil
}

// applyExtension is the single place that moves a word between its
// extension variants. After it returns the word has exactly the one
// extension row its target part of speech calls for, or none for a
// particle
func applyExtension(tx *gorm.DB, word *model.Word, input *WordInput) error {
	switch input.PartOfSpeech {
	case model.PartOfSpeechNoun:
		if input.Noun == nil {
			return ErrMissingExtensionProps
		}

		if word.Verb != nil {
			if err := tx.Where("word_id = ?", word.ID).Delete(model.Verb{}).Error; err != nil {
				return fmt.Errorf("failed to delete stale verb extension, %w", err)
			}
		}

		if word.Noun != nil {
			err := tx.
				Model(&model.Noun{}).
				Where("word_id = ?", word.ID).
				Select("noun_type", "gender", "broken_plural").
				Updates(model.Noun{
					NounType:     input.Noun.NounType,
					Gender:       input.Noun.Gender,
					BrokenPlural: input.Noun.BrokenPlural,
				}).
				Error
			if err != nil {
				return fmt.Errorf("failed to update noun extension, %w", err)
			}

			return nil
		}

		noun := *input.Noun
		noun.WordID = word.ID

		if err := tx.Create(&noun).Error; err != nil {
			return fmt.Errorf("failed to create noun extension, %w", err)
		}
	case model.PartOfSpeechVerb:
		if input.Verb == nil {
			return ErrMissingExtensionProps
		}

		if word.Noun != nil {
			if err := tx.Where("word_id = ?", word.ID).Delete(model.Noun{}).Error; err != nil {
				return fmt.Errorf("failed to delete stale noun extension, %w", err)
			}
		}

		if word.Verb != nil {
			err := tx.
				Model(&model.Verb{}).
				Where("word_id = ?", word.ID).
				Select("verb_form", "irregularity_class", "tense").
				Updates(model.Verb{
					VerbForm:          input.Verb.VerbForm,
					IrregularityClass: input.Verb.IrregularityClass,
					Tense:             input.Verb.Tense,
				}).
				Error
			if err != nil {
				return fmt.Errorf("failed to update verb extension, %w", err)
			}

			return nil
		}

		verb := *input.Verb
		verb.WordID = word.ID

		if err := tx.Create(&verb).Error; err != nil {
			return fmt.Errorf("failed to create verb extension, %w", err)
		}
	case model.PartOfSpeechParticle:
		if err := tx.Where("word_id = ?", word.ID).Delete(model.Noun{}).Error; err != nil {
			return fmt.Errorf("failed to delete stale noun extension, %w", err)
		}

		if err := tx.Where("word_id = ?", word.ID).Delete(model.Verb{}).Error; err != nil {
			return fmt.Errorf("failed to delete stale verb extension, %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown part of speech %q", ErrMissingExtensionProps, input.PartOfSpeech)
	}

	return nil
}

// replaceTags sets the word's tag links to exactly tagIDs, replacing
// whatever was there before. Unknown tag ids fail the transaction
func replaceTags(tx *gorm.DB, word *model.Word, tagIDs []string) error {
	if len(tagIDs) == 0 {
		if err := tx.Model(word).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear tag links, %w", err)
		}

		return nil
	}

	var tags []model.Tag

	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return fmt.Errorf("failed to load tags, %w", err)
	}

	if len(tags) != len(tagIDs) {
		return ErrNotFound
	}

	if err := tx.Model(word).Association("Tags").Replace(&tags); err != nil {
		return fmt.Errorf("failed to replace tag links, %w", err)
	}

	return nil
}
