package model

import "time"

// Part of speech values a word can take. NOUN and VERB each carry an
// extension row with class-specific attributes, PARTICLE carries none.
const (
	PartOfSpeechNoun     = "NOUN"
	PartOfSpeechVerb     = "VERB"
	PartOfSpeechParticle = "PARTICLE"
)

type Word struct {
	ID      string `gorm:"primaryKey" json:"id"`
	English string `gorm:"not null" json:"english"`
	Arabic  string `gorm:"not null" json:"arabic"`
	// Root is the consonantal root used as the grading key in quizzes.
	// Optional, particles usually don't have one
	Root         string `json:"root,omitempty"`
	PartOfSpeech string `gorm:"not null" json:"part_of_speech"`
	Img          string `json:"img,omitempty"`
	CreatedBy    string `gorm:"index" json:"-"`

	// At most one of these is ever set and it always matches PartOfSpeech.
	// The word store maintains this inside its transactions
	Noun *Noun `gorm:"foreignKey:WordID;references:ID" json:"noun,omitempty"`
	Verb *Verb `gorm:"foreignKey:WordID;references:ID" json:"verb,omitempty"`

	Tags []Tag `gorm:"many2many:word_tags" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type Noun struct {
	WordID       string `gorm:"primaryKey" json:"-"`
	NounType     string `json:"noun_type"`
	Gender       string `json:"gender"`
	BrokenPlural string `json:"broken_plural,omitempty"`
}

type Verb struct {
	WordID            string `gorm:"primaryKey" json:"-"`
	VerbForm          string `json:"verb_form"`
	IrregularityClass string `json:"irregularity_class,omitempty"`
	Tense             string `json:"tense"`
}
