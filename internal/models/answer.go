package models

import (
	"time"
)

// Answer variant tags.
const (
	AnswerTypeStar  = "STAR"
	AnswerTypeBasic = "BASIC"
)

// Answer is a tagged union over the STAR and basic variants, stored in one
// table. The envelope fields are shared; variant fields are only meaningful
// for the matching Type tag. Dispatch goes through Variant(), never through
// probing which fields happen to be set.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IsPublic   bool      `gorm:"not null;default:false" json:"is_public"`
	Type       string    `gorm:"type:varchar(10);not null;index" json:"type"`

	// STAR variant fields.
	Situation string `gorm:"type:text" json:"situation,omitempty"`
	Task      string `gorm:"type:text" json:"task,omitempty"`
	Action    string `gorm:"type:text" json:"action,omitempty"`
	Result    string `gorm:"type:text" json:"result,omitempty"`

	// Basic variant field.
	Text string `gorm:"type:text" json:"text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StarContent is the resolved STAR variant of an answer.
type StarContent struct {
	Situation string `json:"situation"`
	Task      string `json:"task"`
	Action    string `json:"action"`
	Result    string `json:"result"`
}

// BasicContent is the resolved free-text variant of an answer.
type BasicContent struct {
	Text string `json:"text"`
}

// AnswerVariant holds exactly one resolved variant.
type AnswerVariant struct {
	Type  string        `json:"type"`
	Star  *StarContent  `json:"star,omitempty"`
	Basic *BasicContent `json:"basic,omitempty"`
}

// Variant resolves the answer to its concrete subtype. A row whose tag does
// not match a known variant is corrupted state and fails loudly with an
// INTEGRITY_FAULT instead of degrading to a generic answer.
func (a *Answer) Variant() (AnswerVariant, error) {
	switch a.Type {
	case AnswerTypeStar:
		return AnswerVariant{
			Type: AnswerTypeStar,
			Star: &StarContent{
				Situation: a.Situation,
				Task:      a.Task,
				Action:    a.Action,
				Result:    a.Result,
			},
		}, nil
	case AnswerTypeBasic:
		return AnswerVariant{
			Type:  AnswerTypeBasic,
			Basic: &BasicContent{Text: a.Text},
		}, nil
	default:
		return AnswerVariant{}, NewIntegrityFault(
			"answer has no recognized subtype", a.ID)
	}
}

// SearchText returns the variant's searchable text, used when refreshing the
// answer search vector.
func (a *Answer) SearchText() string {
	if a.Type == AnswerTypeStar {
		return a.Situation + " " + a.Task + " " + a.Action + " " + a.Result
	}
	return a.Text
}
