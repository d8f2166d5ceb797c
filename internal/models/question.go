package models

import (
	"time"
)

// Moderation states for public questions. Private questions are forced to
// StatusApproved on every save; PENDING/DENIED only apply to public ones.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDenied   = "DENIED"
)

// Question is an interview-practice question. Ownership is immutable after
// creation; admin edits preserve the owner.
type Question struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OwnerID  uint   `gorm:"not null;index" json:"owner_id"`
	Owner    *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Body     string `gorm:"type:text" json:"body"`
	IsPublic bool   `gorm:"not null;default:false;index:idx_questions_public_status" json:"is_public"`
	Status   string `gorm:"type:varchar(10);not null;default:'PENDING';index:idx_questions_public_status" json:"status"`
	Tags     []Tag  `gorm:"many2many:question_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`

	// AnswerCount is not persisted; annotated at query time.
	AnswerCount int `gorm:"->;-:migration" json:"answer_count"`

	// The search_vector column is not mapped here; it is created and
	// maintained by raw DDL in the database package.

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is either public (owner null, globally unique name) or personal
// (unique per owner). A public and a personal tag may share a name; lookup
// prefers the public one.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:uniq_tag_name_owner" json:"name"`
	Slug      string    `gorm:"type:varchar(60);not null;index" json:"slug"`
	IsPublic  bool      `gorm:"not null;default:false" json:"is_public"`
	OwnerID   *uint     `gorm:"uniqueIndex:uniq_tag_name_owner" json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionVote is a 1..5 rating, unique per (user, question).
type QuestionVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:uniq_vote_user_question" json:"user_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:uniq_vote_user_question;index" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Rating     int       `gorm:"not null" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}
