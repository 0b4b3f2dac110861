package models

import (
	"time"
)

// QuestionType represents how a question expects to be answered
type QuestionType string

const (
	QuestionTypeText QuestionType = "text"
	QuestionTypeMCQ  QuestionType = "mcq"
)

// QuestionAnswer represents one answered interview turn. Only the turn itself is
// serialized to clients.
type QuestionAnswer struct {
	UserID    string    `json:"-" bson:"userId"`
	ChatID    string    `json:"-" bson:"chatId"`
	QNo       int       `json:"qno" bson:"qno"`
	Question  string    `json:"question" bson:"question"`
	Answer    string    `json:"answer" bson:"answer"`
	CreatedAt time.Time `json:"-" bson:"createdAt"`
	UpdatedAt time.Time `json:"-" bson:"updatedAt"`
}

// Question is the next question produced by the model
type Question struct {
	QNo      int          `json:"qno" validate:"gte=1"`
	LastQues bool         `json:"lastQues"`
	QuesType QuestionType `json:"quesType" validate:"required,oneof=text mcq"`
	Question string       `json:"question" validate:"required"`
	Options  []string     `json:"options,omitempty" validate:"required_if=QuesType mcq,dive,required"`
}
