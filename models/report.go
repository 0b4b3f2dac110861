package models

import (
	"time"
)

// Report represents a generated transparency report
type Report struct {
	UserID            string    `json:"-" bson:"userId"`
	ChatID            string    `json:"chatId,omitempty" bson:"chatId"`
	ReportName        string    `json:"reportName" bson:"reportName"`
	TransparencyScore float64   `json:"transparencyScore" bson:"transparencyScore"`
	ReportSummary     string    `json:"reportSummary" bson:"reportSummary"`
	Report            string    `json:"report" bson:"report"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time `json:"-" bson:"updatedAt"`
}

// Recent is a report listing entry
type Recent struct {
	UserID     string    `json:"-" bson:"userId"`
	ChatID     string    `json:"chatId" bson:"chatId"`
	ReportName string    `json:"reportName" bson:"reportName"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// ReportDetail is a report together with the interview that produced it
type ReportDetail struct {
	ReportName        string           `json:"reportName"`
	TransparencyScore float64          `json:"transparencyScore"`
	ReportSummary     string           `json:"reportSummary"`
	Report            string           `json:"report"`
	QuesAndAns        []QuestionAnswer `json:"quesAndAns"`
	CreatedAt         time.Time        `json:"createdAt"`
}
