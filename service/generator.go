package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"transparency-backend/models"

	"github.com/go-playground/validator/v10"
	"github.com/kaptinlin/jsonrepair"
)

// Generator produces interview questions and reports from the conversation so far
type Generator interface {
	NextQuestion(ctx context.Context, history []models.QuestionAnswer) (*models.Question, error)
	GenerateReport(ctx context.Context, history []models.QuestionAnswer) (*GeneratedReport, error)
}

// GeneratedReport is the report payload returned by the model. Summary and body arrive
// as lists of lines.
type GeneratedReport struct {
	TransparencyScore float64  `json:"transparencyScore"`
	ReportName        string   `json:"reportName" validate:"required"`
	ReportSummary     []string `json:"reportSummary" validate:"required,min=1"`
	Report            []string `json:"report" validate:"required,min=1"`
}

var (
	validate  = validator.New()
	codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

// maxStringUnwraps bounds how many times a JSON string holding JSON is unwrapped
const maxStringUnwraps = 2

// decodeModelJSON decodes model output into out and validates it. It tolerates code
// fences, JSON that was encoded a second time as a string, and repairable syntax errors.
func decodeModelJSON(text string, out interface{}) error {
	raw := text
	for i := 0; ; i++ {
		data, err := normalizeJSON(raw)
		if err != nil {
			return err
		}

		var inner string
		if err := json.Unmarshal(data, &inner); err == nil {
			if i >= maxStringUnwraps {
				return errors.New("model output is a string, not an object")
			}
			raw = inner
			continue
		}

		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode model output: %w", err)
		}
		break
	}

	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("model output failed validation: %w", err)
	}
	return nil
}

func normalizeJSON(text string) ([]byte, error) {
	raw := strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	if raw == "" {
		return nil, errors.New("model returned empty output")
	}
	if json.Valid([]byte(raw)) {
		return []byte(raw), nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed model output: %w", err)
	}
	return []byte(repaired), nil
}

// checkQuestion applies the rules the struct tags cannot express
func checkQuestion(q *models.Question) error {
	switch q.QuesType {
	case models.QuestionTypeMCQ:
		if len(q.Options) < 2 {
			return fmt.Errorf("multiple choice question has %d options", len(q.Options))
		}
	case models.QuestionTypeText:
		q.Options = nil
	}
	return nil
}
