package service

import (
	"encoding/json"
	"fmt"

	"transparency-backend/models"

	"github.com/google/generative-ai-go/genai"
)

// InterviewLength is the number of questions asked before a report is generated
const InterviewLength = 10

var questionSystemPrompt = fmt.Sprintf(`You are a product transparency analyst interviewing a product manufacturer.
Review the previous questions and answers and ask the single next most useful question for a
product transparency report. Cover product purpose, components, sourcing, manufacturing, safety
and compliance, environmental impact, ethics, quality assurance, usage and business practices.
Never repeat a question that has already been answered.

Ask exactly %[1]d questions. qno is one more than the highest previous qno (1 when there is no
history). Set lastQues to true only when qno is %[1]d.
Use quesType "mcq" with 3 to 5 mutually exclusive options when answers are categorical,
otherwise use "text" and omit options.
Respond with a single JSON object and nothing else.`, InterviewLength)

const reportSystemPrompt = `You are a product transparency analyst. Using the interview below, write a
professional product transparency report.

Return a single JSON object with:
- transparencyScore: a number from 0 to 10 reflecting completeness, specificity and verifiability
  of the disclosures (10 is exceptional, below 3 is very poor)
- reportName: a descriptive title that contains the product name and the words "Transparency Report"
- reportSummary: the executive summary, one paragraph per array element
- report: the detailed report as Markdown lines, one line per array element. Use only "# ", "## "
  and "### " headings, "- " bullets, "1. " numbered items, "---" rules and **bold** emphasis.`

var questionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"qno":      {Type: genai.TypeInteger},
		"lastQues": {Type: genai.TypeBoolean},
		"quesType": {Type: genai.TypeString, Format: "enum", Enum: []string{string(models.QuestionTypeText), string(models.QuestionTypeMCQ)}},
		"question": {Type: genai.TypeString},
		"options":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"qno", "lastQues", "quesType", "question"},
}

var reportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"transparencyScore": {Type: genai.TypeNumber},
		"reportName":        {Type: genai.TypeString},
		"reportSummary":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"report":            {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"transparencyScore", "reportName", "reportSummary", "report"},
}

type historyEntry struct {
	QNo      int    `json:"qno"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// historyPrompt renders the interview so far followed by an instruction
func historyPrompt(history []models.QuestionAnswer, instruction string) (string, error) {
	entries := make([]historyEntry, 0, len(history))
	for _, qa := range history {
		entries = append(entries, historyEntry{QNo: qa.QNo, Question: qa.Question, Answer: qa.Answer})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}
	return fmt.Sprintf("Previous questions and answers:\n%s\n\n%s", data, instruction), nil
}
