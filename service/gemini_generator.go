package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"transparency-backend/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const (
	defaultModel       = "gemini-2.5-flash"
	defaultTimeout     = 120 * time.Second
	maxRetries         = 3
	initialBackoff     = time.Second
	defaultTemperature = 0.7
)

// contentModel is the part of *genai.GenerativeModel used for a call
type contentModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements Generator with the Gemini API
type GeminiGenerator struct {
	client      *genai.Client
	newModel    func(system string, schema *genai.Schema) contentModel
	model       string
	temperature float32
	timeout     time.Duration
	maxRetries  int
	backoff     time.Duration
	logger      *zap.Logger
}

// GeminiOption is a functional option for GeminiGenerator
type GeminiOption func(*GeminiGenerator)

// GeminiWithModel sets the model name
func GeminiWithModel(model string) GeminiOption {
	return func(g *GeminiGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// GeminiWithTemperature sets the sampling temperature
func GeminiWithTemperature(t float32) GeminiOption {
	return func(g *GeminiGenerator) {
		g.temperature = t
	}
}

// GeminiWithTimeout bounds each model call
func GeminiWithTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiGenerator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// GeminiWithRetries sets the number of attempts per call
func GeminiWithRetries(n int) GeminiOption {
	return func(g *GeminiGenerator) {
		if n > 0 {
			g.maxRetries = n
		}
	}
}

// GeminiWithBackoff sets the delay before the first retry; it doubles on each attempt
func GeminiWithBackoff(d time.Duration) GeminiOption {
	return func(g *GeminiGenerator) {
		if d > 0 {
			g.backoff = d
		}
	}
}

// GeminiWithLogger sets the logger
func GeminiWithLogger(logger *zap.Logger) GeminiOption {
	return func(g *GeminiGenerator) {
		g.logger = logger
	}
}

// NewGeminiGenerator creates a new Gemini generator
func NewGeminiGenerator(client *genai.Client, opts ...GeminiOption) *GeminiGenerator {
	g := &GeminiGenerator{
		client:      client,
		model:       defaultModel,
		temperature: defaultTemperature,
		timeout:     defaultTimeout,
		maxRetries:  maxRetries,
		backoff:     initialBackoff,
		logger:      zap.NewNop(),
	}
	g.newModel = g.genaiModel
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NextQuestion asks the model for the question following history
func (g *GeminiGenerator) NextQuestion(ctx context.Context, history []models.QuestionAnswer) (*models.Question, error) {
	prompt, err := historyPrompt(history, "Generate the next question.")
	if err != nil {
		return nil, err
	}

	var question *models.Question
	err = g.generate(ctx, questionSystemPrompt, questionSchema, prompt, func(text string) error {
		q := &models.Question{}
		if err := decodeModelJSON(text, q); err != nil {
			return err
		}
		if err := checkQuestion(q); err != nil {
			return err
		}
		question = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

// GenerateReport asks the model for the final report
func (g *GeminiGenerator) GenerateReport(ctx context.Context, history []models.QuestionAnswer) (*GeneratedReport, error) {
	prompt, err := historyPrompt(history, "Generate the Report.")
	if err != nil {
		return nil, err
	}

	var report *GeneratedReport
	err = g.generate(ctx, reportSystemPrompt, reportSchema, prompt, func(text string) error {
		r := &GeneratedReport{}
		if err := decodeModelJSON(text, r); err != nil {
			return err
		}
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// generate calls the model and hands the text to accept, retrying with exponential
// backoff on call errors and on output accept rejects
func (g *GeminiGenerator) generate(ctx context.Context, system string, schema *genai.Schema, prompt string, accept func(string) error) error {
	model := g.newModel(system, schema)

	backoff := g.backoff
	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		resp, err := model.GenerateContent(callCtx, genai.Text(prompt))
		cancel()

		if err == nil {
			var text string
			if text, err = responseText(resp); err == nil {
				if err = accept(text); err == nil {
					return nil
				}
			}
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrGenerationFailed, ctx.Err())
		}
		g.logger.Warn("Gemini call failed",
			zap.String("model", g.model),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.maxRetries),
			zap.Error(err),
		)
		if attempt == g.maxRetries {
			break
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrGenerationFailed, ctx.Err())
		}
	}

	return fmt.Errorf("%w: %w", ErrGenerationFailed, lastErr)
}

// genaiModel configures a Gemini model for JSON output matching schema
func (g *GeminiGenerator) genaiModel(system string, schema *genai.Schema) contentModel {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema
	model.SetTemperature(g.temperature)
	return model
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("API returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("API candidate has no parts (finish reason: %s)", candidate.FinishReason)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("API returned empty content")
	}
	return b.String(), nil
}
