package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"transparency-backend/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// modelReply is one scripted answer of scriptedModel
type modelReply struct {
	text  string
	err   error
	block bool // wait for the call context to end
}

// scriptedModel replays replies in order and repeats the last one
type scriptedModel struct {
	mu      sync.Mutex
	replies []modelReply
	calls   int
	system  string
	schema  *genai.Schema
}

func (m *scriptedModel) GenerateContent(ctx context.Context, _ ...genai.Part) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	reply := m.replies[min(m.calls, len(m.replies)-1)]
	m.calls++
	m.mu.Unlock()

	if reply.block {
		<-ctx.Done()
		return nil, errors.New("rpc error: call aborted")
	}
	if reply.err != nil {
		return nil, reply.err
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text(reply.text)}},
	}}}, nil
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newScriptedGenerator(m *scriptedModel, opts ...GeminiOption) (*GeminiGenerator, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	opts = append([]GeminiOption{GeminiWithBackoff(time.Millisecond), GeminiWithLogger(zap.New(core))}, opts...)
	g := NewGeminiGenerator(nil, opts...)
	g.newModel = func(system string, schema *genai.Schema) contentModel {
		m.system, m.schema = system, schema
		return m
	}
	return g, logs
}

var firstTurn = []models.QuestionAnswer{{QNo: 1, Question: "What is it?", Answer: "A kettle"}}

func TestGeminiGenerator_FirstAttempt(t *testing.T) {
	m := &scriptedModel{replies: []modelReply{{text: questionJSON}}}
	g, logs := newScriptedGenerator(m)

	q, err := g.NextQuestion(context.Background(), firstTurn)
	require.NoError(t, err)
	assert.Equal(t, 2, q.QNo)
	assert.Equal(t, 1, m.callCount())
	assert.Equal(t, questionSystemPrompt, m.system)
	assert.Same(t, questionSchema, m.schema)
	assert.Zero(t, logs.Len())
}

func TestGeminiGenerator_RetriesCallErrors(t *testing.T) {
	m := &scriptedModel{replies: []modelReply{
		{err: errors.New("503 unavailable")},
		{err: errors.New("503 unavailable")},
		{text: questionJSON},
	}}
	g, logs := newScriptedGenerator(m)

	q, err := g.NextQuestion(context.Background(), firstTurn)
	require.NoError(t, err)
	assert.Equal(t, "Where is it made?", q.Question)
	assert.Equal(t, 3, m.callCount())

	warnings := logs.FilterMessage("Gemini call failed").All()
	require.Len(t, warnings, 2)
	assert.EqualValues(t, 1, warnings[0].ContextMap()["attempt"])
	assert.EqualValues(t, 2, warnings[1].ContextMap()["attempt"])
}

func TestGeminiGenerator_RetriesRejectedOutput(t *testing.T) {
	m := &scriptedModel{replies: []modelReply{
		{text: "not json at all"},
		{text: `{"qno":2,"quesType":"mcq","question":"Q"}`},
		{text: `{"transparencyScore":8,"reportName":"Kettle","reportSummary":["Good"],"report":["# Kettle"]}`},
	}}
	g, _ := newScriptedGenerator(m)

	report, err := g.GenerateReport(context.Background(), firstTurn)
	require.NoError(t, err)
	assert.Equal(t, "Kettle", report.ReportName)
	assert.Equal(t, 3, m.callCount())
	assert.Equal(t, reportSystemPrompt, m.system)
}

func TestGeminiGenerator_GivesUp(t *testing.T) {
	callErr := errors.New("quota exceeded")
	m := &scriptedModel{replies: []modelReply{{err: callErr}}}
	g, logs := newScriptedGenerator(m, GeminiWithRetries(4))

	_, err := g.NextQuestion(context.Background(), firstTurn)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, callErr)
	assert.Equal(t, 4, m.callCount())
	assert.Equal(t, 4, logs.Len())
}

func TestGeminiGenerator_Cancelled(t *testing.T) {
	t.Run("during a call", func(t *testing.T) {
		m := &scriptedModel{replies: []modelReply{{block: true}}}
		g, _ := newScriptedGenerator(m)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(10*time.Millisecond, cancel)

		_, err := g.NextQuestion(ctx, firstTurn)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, m.callCount())
	})

	t.Run("during backoff", func(t *testing.T) {
		m := &scriptedModel{replies: []modelReply{{err: errors.New("503 unavailable")}}}
		g, _ := newScriptedGenerator(m, GeminiWithBackoff(time.Minute))

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(10*time.Millisecond, cancel)

		_, err := g.NextQuestion(ctx, firstTurn)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, m.callCount())
	})

	t.Run("call timeout is retried", func(t *testing.T) {
		m := &scriptedModel{replies: []modelReply{{block: true}, {text: questionJSON}}}
		g, _ := newScriptedGenerator(m, GeminiWithTimeout(5*time.Millisecond))

		q, err := g.NextQuestion(context.Background(), firstTurn)
		require.NoError(t, err)
		assert.Equal(t, 2, q.QNo)
		assert.Equal(t, 2, m.callCount())
	})
}
