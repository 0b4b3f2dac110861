package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"transparency-backend/models"
)

type chatKey struct {
	userID string
	chatID string
}

// MemoryStore keeps interview turns, reports and listings in process memory. It backs
// local development and tests and implements all three repository interfaces through
// its accessors.
type MemoryStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	turns   map[chatKey]map[int]models.QuestionAnswer
	reports map[chatKey]models.Report
	recents map[chatKey]models.Recent
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     func() time.Time { return time.Now().UTC() },
		turns:   make(map[chatKey]map[int]models.QuestionAnswer),
		reports: make(map[chatKey]models.Report),
		recents: make(map[chatKey]models.Recent),
	}
}

// QuestionAnswers returns the store as a QuestionAnswerRepository
func (s *MemoryStore) QuestionAnswers() QuestionAnswerRepository { return memoryTurns{s} }

// Reports returns the store as a ReportRepository
func (s *MemoryStore) Reports() ReportRepository { return memoryReports{s} }

// Recents returns the store as a RecentRepository
func (s *MemoryStore) Recents() RecentRepository { return memoryRecents{s} }

type memoryTurns struct{ s *MemoryStore }

func (m memoryTurns) Upsert(_ context.Context, qa *models.QuestionAnswer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	key := chatKey{qa.UserID, qa.ChatID}
	turns, ok := m.s.turns[key]
	if !ok {
		turns = make(map[int]models.QuestionAnswer)
		m.s.turns[key] = turns
	}

	now := m.s.now()
	stored := *qa
	stored.UpdatedAt = now
	if prev, ok := turns[qa.QNo]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	turns[qa.QNo] = stored

	qa.CreatedAt, qa.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return nil
}

func (m memoryTurns) ListByChat(_ context.Context, userID, chatID string) ([]models.QuestionAnswer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make([]models.QuestionAnswer, 0, len(m.s.turns[chatKey{userID, chatID}]))
	for _, qa := range m.s.turns[chatKey{userID, chatID}] {
		out = append(out, qa)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QNo < out[j].QNo })
	return out, nil
}

func (m memoryTurns) DeleteByChat(_ context.Context, userID, chatID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.turns, chatKey{userID, chatID})
	return nil
}

type memoryReports struct{ s *MemoryStore }

func (m memoryReports) Save(_ context.Context, report *models.Report) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	key := chatKey{report.UserID, report.ChatID}
	now := m.s.now()
	stored := *report
	stored.UpdatedAt = now
	if prev, ok := m.s.reports[key]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	m.s.reports[key] = stored

	report.CreatedAt, report.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return nil
}

func (m memoryReports) GetByChat(_ context.Context, userID, chatID string) (*models.Report, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	report, ok := m.s.reports[chatKey{userID, chatID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &report, nil
}

func (m memoryReports) DeleteByChat(_ context.Context, userID, chatID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.reports, chatKey{userID, chatID})
	return nil
}

type memoryRecents struct{ s *MemoryStore }

func (m memoryRecents) Save(_ context.Context, recent *models.Recent) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	key := chatKey{recent.UserID, recent.ChatID}
	stored := *recent
	if prev, ok := m.s.recents[key]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = m.s.now()
	}
	m.s.recents[key] = stored

	recent.CreatedAt = stored.CreatedAt
	return nil
}

func (m memoryRecents) ListByUser(_ context.Context, userID string) ([]models.Recent, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make([]models.Recent, 0)
	for key, recent := range m.s.recents {
		if key.userID == userID {
			out = append(out, recent)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ChatID < out[j].ChatID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m memoryRecents) DeleteByChat(_ context.Context, userID, chatID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.recents, chatKey{userID, chatID})
	return nil
}
