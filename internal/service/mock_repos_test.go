package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/opencrafts-io/professor/internal/model"
	"github.com/opencrafts-io/professor/internal/repository"
	"github.com/opencrafts-io/professor/pkg/eventbus"
)

// ── Mock ExamScheduleRepository ──

type mockScheduleRepo struct {
	mu        sync.Mutex
	rows      map[string]model.ExamSchedule // 自然键 → 行
	upsertErr error                         // 不为 nil 时事务直接失败
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{rows: make(map[string]model.ExamSchedule)}
}

func naturalKey(s *model.ExamSchedule) string {
	inst := ""
	if s.InstitutionID != nil {
		inst = *s.InstitutionID
	}
	sem := int64(-1)
	if s.SemesterID != nil {
		sem = *s.SemesterID
	}
	return fmt.Sprintf("%s|%s|%d", s.CourseCode, inst, sem)
}

func (m *mockScheduleRepo) UpsertBatch(_ context.Context, schedules []model.ExamSchedule) (repository.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 事务语义：失败时整批不落
	if m.upsertErr != nil {
		return repository.UpsertResult{}, m.upsertErr
	}

	var result repository.UpsertResult
	for i := range schedules {
		key := naturalKey(&schedules[i])
		if _, ok := m.rows[key]; ok {
			result.Updated++
		} else {
			result.Created++
		}
		m.rows[key] = schedules[i]
	}
	return result, nil
}

func (m *mockScheduleRepo) ListByInstitution(_ context.Context, institutionID string, semesterID *int64) ([]model.ExamSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ExamSchedule
	for _, row := range m.rows {
		if row.InstitutionID == nil || *row.InstitutionID != institutionID {
			continue
		}
		if semesterID != nil && (row.SemesterID == nil || *row.SemesterID != *semesterID) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *mockScheduleRepo) List(_ context.Context, filter repository.ScheduleFilter) ([]model.ExamSchedule, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ExamSchedule
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

func (m *mockScheduleRepo) SearchByCodes(_ context.Context, institutionID string, semesterID *int64, codes []string) ([]model.ExamSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ExamSchedule
	for _, row := range m.rows {
		for _, code := range codes {
			if row.CourseCode == code {
				out = append(out, row)
				break
			}
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *mockScheduleRepo) get(key string) (model.ExamSchedule, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[key]
	return row, ok
}

func newTestRepository(mock *mockScheduleRepo) *repository.Repository {
	return &repository.Repository{ExamSchedule: mock}
}

// ── Mock Publisher ──

type mockPublisher struct {
	mu     sync.Mutex
	events []eventbus.IngestedEvent
	err    error
	done   chan struct{} // 每次发布后发信号，测试同步用
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{done: make(chan struct{}, 16)}
}

func (m *mockPublisher) PublishIngested(_ context.Context, evt eventbus.IngestedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.done <- struct{}{} }()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, evt)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published() []eventbus.IngestedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]eventbus.IngestedEvent, len(m.events))
	copy(out, m.events)
	return out
}
