package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/itervo/librecur/schedule"
)

// MockStorage implements the Storage interface for testing. Expectations
// are keyed on the call arguments without the context.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetCalendar(_ context.Context, calendarID string) (*Calendar, error) {
	args := m.Called(calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Calendar), args.Error(1)
}

func (m *MockStorage) ListCalendars(_ context.Context, ownerID string) ([]*Calendar, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Calendar), args.Error(1)
}

func (m *MockStorage) CreateCalendar(_ context.Context, cal *Calendar) error {
	args := m.Called(cal)
	return args.Error(0)
}

func (m *MockStorage) DeleteCalendar(_ context.Context, calendarID string) error {
	args := m.Called(calendarID)
	return args.Error(0)
}

func (m *MockStorage) GetEvent(_ context.Context, calendarID string, eventID uuid.UUID) (*schedule.Event, error) {
	args := m.Called(calendarID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.Event), args.Error(1)
}

func (m *MockStorage) ListEvents(_ context.Context, calendarID string) ([]*schedule.Event, error) {
	args := m.Called(calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schedule.Event), args.Error(1)
}

func (m *MockStorage) PutEvent(_ context.Context, ev *schedule.Event) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockStorage) DeleteEvent(_ context.Context, calendarID string, eventID uuid.UUID) error {
	args := m.Called(calendarID, eventID)
	return args.Error(0)
}
