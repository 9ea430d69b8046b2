package service

import (
	"context"

	"picktrack/events"
	"picktrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPickRepository is a mock implementation of PickRepository
type MockPickRepository struct {
	mock.Mock
}

func (m *MockPickRepository) Create(ctx context.Context, pick *models.Pick) error {
	args := m.Called(ctx, pick)
	return args.Error(0)
}

func (m *MockPickRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Pick, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pick), args.Error(1)
}

func (m *MockPickRepository) FindPending(ctx context.Context, homeTeam, awayTeam string, window *TimeWindow) ([]*models.Pick, error) {
	args := m.Called(ctx, homeTeam, awayTeam, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pick), args.Error(1)
}

func (m *MockPickRepository) List(ctx context.Context, status *models.PickStatus, limit int) ([]*models.Pick, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pick), args.Error(1)
}

func (m *MockPickRepository) UpdateSettlement(ctx context.Context, pick *models.Pick) error {
	args := m.Called(ctx, pick)
	return args.Error(0)
}

func (m *MockPickRepository) CountByStatus(ctx context.Context) (map[models.PickStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.PickStatus]int), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, txn *models.BankrollTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByPick(ctx context.Context, pickID uuid.UUID) ([]*models.BankrollTransaction, error) {
	args := m.Called(ctx, pickID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BankrollTransaction), args.Error(1)
}

func (m *MockLedgerRepository) Sum(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) List(ctx context.Context, limit int) ([]*models.BankrollTransaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BankrollTransaction), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	pickRepo   PickRepository
	ledgerRepo LedgerRepository
	eventBus   EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(pickRepo PickRepository, ledgerRepo LedgerRepository, eventBus EventPublisher) {
	m.pickRepo = pickRepo
	m.ledgerRepo = ledgerRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) PickRepository() PickRepository {
	return m.pickRepo
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
