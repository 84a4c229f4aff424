package sale

import (
	"context"
	"errors"
	"sort"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

// ===========================
// Mock Repository
// ===========================

// MockSaleRepository keeps snapshots so every load returns a fresh aggregate,
// like a real store.
type MockSaleRepository struct {
	sales map[string]domain.SaleSnapshot

	CreateCallCount int
	UpdateCallCount int
	GetCallCount    int

	CreateErr error
	UpdateErr error
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{sales: make(map[string]domain.SaleSnapshot)}
}

func (m *MockSaleRepository) put(s *domain.Sale) {
	m.sales[s.ID().String()] = s.Snapshot()
}

func (m *MockSaleRepository) GetByID(tx shared.TransactionContext, id domain.SaleID) (*domain.Sale, error) {
	m.GetCallCount++
	snap, ok := m.sales[id.String()]
	if !ok {
		return nil, domain.ErrSaleNotFound.WithContext("sale_id", id.String())
	}
	return domain.ReconstructSale(snap, nil)
}

func (m *MockSaleRepository) Create(tx shared.TransactionContext, s *domain.Sale) (*domain.Sale, error) {
	m.CreateCallCount++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if _, exists := m.sales[s.ID().String()]; exists {
		return nil, domain.ErrSaleAlreadyExists
	}
	m.put(s)
	return s, nil
}

func (m *MockSaleRepository) Update(tx shared.TransactionContext, s *domain.Sale) (*domain.Sale, error) {
	m.UpdateCallCount++
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	stored, ok := m.sales[s.ID().String()]
	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	if stored.Version != s.Version() {
		return nil, domain.ErrConcurrentModification
	}
	snap := s.Snapshot()
	snap.Version++
	m.sales[s.ID().String()] = snap
	return domain.ReconstructSale(snap, nil)
}

func (m *MockSaleRepository) GetAll(tx shared.TransactionContext) ([]*domain.Sale, error) {
	out := make([]*domain.Sale, 0, len(m.sales))
	for _, snap := range m.sales {
		s, err := domain.ReconstructSale(snap, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

// ===========================
// Mock TransactionManager
// ===========================

type MockTransactionManager struct {
	InTransactionCallCount int
	RolledBack             int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	m.InTransactionCallCount++
	if err := fn(struct{}{}); err != nil {
		m.RolledBack++
		return err
	}
	return nil
}

// ===========================
// Mock EventPublisher
// ===========================

type MockEventPublisher struct {
	Published []shared.DomainEvent
	Err       error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	return m.PublishBatch(ctx, []shared.DomainEvent{event})
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, events...)
	return nil
}

func (m *MockEventPublisher) Types() []string {
	out := make([]string, 0, len(m.Published))
	for _, e := range m.Published {
		out = append(out, e.EventType())
	}
	return out
}

var errPublishDown = errors.New("publisher down")
