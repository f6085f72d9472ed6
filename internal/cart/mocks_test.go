package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
	"github.com/rolurq/shopify-backend-challenge/internal/repository"
)

// memStore backs the repository mocks with slices so collection
// order is stable across calls.
type memStore struct {
	mu       sync.Mutex
	products []domain.Product
	items    []domain.CartItem
	orders   []domain.Order
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) id() string {
	s.nextID++
	return fmt.Sprintf("doc-%d", s.nextID)
}

func (s *memStore) addProduct(p domain.Product) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.id()
	}
	s.products = append(s.products, p)
	return p.ID
}

func (s *memStore) product(id string) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p
		}
	}
	return nil
}

func (s *memStore) itemRows(userID, productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		if item.UserID == userID && item.ProductID == productID {
			count++
		}
	}
	return count
}

type memProducts struct{ s *memStore }

func (m *memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p := m.s.product(id); p != nil {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memProducts) ListAvailable(context.Context) ([]domain.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var available []domain.Product
	for _, p := range m.s.products {
		if p.InventoryCount > 0 {
			available = append(available, p)
		}
	}
	return available, nil
}

func (m *memProducts) ListAll(context.Context) ([]domain.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return append([]domain.Product(nil), m.s.products...), nil
}

func (m *memProducts) Insert(_ context.Context, product *domain.Product) (string, error) {
	product.ID = m.s.addProduct(*product)
	return product.ID, nil
}

func (m *memProducts) UpdateMany(_ context.Context, products []domain.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, updated := range products {
		for i := range m.s.products {
			if m.s.products[i].ID == updated.ID {
				m.s.products[i] = updated
			}
		}
	}
	return nil
}

type memItems struct{ s *memStore }

func (m *memItems) Get(_ context.Context, userID, productID string) (*domain.CartItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.items {
		if m.s.items[i].UserID == userID && m.s.items[i].ProductID == productID {
			item := m.s.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memItems) ListByUser(_ context.Context, userID string) ([]domain.CartItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var items []domain.CartItem
	for _, item := range m.s.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *memItems) Insert(_ context.Context, item *domain.CartItem) (string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if item.ID == "" {
		item.ID = m.s.id()
	}
	m.s.items = append(m.s.items, *item)
	return item.ID, nil
}

func (m *memItems) UpdateAmount(_ context.Context, id string, amount int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.items {
		if m.s.items[i].ID == id {
			m.s.items[i].Amount = amount
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memItems) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.items {
		if m.s.items[i].ID == id {
			m.s.items = append(m.s.items[:i], m.s.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memItems) DeleteMany(_ context.Context, ids []string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	keep := m.s.items[:0]
	for _, item := range m.s.items {
		remove := false
		for _, id := range ids {
			if item.ID == id {
				remove = true
				break
			}
		}
		if !remove {
			keep = append(keep, item)
		}
	}
	m.s.items = keep
	return nil
}

type memOrders struct{ s *memStore }

func (m *memOrders) Create(_ context.Context, order *domain.Order) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if order.ID == "" {
		order.ID = m.s.id()
	}
	m.s.orders = append(m.s.orders, *order)
	return nil
}

func (m *memOrders) UnpublishedEvents(context.Context, int) ([]domain.OutboxEvent, error) {
	return nil, nil
}

func (m *memOrders) MarkPublished(context.Context, string) error {
	return nil
}

func newTestEngine() (*Engine, *memStore) {
	store := newMemStore()
	engine := NewEngine(
		repository.NewNoopTxRunner(),
		&memProducts{s: store},
		&memItems{s: store},
		&memOrders{s: store},
	)
	return engine, store
}
