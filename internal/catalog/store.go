package catalog

import (
	"strings"
	"sync"
)

// Store holds the product list for the session. Products are loaded once at
// startup and are never deleted; the only mutation after load is the stock
// decrement applied when an order is placed.
type Store struct {
	mu       sync.RWMutex
	products []Product
	byID     map[int]Product
}

func NewStore() *Store {
	return &Store{byID: make(map[int]Product)}
}

// Replace swaps the full product list, keeping insertion order for listings.
func (s *Store) Replace(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make([]Product, len(products))
	copy(s.products, products)

	s.byID = make(map[int]Product, len(products))
	for _, p := range products {
		s.byID[p.ID] = p
	}
}

// FindByID looks a product up by exact numeric id.
func (s *Store) FindByID(id int) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	return p, ok
}

// List returns a copy of the product list in insertion order.
func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Search filters products whose title, brand or category contains the query,
// case-insensitively. An empty query returns the full list.
func (s *Store) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// DecrementStock reduces a product's stock by amount, clamped at zero.
// Unknown ids are a no-op.
func (s *Store) DecrementStock(id, amount int) {
	if amount <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return
	}

	p.Stock -= amount
	if p.Stock < 0 {
		p.Stock = 0
	}
	s.byID[id] = p

	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Stock = p.Stock
			break
		}
	}
}

// SetStock overwrites a product's stock. Used by seeding and tests.
func (s *Store) SetStock(id, stock int) {
	if stock < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return
	}

	p.Stock = stock
	s.byID[id] = p

	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Stock = stock
			break
		}
	}
}
