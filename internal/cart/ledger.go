package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/Carola178/storefront-service-go/internal/catalog"
)

var (
	ErrInvalidSize       = errors.New("size is required")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Ledger owns the in-memory line items for the session cart. Every mutation
// writes the ledger through the slot repository; persistence failures are
// logged and swallowed so the cart never becomes unusable because storage is.
type Ledger struct {
	mu      sync.Mutex
	items   []LineItem
	catalog *catalog.Store
	repo    Repository
	logger  *log.Logger
}

func NewLedger(catalogStore *catalog.Store, repo Repository, logger *log.Logger) *Ledger {
	return &Ledger{
		catalog: catalogStore,
		repo:    repo,
		logger:  logger,
	}
}

// Restore loads previously persisted line items. A missing or corrupt slot
// yields an empty ledger, never an error.
func (l *Ledger) Restore(ctx context.Context) {
	items, err := l.repo.Load(ctx)
	if err != nil {
		l.logger.Printf("cart restore failed, starting empty: %v", err)
		return
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
}

// Add merges qty into an existing (productID, size) line item or appends a
// new one. The resulting quantity for the pair may never exceed the product's
// stock; a violating add is rejected with no partial mutation.
func (l *Ledger) Add(ctx context.Context, productID int, size string, qty int) error {
	if size == "" {
		return ErrInvalidSize
	}
	if qty <= 0 {
		qty = 1
	}

	product, ok := l.catalog.FindByID(productID)
	if !ok {
		return ErrProductNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(productID, size)
	current := 0
	if idx >= 0 {
		current = l.items[idx].Qty
	}
	// rearranged so an arbitrarily large qty cannot wrap the comparison
	if qty > product.Stock-current {
		return ErrInsufficientStock
	}

	if idx >= 0 {
		l.items[idx].Qty += qty
	} else {
		l.items = append(l.items, LineItem{ProductID: productID, Size: size, Qty: qty})
	}

	l.persist(ctx)
	return nil
}

// ChangeQuantity adds delta to the matching line item's quantity. No matching
// line item is a silent no-op. A resulting quantity at or below zero removes
// the line item entirely. Increments are validated against stock the same way
// Add is, so repeated increments cannot push the cart past what is available.
func (l *Ledger) ChangeQuantity(ctx context.Context, productID int, size string, delta int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(productID, size)
	if idx < 0 {
		return nil
	}

	qty := l.items[idx].Qty

	// qty is positive, so -qty is representable and the comparison is exact
	// even for the most negative delta.
	if delta <= -qty {
		l.items = append(l.items[:idx], l.items[idx+1:]...)
		l.persist(ctx)
		return nil
	}

	if delta > 0 {
		product, ok := l.catalog.FindByID(productID)
		if !ok {
			return ErrProductNotFound
		}
		// rearranged so an arbitrarily large delta cannot wrap the comparison
		if delta > product.Stock-qty {
			return ErrInsufficientStock
		}
	}

	l.items[idx].Qty = qty + delta
	l.persist(ctx)
	return nil
}

// Remove deletes the matching line item. Removing an absent item is a no-op.
func (l *Ledger) Remove(ctx context.Context, productID int, size string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(productID, size)
	if idx < 0 {
		return
	}

	l.items = append(l.items[:idx], l.items[idx+1:]...)
	l.persist(ctx)
}

// Clear empties the ledger.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.persist(ctx)
}

// Total sums price*qty over line items whose product still resolves in the
// catalog. Items whose product no longer resolves contribute zero.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.totalLocked()
}

func (l *Ledger) totalLocked() float64 {
	total := 0.0
	for _, it := range l.items {
		if p, ok := l.catalog.FindByID(it.ProductID); ok {
			total += p.Price * float64(it.Qty)
		}
	}
	return total
}

// ItemCount sums quantities across all line items. Display only, never used
// for stock checks.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, it := range l.items {
		count += it.Qty
	}
	return count
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Snapshot returns the full presentation view in one call.
func (l *Ledger) Snapshot() View {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]LineItem, len(l.items))
	copy(items, l.items)

	count := 0
	for _, it := range items {
		count += it.Qty
	}

	return View{
		Items:       items,
		TotalAmount: l.totalLocked(),
		ItemCount:   count,
	}
}

func (l *Ledger) indexOf(productID int, size string) int {
	for i, it := range l.items {
		if it.ProductID == productID && it.Size == size {
			return i
		}
	}
	return -1
}

// persist writes the current items through the repository. Callers hold l.mu.
func (l *Ledger) persist(ctx context.Context) {
	items := make([]LineItem, len(l.items))
	copy(items, l.items)

	if err := l.repo.Save(ctx, items); err != nil {
		l.logger.Printf("cart persist failed: %v", err)
	}
}
