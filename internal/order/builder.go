package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Carola178/storefront-service-go/internal/cart"
	"github.com/Carola178/storefront-service-go/internal/catalog"
)

var ErrEmptyCart = errors.New("cart is empty")

// Builder turns the current cart into an immutable order record and applies
// the stock decrement to the catalog. Clearing the cart afterwards is the
// caller's step: once an order is built, stock has already been decremented
// and there is no rollback.
type Builder struct {
	ledger  *cart.Ledger
	catalog *catalog.Store
}

func NewBuilder(ledger *cart.Ledger, catalogStore *catalog.Store) *Builder {
	return &Builder{ledger: ledger, catalog: catalogStore}
}

// Checkout snapshots the ledger by value, computes the total under the same
// rule as the ledger, and decrements each product's stock clamped at zero.
// An empty cart is rejected before any side effect.
func (b *Builder) Checkout(ctx context.Context, buyer Buyer) (*Order, error) {
	lineItems := b.ledger.Items()
	if len(lineItems) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]Item, 0, len(lineItems))
	total := 0.0
	for _, it := range lineItems {
		item := Item{ProductID: it.ProductID, Size: it.Size, Qty: it.Qty}
		if p, ok := b.catalog.FindByID(it.ProductID); ok {
			item.Price = p.Price
			total += p.Price * float64(it.Qty)
		}
		items = append(items, item)
	}

	o := &Order{
		ID:          "ORD-" + uuid.NewString(),
		Buyer:       buyer,
		Items:       items,
		TotalAmount: total,
		CreatedAt:   time.Now().UTC(),
	}

	for _, it := range o.Items {
		b.catalog.DecrementStock(it.ProductID, it.Qty)
	}

	return o, nil
}
