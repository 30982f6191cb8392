package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SlotKey is the versioned durable slot the cart is serialized into. The
// version suffix allows a future format migration without crashing on old
// payloads.
const SlotKey = "tf_cart_v1"

type Repository interface {
	Save(ctx context.Context, items []LineItem) error
	Load(ctx context.Context) ([]LineItem, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Save(ctx context.Context, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cart_slots (slot_key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot_key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`, SlotKey, payload)
	if err != nil {
		return fmt.Errorf("upsert cart slot: %w", err)
	}
	return nil
}

// Load reads the slot back. A missing row or an undecodable payload both
// yield an empty cart: persistence corruption must never fail startup.
func (r *repo) Load(ctx context.Context) ([]LineItem, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM cart_slots WHERE slot_key = $1`, SlotKey,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart slot: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		// corrupt slot, recover with an empty cart
		return nil, nil
	}
	return items, nil
}
