package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Carola178/storefront-service-go/internal/order"
)

const (
	OrderPlacedEventName    = "OrderPlaced"
	OrderPlacedEventVersion = 1
	orderPlacedSchema       = "contracts/events/order/OrderPlaced.v1.payload.schema.json"
)

// OrderPlacedItem mirrors the order line shape on the wire.
type OrderPlacedItem struct {
	ProductID int     `json:"productId"`
	Size      string  `json:"size"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// OrderPlacedPayload represents the v1 payload schema.
type OrderPlacedPayload struct {
	OrderID     string            `json:"orderId"`
	BuyerName   string            `json:"buyerName"`
	BuyerEmail  string            `json:"buyerEmail"`
	Items       []OrderPlacedItem `json:"items"`
	TotalAmount float64           `json:"totalAmount"`
	Timestamp   time.Time         `json:"timestamp"`
}

// OrderPlacedEnvelope is the enveloped event structure.
type OrderPlacedEnvelope = Envelope[OrderPlacedPayload]

// BuildOrderPlacedEnvelope builds an enveloped OrderPlaced event.
func BuildOrderPlacedEnvelope(o *order.Order, seq int64, meta EnvelopeMetadata) OrderPlacedEnvelope {
	if meta.CorrelationID == "" {
		meta.CorrelationID = uuid.NewString()
	}

	items := make([]OrderPlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderPlacedItem{
			ProductID: it.ProductID,
			Size:      it.Size,
			Qty:       it.Qty,
			Price:     it.Price,
		})
	}

	return OrderPlacedEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      "storefront-service",
		PartitionKey:  o.ID,
		Sequence:      &seq,
		OccurredAt:    time.Now().UTC(),
		Schema:        orderPlacedSchema,
		Payload: OrderPlacedPayload{
			OrderID:     o.ID,
			BuyerName:   o.Buyer.Name,
			BuyerEmail:  o.Buyer.Email,
			Items:       items,
			TotalAmount: o.TotalAmount,
			Timestamp:   o.CreatedAt,
		},
	}
}
