package order

import "time"

type Buyer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Item is a line item snapshotted at checkout time, with the unit price
// captured so later catalog changes cannot alter the recorded order.
type Item struct {
	ProductID int     `json:"productId"`
	Size      string  `json:"size"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID          string    `json:"orderId"`
	Buyer       Buyer     `json:"buyer"`
	Items       []Item    `json:"items"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}
