package cart

// LineItem is one (product, size, quantity) entry in the cart. The ledger
// keeps at most one line item per (ProductID, Size) pair.
type LineItem struct {
	ProductID int    `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

// View is the read-only cart shape handed to the presentation boundary.
type View struct {
	Items       []LineItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	ItemCount   int        `json:"itemCount"`
}
