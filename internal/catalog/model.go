package catalog

type Product struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Brand    string   `json:"brand"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Sizes    []string `json:"sizes"`
	Stock    int      `json:"stock"`
	Image    string   `json:"image"`
}
