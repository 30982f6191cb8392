package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// LoadStatus tells callers whether the catalog came from the configured
// source or from the built-in fallback, instead of hiding the difference.
type LoadStatus string

const (
	StatusLoaded   LoadStatus = "loaded"
	StatusFallback LoadStatus = "fallback"
)

type LoadResult struct {
	Status LoadStatus
	Count  int
}

// fallbackProducts keeps the storefront usable when the catalog source is
// unreachable or malformed.
func fallbackProducts() []Product {
	return []Product{
		{
			ID:       1,
			Title:    "Fallback tee",
			Brand:    "Fallback",
			Category: "Tees",
			Price:    1000,
			Sizes:    []string{"S", "M"},
			Stock:    2,
			Image:    "https://picsum.photos/seed/f1/600/400",
		},
	}
}

// Loader populates a Store from a JSON catalog document, either an HTTP URL
// or a local file path.
type Loader struct {
	store  *Store
	client *http.Client
	logger *log.Logger
}

func NewLoader(store *Store, logger *log.Logger) *Loader {
	return &Loader{
		store:  store,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Load retrieves and parses the catalog document. Retrieval or parse failures
// are swallowed: the store falls back to the single placeholder product so the
// storefront stays available, and the result reports which path was taken.
func (l *Loader) Load(ctx context.Context, source string) LoadResult {
	products, err := l.fetch(ctx, source)
	if err != nil || len(products) == 0 {
		if err != nil {
			l.logger.Printf("catalog load failed, using fallback: %v", err)
		} else {
			l.logger.Printf("catalog source %s is empty, using fallback", source)
		}
		fallback := fallbackProducts()
		l.store.Replace(fallback)
		return LoadResult{Status: StatusFallback, Count: len(fallback)}
	}

	l.store.Replace(products)
	return LoadResult{Status: StatusLoaded, Count: len(products)}
}

func (l *Loader) fetch(ctx context.Context, source string) ([]Product, error) {
	var raw []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		raw, err = l.fetchHTTP(ctx, source)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return products, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
