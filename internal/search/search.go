package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/example/fitgear/internal/models"
)

const productIndex = "products"

// Client wraps the Elasticsearch client for product indexing and search.
// A nil Client is valid: indexing becomes a no-op and Search reports
// unavailability, so the catalog works without a search cluster.
type Client struct {
	es *elasticsearch.Client
}

// NewClient connects to Elasticsearch at the given URL. An empty URL
// returns nil, which disables search.
func NewClient(url string) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, nil
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.Status())
	}

	return &Client{es: es}, nil
}

// Available reports whether a search cluster is configured.
func (c *Client) Available() bool {
	return c != nil
}

// IndexProduct upserts a product document. Failures are logged: the catalog
// row in Postgres stays authoritative regardless of index state.
func (c *Client) IndexProduct(ctx context.Context, product models.Product) {
	if c == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		log.Printf("[Search] marshal product %s failed: %v", product.ID, err)
		return
	}

	res, err := c.es.Index(
		productIndex,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(product.ID.String()),
	)
	if err != nil {
		log.Printf("[Search] index product %s failed: %v", product.ID, err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("[Search] index product %s: %s", product.ID, res.Status())
	}
}

// DeleteProduct removes a product document.
func (c *Client) DeleteProduct(ctx context.Context, id string) {
	if c == nil {
		return
	}

	res, err := c.es.Delete(productIndex, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		log.Printf("[Search] delete product %s failed: %v", id, err)
		return
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		log.Printf("[Search] delete product %s: %s", id, res.Status())
	}
}

// Search runs a fuzzy multi-field query over the product index.
func (c *Client) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if c == nil {
		return 0, nil, fmt.Errorf("search is not configured")
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description", "brand", "category"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(productIndex),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}

	return r.Hits.Total.Value, products, nil
}
