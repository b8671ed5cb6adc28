package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/vitrine/internal/models"
)

const DefaultIndex = "products"

// Index finds products by free text and is kept in sync on admin mutations.
type Index interface {
	Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type ProductSearcher interface {
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

// DBIndex searches the products table directly. Sync calls are no-ops.
type DBIndex struct {
	Repo ProductSearcher
}

func (d DBIndex) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	return d.Repo.SearchProducts(ctx, q, offset, limit)
}

func (DBIndex) IndexProduct(context.Context, models.Product) error { return nil }
func (DBIndex) DeleteProduct(context.Context, string) error         { return nil }

type ESIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), strings.TrimSpace(string(body)))
	}
	return client, nil
}

func NewESIndex(client *elasticsearch.Client, index string) *ESIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &ESIndex{Client: client, Index: index}
}

func (e *ESIndex) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"from": offset,
		"size": limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.Index),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search response: %s", res.Status())
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
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

func (e *ESIndex) IndexProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	res, err := e.Client.Index(
		e.Index,
		bytes.NewReader(data),
		e.Client.Index.WithDocumentID(p.ID.String()),
		e.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

// DeleteProduct ignores documents that were never indexed.
func (e *ESIndex) DeleteProduct(ctx context.Context, id string) error {
	res, err := e.Client.Delete(e.Index, id, e.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product: %s", res.Status())
	}
	return nil
}
