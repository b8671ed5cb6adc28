package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vitrine/internal/catalog"
	"github.com/Skotchmaster/vitrine/internal/models"
	"github.com/Skotchmaster/vitrine/internal/repo"
	"github.com/Skotchmaster/vitrine/internal/search"
	"github.com/Skotchmaster/vitrine/internal/storage"
	"github.com/Skotchmaster/vitrine/pkg/events"
	"github.com/Skotchmaster/vitrine/pkg/logging"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Source catalog.Source
	Index  search.Index
	Images storage.ImageStore
	Events events.Publisher
}

type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type ProductInput struct {
	Name        string
	Price       *decimal.Decimal
	ImageURL    string
	Category    string
	Description string
	Image       *Upload
}

func (in ProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return validation("name is required")
	case strings.TrimSpace(in.Category) == "":
		return validation("category is required")
	case in.Price == nil:
		return validation("price is required")
	case in.Price.IsNegative():
		return validation("price cannot be negative")
	case in.Image == nil && strings.TrimSpace(in.ImageURL) == "":
		return validation("image is required")
	}
	return nil
}

// checkCategory rejects products filed under a category that was never created.
func (s *CatalogService) checkCategory(ctx context.Context, name string) error {
	exists, err := s.Repo.CategoryNameTaken(ctx, strings.TrimSpace(name), "")
	if err != nil {
		return translate("check category", err)
	}
	if !exists {
		return validation("category does not exist")
	}
	return nil
}

func parseID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", validation("id is not a uuid")
	}
	return id.String(), nil
}

// Products returns the storefront listing narrowed by category when one is selected.
func (s *CatalogService) Products(ctx context.Context, category *string) ([]models.Product, error) {
	all, err := s.Source.Products(ctx)
	if err != nil {
		return nil, translate("list products", err)
	}
	return catalog.Filter(all, category), nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	all, err := s.Source.Products(ctx)
	if err != nil {
		return nil, translate("list categories", err)
	}
	return catalog.Categories(all), nil
}

func (s *CatalogService) Product(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	all, err := s.Source.Products(ctx)
	if err != nil {
		return nil, translate("get product", err)
	}
	for i := range all {
		if all[i].ID.String() == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func (s *CatalogService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []models.Product{}, nil
	}
	total, items, err := s.Index.Search(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w: %v", ErrRemote, err)
	}
	return total, items, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, translate("list products", err)
	}
	return items, nil
}

// upload stores in.Image, if any, and returns the image URL to persist.
func (s *CatalogService) upload(ctx context.Context, in ProductInput) (string, error) {
	if in.Image == nil {
		return strings.TrimSpace(in.ImageURL), nil
	}
	url, err := s.Images.Save(ctx, in.Image.Filename, in.Image.ContentType, in.Image.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return url, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.Category); err != nil {
		return nil, err
	}
	imageURL, err := s.upload(ctx, in)
	if err != nil {
		return nil, err
	}

	p := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price.Round(2),
		ImageURL:    imageURL,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, translate("create product", err)
	}

	s.sync(ctx, l, p, "product_created")
	return s.ListProducts(ctx)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, rawID string, in ProductInput) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_product")
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	current, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, translate("update product", err)
	}
	if err := s.checkCategory(ctx, in.Category); err != nil {
		return nil, err
	}
	imageURL, err := s.upload(ctx, in)
	if err != nil {
		return nil, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Price = in.Price.Round(2)
	current.ImageURL = imageURL
	current.Category = strings.TrimSpace(in.Category)
	current.Description = strings.TrimSpace(in.Description)
	current.UpdatedAt = time.Now().UTC()
	if err := s.Repo.UpdateProduct(ctx, current); err != nil {
		return nil, translate("update product", err)
	}

	s.sync(ctx, l, *current, "product_updated")
	return s.ListProducts(ctx)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, rawID string) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product")
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return nil, translate("delete product", err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Error("search_index_error", "product_id", id, "error", err)
		}
	}
	publish(ctx, l, s.Events, events.TopicProducts, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return s.ListProducts(ctx)
}

func (s *CatalogService) sync(ctx context.Context, l *slog.Logger, p models.Product, eventType string) {
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			l.Error("search_index_error", "product_id", p.ID.String(), "error", err)
		}
	}
	publish(ctx, l, s.Events, events.TopicProducts, p.ID.String(), map[string]any{
		"type":      eventType,
		"productID": p.ID.String(),
		"name":      p.Name,
		"price":     p.Price.StringFixed(2),
		"category":  p.Category,
	})
}
