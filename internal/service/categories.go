package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/vitrine/internal/models"
	"github.com/Skotchmaster/vitrine/internal/repo"
	"github.com/Skotchmaster/vitrine/pkg/events"
	"github.com/Skotchmaster/vitrine/pkg/logging"
)

type CategoryService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	items, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, translate("list categories", err)
	}
	return items, nil
}

func (s *CategoryService) ensureFree(ctx context.Context, name, exceptID string) error {
	taken, err := s.Repo.CategoryNameTaken(ctx, name, exceptID)
	if err != nil {
		return translate("check category name", err)
	}
	if taken {
		return fmt.Errorf("category %q: %w", name, ErrConflict)
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, name string) ([]models.Category, error) {
	l := logging.FromContext(ctx).With("svc", "category.create")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation("name is required")
	}
	if err := s.ensureFree(ctx, name, ""); err != nil {
		return nil, err
	}

	c := models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, &c); err != nil {
		return nil, translate("create category", err)
	}
	publish(ctx, l, s.Events, events.TopicCategory, c.ID.String(), map[string]any{
		"type":       "category_created",
		"categoryID": c.ID.String(),
		"name":       c.Name,
	})
	return s.List(ctx)
}

// Update renames a category. Products keep the category name they were saved with.
func (s *CategoryService) Update(ctx context.Context, rawID, name string) ([]models.Category, error) {
	l := logging.FromContext(ctx).With("svc", "category.update")
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation("name is required")
	}
	if err := s.ensureFree(ctx, name, id); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateCategory(ctx, id, name); err != nil {
		return nil, translate("update category", err)
	}
	publish(ctx, l, s.Events, events.TopicCategory, id, map[string]any{
		"type":       "category_updated",
		"categoryID": id,
		"name":       name,
	})
	return s.List(ctx)
}

// Delete refuses with ErrCategoryInUse while any product carries the category's name.
func (s *CategoryService) Delete(ctx context.Context, rawID string) ([]models.Category, error) {
	l := logging.FromContext(ctx).With("svc", "category.delete")
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, translate("delete category", err)
	}
	n, err := s.Repo.CountProductsInCategory(ctx, c.Name)
	if err != nil {
		return nil, translate("count category products", err)
	}
	if n > 0 {
		return nil, fmt.Errorf("category %q has %d products: %w", c.Name, n, ErrCategoryInUse)
	}
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return nil, translate("delete category", err)
	}
	publish(ctx, l, s.Events, events.TopicCategory, id, map[string]any{
		"type":       "category_deleted",
		"categoryID": id,
		"name":       c.Name,
	})
	return s.List(ctx)
}
