package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/vitrine/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SeedCatalog inserts products and their categories when the products table is empty.
func (r *GormRepo) SeedCatalog(ctx context.Context, products []models.Product) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 || len(products) == 0 {
		return false, nil
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := map[string]struct{}{}
		for _, p := range products {
			if _, ok := seen[p.Category]; ok {
				continue
			}
			seen[p.Category] = struct{}{}
			var cnt int64
			if err := tx.Model(&models.Category{}).Where("name = ?", p.Category).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				if err := tx.Create(&models.Category{Name: p.Category}).Error; err != nil {
					return err
				}
			}
		}
		rows := make([]models.Product, len(products))
		copy(rows, products)
		return tx.Create(&rows).Error
	})
	return err == nil, err
}
