package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/vitrine/internal/models"
)

func (r *GormRepo) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	if err := r.DB.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) UpsertSetting(ctx context.Context, key, value string) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
}

func (r *GormRepo) ListSettings(ctx context.Context) ([]models.Setting, error) {
	items := make([]models.Setting, 0)
	if err := r.DB.WithContext(ctx).Order("key ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
