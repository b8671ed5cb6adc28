package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/vitrine/internal/models"
)

var (
	ErrAdministratorExists = errors.New("an administrator already exists")
	ErrEmailTaken          = errors.New("email already registered")
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) FindAdministrator(ctx context.Context, id string) (*models.Administrator, error) {
	var a models.Administrator
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) CreateAdministrator(ctx context.Context, a *models.Administrator) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) CountAdministrators(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Administrator{}).Count(&n).Error
	return n, err
}

// BootstrapAdministrator creates u and its administrator row in one
// transaction, only while no administrator exists. Concurrent calls race on
// the primary key of the first_administrator setting row, so at most one wins.
func (r *GormRepo) BootstrapAdministrator(ctx context.Context, u *models.User) (*models.Administrator, error) {
	var a models.Administrator
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Administrator{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAdministratorExists
		}

		// a marker left behind by administrators removed out of band
		if err := tx.Where("key = ?", models.SettingFirstAdministrator).Delete(&models.Setting{}).Error; err != nil {
			return err
		}
		marker := models.Setting{Key: models.SettingFirstAdministrator, Value: u.Email}
		if err := tx.Create(&marker).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAdministratorExists
			}
			return err
		}

		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		a = models.Administrator{ID: u.ID, Email: u.Email}
		return tx.Create(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}
