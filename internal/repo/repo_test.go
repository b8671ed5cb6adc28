package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/vitrine/internal/catalog"
	"github.com/Skotchmaster/vitrine/internal/models"
	"github.com/Skotchmaster/vitrine/pkg/db"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := New(gdb)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func TestProducts_CRUD(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	p := &models.Product{Name: "Zeta", Price: decimal.RequireFromString("10.50"), ImageURL: "/z.jpg", Category: "Roupas"}
	require.NoError(t, r.CreateProduct(ctx, p))
	require.NotEqual(t, uuid.Nil, p.ID)
	require.NoError(t, r.CreateProduct(ctx, &models.Product{Name: "Alpha", Price: decimal.Zero, ImageURL: "/a.jpg", Category: "Calçados"}))

	list, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.True(t, list[1].Price.Equal(decimal.RequireFromString("10.5")))

	p.Name = "Zeta 2"
	p.Price = decimal.RequireFromString("12")
	p.UpdatedAt = time.Now().UTC()
	require.NoError(t, r.UpdateProduct(ctx, p))

	got, err := r.GetProduct(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Zeta 2", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(12)))

	n, err := r.CountProductsInCategory(ctx, "Roupas")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, r.DeleteProduct(ctx, p.ID.String()))
	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID.String()), gorm.ErrRecordNotFound)

	_, err = r.GetProduct(ctx, p.ID.String())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	missing := &models.Product{ID: uuid.New(), Name: "x"}
	assert.ErrorIs(t, r.UpdateProduct(ctx, missing), gorm.ErrRecordNotFound)
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	seeded, err := r.SeedCatalog(ctx, catalog.Seed())
	require.NoError(t, err)
	require.True(t, seeded)

	total, items, err := r.SearchProducts(ctx, "CAMIS", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Camisa Polo Azul", items[0].Name)

	total, items, err = r.SearchProducts(ctx, "acessórios", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, items, 2)
}

func TestSeedCatalog_OnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	ok, err := r.SeedCatalog(ctx, catalog.Seed())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.SeedCatalog(ctx, catalog.Seed())
	require.NoError(t, err)
	assert.False(t, ok)

	cats, err := r.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Acessórios", cats[0].Name)

	n, err := r.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	c := &models.Category{Name: "Roupas"}
	require.NoError(t, r.CreateCategory(ctx, c))

	taken, err := r.CategoryNameTaken(ctx, "Roupas", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = r.CategoryNameTaken(ctx, "Roupas", c.ID.String())
	require.NoError(t, err)
	assert.False(t, taken)

	err = r.CreateCategory(ctx, &models.Category{Name: "Roupas"})
	assert.Error(t, err)

	require.NoError(t, r.UpdateCategory(ctx, c.ID.String(), "Moda"))
	got, err := r.GetCategory(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Moda", got.Name)

	require.NoError(t, r.DeleteCategory(ctx, c.ID.String()))
	assert.ErrorIs(t, r.DeleteCategory(ctx, c.ID.String()), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, r.UpdateCategory(ctx, c.ID.String(), "x"), gorm.ErrRecordNotFound)
}

func TestSettings_Upsert(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	_, err := r.GetSetting(ctx, models.SettingWhatsAppNumber)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, r.UpsertSetting(ctx, models.SettingWhatsAppNumber, "5511999998888"))
	require.NoError(t, r.UpsertSetting(ctx, models.SettingWhatsAppNumber, "5511000001111"))

	s, err := r.GetSetting(ctx, models.SettingWhatsAppNumber)
	require.NoError(t, err)
	assert.Equal(t, "5511000001111", s.Value)

	all, err := r.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUsersAndAdministrators(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	u := &models.User{Email: "admin@loja.com", PasswordHash: "h"}
	require.NoError(t, r.CreateUser(ctx, u))
	assert.Error(t, r.CreateUser(ctx, &models.User{Email: "admin@loja.com", PasswordHash: "h"}))

	found, err := r.FindUserByEmail(ctx, "admin@loja.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	require.NoError(t, r.UpdatePassword(ctx, u.ID.String(), "h2"))
	found, err = r.GetUser(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "h2", found.PasswordHash)

	n, err := r.CountAdministrators(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = r.FindAdministrator(ctx, u.ID.String())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, r.CreateAdministrator(ctx, &models.Administrator{ID: u.ID, Email: u.Email}))
	a, err := r.FindAdministrator(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, u.Email, a.Email)
}

func TestRotateRefreshToken(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	uid := uuid.New()

	old := &models.RefreshToken{JTI: "old", TokenHash: "h-old", UserID: uid, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, r.CreateRefreshToken(ctx, old))

	next := &models.RefreshToken{JTI: "new", TokenHash: "h-new", UserID: uid, ExpiresAt: time.Now().Add(time.Hour)}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "old", "wrong-hash", next), ErrTokenRevoked)
	require.NoError(t, r.RotateRefreshToken(ctx, "old", "h-old", next))

	got, err := r.FindRefreshByJTI(ctx, "old")
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	again := &models.RefreshToken{JTI: "newer", TokenHash: "x", UserID: uid, ExpiresAt: time.Now().Add(time.Hour)}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "old", "h-old", again), ErrTokenRevoked)
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "missing", "h", again), ErrTokenRevoked)

	require.NoError(t, r.RevokeUserTokens(ctx, uid.String()))
	got, err = r.FindRefreshByJTI(ctx, "new")
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	require.NoError(t, r.RevokeRefresh(ctx, "new"))
}

func TestBootstrapAdministrator(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	// marker left by an administrator removed by hand
	require.NoError(t, r.UpsertSetting(ctx, models.SettingFirstAdministrator, "gone@loja.com"))

	a, err := r.BootstrapAdministrator(ctx, &models.User{Email: "admin@loja.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "admin@loja.com", a.Email)

	marker, err := r.GetSetting(ctx, models.SettingFirstAdministrator)
	require.NoError(t, err)
	assert.Equal(t, "admin@loja.com", marker.Value)

	_, err = r.BootstrapAdministrator(ctx, &models.User{Email: "other@loja.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrAdministratorExists)
	_, err = r.FindUserByEmail(ctx, "other@loja.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBootstrapAdministrator_EmailTaken(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	require.NoError(t, r.CreateUser(ctx, &models.User{Email: "admin@loja.com", PasswordHash: "h"}))

	_, err := r.BootstrapAdministrator(ctx, &models.User{Email: "admin@loja.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = r.GetSetting(ctx, models.SettingFirstAdministrator)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "marker rolled back")
}
