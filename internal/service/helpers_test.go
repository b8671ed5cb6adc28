package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vitrine/internal/cart"
	"github.com/Skotchmaster/vitrine/internal/catalog"
	"github.com/Skotchmaster/vitrine/internal/models"
	"github.com/Skotchmaster/vitrine/internal/repo"
	"github.com/Skotchmaster/vitrine/internal/search"
	"github.com/Skotchmaster/vitrine/pkg/db"
	"github.com/Skotchmaster/vitrine/pkg/events/eventstest"
)

type testEnv struct {
	Repo       *repo.GormRepo
	Events     *eventstest.Recorder
	Images     *fakeImages
	Index      *fakeIndex
	Contact    *cart.ContactCache
	Catalog    *CatalogService
	Categories *CategoryService
	Settings   *SettingsService
	Auth       *AuthService
	Admin      *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(context.Background()))

	rec := &eventstest.Recorder{}
	images := &fakeImages{}
	idx := &fakeIndex{DBIndex: search.DBIndex{Repo: r}}
	contact := &cart.ContactCache{}
	auth := &AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        rec,
	}

	return &testEnv{
		Repo:    r,
		Events:  rec,
		Images:  images,
		Index:   idx,
		Contact: contact,
		Catalog: &CatalogService{
			Repo:   r,
			Source: catalog.DBSource{Repo: r},
			Index:  idx,
			Images: images,
			Events: rec,
		},
		Categories: &CategoryService{Repo: r, Events: rec},
		Settings:   &SettingsService{Repo: r, Contact: contact, Events: rec},
		Auth:       auth,
		Admin:      &AdminService{Repo: r, Auth: auth},
	}
}

func seedCategories(t *testing.T, env *testEnv, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, env.Repo.CreateCategory(context.Background(), &models.Category{ID: uuid.New(), Name: name}))
	}
}

type fakeImages struct {
	calls int
	err   error
}

func (f *fakeImages) Save(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(r)
	return "http://cdn.test/uploads/" + filename, nil
}

type fakeIndex struct {
	search.DBIndex
	indexed []string
	deleted []string
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	f.indexed = append(f.indexed, p.Name)
	return f.err
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var errBoom = errors.New("boom")
