package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "b")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, CartBackendMemory, cfg.CartBackend)
	assert.Equal(t, "pt-BR", cfg.StoreLocale)
	assert.Equal(t, "whatsapp", cfg.WhatsAppScheme)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*24*time.Hour, cfg.CartTTL)
	assert.True(t, cfg.SeedCatalog)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, CatalogSourceDB, cfg.CatalogSource)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_REFRESH_SECRET": "b"}},
		{"missing refresh secret", map[string]string{"JWT_SECRET": "a"}},
		{"bad cart backend", map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b", "CART_BACKEND": "disk"}},
		{"same secrets", map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "a"}},
		{"bad catalog source", map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b", "CATALOG_SOURCE": "csv"}},
		{"bad locale", map[string]string{"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b", "STORE_LOCALE": "fr-FR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv("JWT_REFRESH_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_StaticCatalog(t *testing.T) {
	t.Setenv("JWT_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "b")
	t.Setenv("CATALOG_SOURCE", "Static")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, CatalogSourceStatic, cfg.CatalogSource)
}
