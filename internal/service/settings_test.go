package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vitrine/pkg/events"
)

func TestSettingsService_WhatsAppNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v, err := env.Settings.WhatsAppNumber(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = env.Settings.SaveWhatsAppNumber(ctx, "(11) 9999-999")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, env.Contact.Get())

	v, err = env.Settings.SaveWhatsAppNumber(ctx, " +55 (11) 99999-8888 ")
	require.NoError(t, err)
	assert.Equal(t, "+55 (11) 99999-8888", v)
	assert.Equal(t, v, env.Contact.Get())

	v, err = env.Settings.SaveWhatsAppNumber(ctx, "5521988887777")
	require.NoError(t, err)
	assert.Equal(t, "5521988887777", v)

	all, err := env.Settings.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "5521988887777", all[0].Value)
	assert.Len(t, env.Events.Events(events.TopicSettings), 2)
}

func TestSettingsService_LoadContact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Settings.LoadContact(ctx))
	assert.Empty(t, env.Contact.Get())

	require.NoError(t, env.Repo.UpsertSetting(ctx, "whatsapp_number", "5511999998888"))
	require.NoError(t, env.Settings.LoadContact(ctx))
	assert.Equal(t, "5511999998888", env.Contact.Get())
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("11 99999-9999"))
	assert.ErrorIs(t, ValidatePhone("123456789"), ErrValidation)
	assert.ErrorIs(t, ValidatePhone(""), ErrValidation)
}

func TestSettingsService_ListOrderedByKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Repo.UpsertSetting(ctx, "whatsapp_number", "5511999998888"))
	require.NoError(t, env.Repo.UpsertSetting(ctx, "banner", "Promo"))
	require.NoError(t, env.Repo.UpsertSetting(ctx, "store_name", "Vitrine"))

	all, err := env.Settings.List(ctx)
	require.NoError(t, err)
	keys := make([]string, 0, len(all))
	for _, st := range all {
		keys = append(keys, st.Key)
	}
	assert.Equal(t, []string{"banner", "store_name", "whatsapp_number"}, keys)
}
