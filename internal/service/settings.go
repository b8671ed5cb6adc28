package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/vitrine/internal/cart"
	"github.com/Skotchmaster/vitrine/internal/models"
	"github.com/Skotchmaster/vitrine/internal/order"
	"github.com/Skotchmaster/vitrine/internal/repo"
	"github.com/Skotchmaster/vitrine/pkg/events"
	"github.com/Skotchmaster/vitrine/pkg/logging"
)

const MinPhoneDigits = 10

type SettingsService struct {
	Repo    *repo.GormRepo
	Contact *cart.ContactCache
	Events  events.Publisher
}

func ValidatePhone(v string) error {
	if len(order.Digits(v)) < MinPhoneDigits {
		return validation("whatsapp number must have at least 10 digits")
	}
	return nil
}

// WhatsAppNumber returns an empty string when the setting was never saved.
func (s *SettingsService) WhatsAppNumber(ctx context.Context) (string, error) {
	st, err := s.Repo.GetSetting(ctx, models.SettingWhatsAppNumber)
	if err != nil {
		err = translate("get whatsapp number", err)
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return st.Value, nil
}

func (s *SettingsService) SaveWhatsAppNumber(ctx context.Context, value string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "settings.save_whatsapp")
	value = strings.TrimSpace(value)
	if err := ValidatePhone(value); err != nil {
		return "", err
	}
	if err := s.Repo.UpsertSetting(ctx, models.SettingWhatsAppNumber, value); err != nil {
		return "", translate("save whatsapp number", err)
	}
	s.Contact.Set(value)

	publish(ctx, l, s.Events, events.TopicSettings, models.SettingWhatsAppNumber, map[string]any{
		"type": "setting_updated",
		"key":  models.SettingWhatsAppNumber,
	})
	return s.WhatsAppNumber(ctx)
}

// List returns every stored setting ordered by key.
func (s *SettingsService) List(ctx context.Context) ([]models.Setting, error) {
	items, err := s.Repo.ListSettings(ctx)
	if err != nil {
		return nil, translate("list settings", err)
	}
	return items, nil
}

// LoadContact fills the shared contact cache from the stored setting.
func (s *SettingsService) LoadContact(ctx context.Context) error {
	v, err := s.WhatsAppNumber(ctx)
	if err != nil {
		return err
	}
	s.Contact.Set(v)
	return nil
}
