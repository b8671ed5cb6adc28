package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SettingWhatsAppNumber = "whatsapp_number"
	// SettingFirstAdministrator records who ran the first-administrator bootstrap.
	SettingFirstAdministrator = "first_administrator"
)

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	Name        string          `gorm:"not null;index"                json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"price"`
	ImageURL    string          `gorm:"not null"                      json:"image_url"`
	Category    string          `gorm:"not null;index"                json:"category"`
	Description string          `gorm:"not null;default:''"           json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name string    `gorm:"uniqueIndex;not null"  json:"name"`
}

type Setting struct {
	Key   string `gorm:"primaryKey"        json:"key"`
	Value string `gorm:"not null"          json:"value"`
}

// Administrator marks a user as allowed into the admin panel. ID is the user id.
type Administrator struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Email string    `gorm:"not null"              json:"email"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null"      json:"jti"`
	TokenHash string    `gorm:"not null"                  json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"  json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"                  json:"expires_at"`
	Revoked   bool      `gorm:"default:false"             json:"revoked"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Product{},
		&Category{},
		&Setting{},
		&Administrator{},
		&User{},
		&RefreshToken{},
	}
}
