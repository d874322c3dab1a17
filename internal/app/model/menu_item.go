package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/magicmenu/magicmenu-backend/pkg/util"
	"gorm.io/gorm"
)

// Nutrition is a fixed-shape record stored as a JSON column. Values other
// than calories are display strings (e.g. "42g"), matching the published menu.
type Nutrition struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Fiber    string `json:"fiber"`
}

// Value implements database/sql/driver.Valuer.
func (n Nutrition) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements database/sql.Scanner.
func (n *Nutrition) Scan(value interface{}) error {
	if value == nil {
		*n = Nutrition{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Nutrition")
	}

	return json.Unmarshal(bytes, n)
}

type MenuItem struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	RestaurantID string    `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	CategoryID   string    `gorm:"type:uuid;index" json:"category_id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	PriceCents   int64     `gorm:"not null" json:"price_cents"` // minor currency units
	CurrencyCode string    `gorm:"type:varchar(3);default:'USD'" json:"currency_code"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	ImageURL     string    `json:"image_url"`
	Ingredients  string    `gorm:"type:text" json:"ingredients"` // comma-separated free text
	Allergens    string    `gorm:"type:text" json:"allergens"`   // comma-separated free text
	Nutrition    Nutrition `gorm:"type:text" json:"nutrition_info"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CurrencyCode == "" {
		m.CurrencyCode = "USD"
	}
	return nil
}

// DisplayPrice renders the price for menu pages, e.g. "$12.34".
func (m *MenuItem) DisplayPrice() string {
	return util.FormatPrice(m.PriceCents, m.CurrencyCode)
}
