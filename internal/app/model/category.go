package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups menu items within a restaurant. Display order is SortOrder
// ascending, ties broken by insertion order. The parent restaurant is not
// validated on create.
type Category struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	RestaurantID string    `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	Name         string    `gorm:"not null" json:"name"`
	SortOrder    int       `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`

	MenuItems []MenuItem `gorm:"foreignKey:CategoryID" json:"menu_items,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
