package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/magicmenu/magicmenu-backend/pkg/util"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID          string `gorm:"type:uuid;primarykey" json:"id"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"` // URL-safe identifier derived from name
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
	Phone       string `gorm:"type:varchar(30);not null" json:"phone"`
	Address     string `gorm:"type:text;not null" json:"address"`
	LogoURL     string `json:"logo_url"`
	QRURL       string `json:"qr_url"` // populated after QR generation

	// Denormalized review aggregates, recomputed transactionally on every
	// review write and re-checked nightly by the scheduler.
	AvgRating   float64 `gorm:"default:0" json:"avg_rating"`
	ReviewCount int     `gorm:"default:0" json:"review_count"`

	OwnerUserID *string `gorm:"type:uuid;index" json:"owner_user_id"` // nullable

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Categories []Category `gorm:"foreignKey:RestaurantID" json:"categories,omitempty"`
	MenuItems  []MenuItem `gorm:"foreignKey:RestaurantID" json:"menu_items,omitempty"`
	Reviews    []Review   `gorm:"foreignKey:RestaurantID" json:"-"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// BeforeCreate assigns the uuid primary key and derives the slug from the
// name when the caller did not set one. Slug uniqueness is enforced by the
// unique index; duplicates are rejected, never suffixed.
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Slug == "" {
		r.Slug = util.GenerateSlug(r.Name)
	}
	return nil
}
