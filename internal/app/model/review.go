package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a 1-5 star rating with a comment. Restaurant aggregates
// (avg_rating, review_count) are maintained by the review service, not here.
type Review struct {
	ID           string `gorm:"type:uuid;primarykey" json:"id"`
	RestaurantID string `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	UserID       string `gorm:"type:uuid;index;not null" json:"user_id"`
	Rating       int    `gorm:"not null" json:"rating"` // 1-5
	Comment      string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
