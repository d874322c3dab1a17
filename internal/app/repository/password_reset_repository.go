package repository

import (
	"time"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(reset *model.PasswordReset) error
	FindByToken(token string) (*model.PasswordReset, error)
	MarkAsUsed(id string) error
	DeleteExpired() error
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(reset *model.PasswordReset) error {
	logger.Debug("Creating password reset in database", map[string]interface{}{
		"email": reset.Email,
	})

	if err := r.db.Create(reset).Error; err != nil {
		logger.Error("Failed to create password reset in database", err, map[string]interface{}{
			"email": reset.Email,
		})
		return err
	}
	return nil
}

func (r *passwordResetRepository) FindByToken(token string) (*model.PasswordReset, error) {
	logger.Debug("Finding password reset by token in database", nil)

	var reset model.PasswordReset
	if err := r.db.Where("token = ?", token).First(&reset).Error; err != nil {
		logger.Error("Failed to find password reset by token in database", err, nil)
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) MarkAsUsed(id string) error {
	if err := r.db.Model(&model.PasswordReset{}).
		Where("id = ?", id).
		Update("used", true).Error; err != nil {
		logger.Error("Failed to mark password reset as used", err, map[string]interface{}{
			"id": id,
		})
		return err
	}
	return nil
}

func (r *passwordResetRepository) DeleteExpired() error {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&model.PasswordReset{})
	if result.Error != nil {
		logger.Error("Failed to delete expired password resets", result.Error, nil)
		return result.Error
	}

	if result.RowsAffected > 0 {
		logger.Debug("Expired password resets deleted", map[string]interface{}{
			"count": result.RowsAffected,
		})
	}
	return nil
}
