package db

import (
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
)

// Migrate runs database migrations.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordReset{},
		&model.Restaurant{},
		&model.Category{},
		&model.MenuItem{},
		&model.Review{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// RequiredTables lists the tables the application depends on, in the order
// reported by the check-database tool.
func RequiredTables() []string {
	return []string{"restaurants", "categories", "menu_items", "reviews", "users"}
}

// CheckTables reports which required tables exist.
func CheckTables() map[string]bool {
	result := make(map[string]bool, len(RequiredTables()))
	for _, table := range RequiredTables() {
		result[table] = DB.Migrator().HasTable(table)
	}
	return result
}
