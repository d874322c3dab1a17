package db

import (
	"fmt"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"github.com/magicmenu/magicmenu-backend/pkg/util"
	"gorm.io/gorm"
)

type sampleRestaurant struct {
	Name        string
	Description string
	Phone       string
	Address     string
}

// The fixed demo dataset. Used by the seed command and the menuctl
// add-sample-data tool so both produce identical content.
var sampleRestaurants = []sampleRestaurant{
	{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine in the heart of the city. Fresh pasta made daily and wood-fired pizzas.",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street, Downtown",
	},
	{
		Name:        "Tokyo Sushi Bar",
		Description: "Traditional Japanese sushi and sashimi prepared by master chefs with fish flown in daily.",
		Phone:       "+1-555-0202",
		Address:     "456 Oak Avenue, Midtown",
	},
	{
		Name:        "The Burger Palace",
		Description: "Gourmet burgers made from locally sourced beef, with vegetarian and vegan options.",
		Phone:       "+1-555-0303",
		Address:     "789 Elm Street, Uptown",
	},
}

var sampleDiners = []model.User{
	{Email: "sarah.johnson@example.com", FirstName: "Sarah", LastName: "Johnson", Role: model.RoleCustomer},
	{Email: "mike.chen@example.com", FirstName: "Mike", LastName: "Chen", Role: model.RoleCustomer},
	{Email: "emma.davis@example.com", FirstName: "Emma", LastName: "Davis", Role: model.RoleCustomer},
}

// SeedSampleData inserts the fixed sample dataset: three restaurants, each
// with the default categories, menu items and reviews from three sample
// diners. Restaurants whose slug already exists are skipped, so the call is
// repeatable.
func SeedSampleData(gdb *gorm.DB) (int, error) {
	diners, err := ensureSampleDiners(gdb)
	if err != nil {
		return 0, err
	}

	dinerIDs := make([]string, len(diners))
	for i, diner := range diners {
		dinerIDs[i] = diner.ID
	}

	created := 0
	for _, sample := range sampleRestaurants {
		slug := util.GenerateSlug(sample.Name)

		var count int64
		if err := gdb.Model(&model.Restaurant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			logger.Debug("Sample restaurant already present, skipping", map[string]interface{}{
				"slug": slug,
			})
			continue
		}

		restaurant := model.Restaurant{
			Name:        sample.Name,
			Description: sample.Description,
			Phone:       sample.Phone,
			Address:     sample.Address,
			LogoURL:     "/placeholder-logo.png",
		}

		err := gdb.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&restaurant).Error; err != nil {
				return err
			}

			categories := model.DefaultCategories(restaurant.ID)
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}

			items := model.DefaultMenuItems(restaurant.ID, categories)
			if err := tx.Create(&items).Error; err != nil {
				return err
			}

			reviews := model.DefaultReviews(restaurant.ID, restaurant.Name, dinerIDs)
			if err := tx.Create(&reviews).Error; err != nil {
				return err
			}

			var total int
			for _, review := range reviews {
				total += review.Rating
			}
			return tx.Model(&model.Restaurant{}).
				Where("id = ?", restaurant.ID).
				Updates(map[string]interface{}{
					"avg_rating":   float64(total) / float64(len(reviews)),
					"review_count": len(reviews),
				}).Error
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", sample.Name, err)
		}
		created++

		logger.Info("Sample restaurant seeded", map[string]interface{}{
			"restaurant_id": restaurant.ID,
			"slug":          slug,
		})
	}

	return created, nil
}

func ensureSampleDiners(gdb *gorm.DB) ([]model.User, error) {
	users := make([]model.User, 0, len(sampleDiners))
	for _, diner := range sampleDiners {
		var user model.User
		err := gdb.Where("email = ?", diner.Email).First(&user).Error
		if err == nil {
			users = append(users, user)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		hash, err := util.HashPassword("demo-password")
		if err != nil {
			return nil, err
		}

		user = diner
		user.PasswordHash = hash
		if err := gdb.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
