package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Every newly registered restaurant starts with the same three categories
// and a small sample menu so its public page is never empty.

// DefaultCategories builds the starter category set for a restaurant.
func DefaultCategories(restaurantID string) []Category {
	now := time.Now()
	names := []string{"Appetizers", "Main Courses", "Desserts"}

	categories := make([]Category, 0, len(names))
	for i, name := range names {
		categories = append(categories, Category{
			ID:           uuid.NewString(),
			RestaurantID: restaurantID,
			Name:         name,
			SortOrder:    i + 1,
			CreatedAt:    now,
		})
	}
	return categories
}

// DefaultMenuItems builds the starter dishes for a restaurant. categories
// must be the slice produced by DefaultCategories for the same restaurant:
// appetizers, mains, desserts in that order.
func DefaultMenuItems(restaurantID string, categories []Category) []MenuItem {
	now := time.Now()
	appetizers := categories[0].ID
	mains := categories[1].ID
	desserts := categories[2].ID

	items := []MenuItem{
		{
			Name:        "Caesar Salad",
			Description: "Fresh romaine lettuce with parmesan cheese and croutons",
			CategoryID:  appetizers,
			PriceCents:  1200,
			Ingredients: "Romaine lettuce, Parmesan cheese, Croutons, Caesar dressing, Lemon juice",
			Allergens:   "Dairy, Gluten, Eggs",
			Nutrition:   Nutrition{Calories: 320, Protein: "12g", Carbs: "18g", Fat: "22g", Fiber: "4g"},
		},
		{
			Name:        "Buffalo Wings",
			Description: "Spicy chicken wings with blue cheese dip",
			CategoryID:  appetizers,
			PriceCents:  1500,
			Ingredients: "Chicken wings, Buffalo sauce, Blue cheese, Celery, Ranch dressing",
			Allergens:   "Dairy, Gluten",
			Nutrition:   Nutrition{Calories: 450, Protein: "28g", Carbs: "8g", Fat: "32g", Fiber: "2g"},
		},
		{
			Name:        "Grilled Salmon",
			Description: "Fresh Atlantic salmon with lemon herb butter",
			CategoryID:  mains,
			PriceCents:  2800,
			Ingredients: "Atlantic salmon, Lemon, Herbs, Butter, Olive oil, Salt, Pepper",
			Allergens:   "Fish, Dairy",
			Nutrition:   Nutrition{Calories: 380, Protein: "35g", Carbs: "2g", Fat: "24g", Fiber: "0g"},
		},
		{
			Name:        "Beef Steak",
			Description: "Premium ribeye steak cooked to perfection",
			CategoryID:  mains,
			PriceCents:  3500,
			Ingredients: "Ribeye steak, Salt, Black pepper, Garlic, Rosemary, Olive oil",
			Allergens:   "None",
			Nutrition:   Nutrition{Calories: 520, Protein: "42g", Carbs: "0g", Fat: "38g", Fiber: "0g"},
		},
		{
			Name:        "Chocolate Cake",
			Description: "Rich chocolate cake with vanilla ice cream",
			CategoryID:  desserts,
			PriceCents:  800,
			Ingredients: "Chocolate, Flour, Sugar, Eggs, Butter, Vanilla ice cream, Cocoa powder",
			Allergens:   "Dairy, Eggs, Gluten",
			Nutrition:   Nutrition{Calories: 420, Protein: "6g", Carbs: "52g", Fat: "22g", Fiber: "3g"},
		},
	}

	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].RestaurantID = restaurantID
		items[i].CurrencyCode = "USD"
		items[i].IsActive = true
		items[i].ImageURL = "/placeholder-dish.jpg"
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
	}
	return items
}

// DefaultReviews builds sample reviews for a newly registered restaurant.
// User IDs fall back to placeholders when no real users are supplied.
func DefaultReviews(restaurantID, restaurantName string, userIDs []string) []Review {
	now := time.Now()

	userID := func(i int) string {
		if i < len(userIDs) {
			return userIDs[i]
		}
		return fmt.Sprintf("demo-user-%d", i+1)
	}

	return []Review{
		{
			ID:           uuid.NewString(),
			RestaurantID: restaurantID,
			UserID:       userID(0),
			Rating:       5,
			Comment:      fmt.Sprintf("Amazing food at %s! The service was excellent and the atmosphere was perfect. Highly recommend!", restaurantName),
			CreatedAt:    now.Add(-7 * 24 * time.Hour),
			UpdatedAt:    now.Add(-7 * 24 * time.Hour),
		},
		{
			ID:           uuid.NewString(),
			RestaurantID: restaurantID,
			UserID:       userID(1),
			Rating:       4,
			Comment:      fmt.Sprintf("Great experience at %s. The food was delicious and the staff was very friendly. Will definitely come back!", restaurantName),
			CreatedAt:    now.Add(-5 * 24 * time.Hour),
			UpdatedAt:    now.Add(-5 * 24 * time.Hour),
		},
		{
			ID:           uuid.NewString(),
			RestaurantID: restaurantID,
			UserID:       userID(2),
			Rating:       3,
			Comment:      fmt.Sprintf("Decent food at %s. The service was okay but could be improved. The ambiance was nice though.", restaurantName),
			CreatedAt:    now.Add(-3 * 24 * time.Hour),
			UpdatedAt:    now.Add(-3 * 24 * time.Hour),
		},
	}
}
