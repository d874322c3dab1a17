package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a raw error into a code and a message safe to show to
// users. Sensitive driver detail is hidden; the context string (e.g.
// "restaurant create") steers the fallback messages.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM sentinel errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// 2. Postgres constraint violations

	// 2-1. Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// 2-2. Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// 2-3. Not-null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStrLower)
	}

	// 2-4. Check constraint (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	// 3. Network errors to external services
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unavailable. Please try again later",
		}
	}

	// 4. Fallback
	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultErrorMessage(context),
	}
}

// ParseAndRespond parses err and writes the resulting code and message with
// the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "slug") || strings.Contains(errLower, "idx_restaurants_slug") {
		return ErrorInfo{
			Code:    RestaurantSlugTaken,
			Message: "A restaurant with this name already exists. Please choose a different name",
		}
	}
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists. Please try again",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is referenced by other data and cannot be deleted",
		}
	}
	if strings.Contains(errLower, "restaurant_id") || strings.Contains(errLower, "fk_restaurants") {
		return ErrorInfo{Code: RestaurantNotFound, Message: "Restaurant does not exist"}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{Code: ResourceNotFound, Message: "User does not exist"}
	}
	if strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories") {
		return ErrorInfo{Code: CategoryNotFound, Message: "Category does not exist"}
	}
	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func parseNotNullError(errLower string) ErrorInfo {
	for _, field := range []string{"email", "password", "name", "description", "phone", "address"} {
		if strings.Contains(errLower, field) {
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "The " + field + " field is required",
			}
		}
	}
	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "restaurant"):
		return "Restaurant not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "menu") || strings.Contains(contextLower, "dish") || strings.Contains(contextLower, "item"):
		return "Dish not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "The requested record could not be found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "register"):
		return "Registration failed. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Update failed. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Delete failed. Please try again later"
	case strings.Contains(contextLower, "upload"):
		return "Upload failed. Please try again later"
	}
	return "Something went wrong. Please try again later"
}
