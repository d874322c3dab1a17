package repository

import (
	"testing"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hashed",
		FirstName:    "Alice",
		LastName:     "Smith",
		Role:         model.RoleOwner,
	}

	err := repo.Create(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hashed",
		FirstName:    "Alice",
		LastName:     "Smith",
	}
	require.NoError(t, repo.Create(user))

	dup := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "other",
		FirstName:    "Bob",
		LastName:     "Jones",
	}
	err := repo.Create(dup)
	assert.Error(t, err)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hashed",
		FirstName:    "Alice",
		LastName:     "Smith",
	}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByEmail("owner@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
