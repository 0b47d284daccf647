package services

import (
	"testing"

	"github.com/estatehub/realestate-backend/internal/database"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProperty(t *testing.T, db *gorm.DB, agentID uint, mutate func(*models.Property)) *models.Property {
	t.Helper()

	property := &models.Property{
		AgentID:  agentID,
		Title:    "Test listing",
		Type:     "apartment",
		Purpose:  models.PurposeSale,
		Price:    5000000,
		Location: "Mumbai",
		Bedrooms: 2,
		Area:     900,
		Status:   models.StatusAvailable,
	}
	if mutate != nil {
		mutate(property)
	}
	require.NoError(t, db.Create(property).Error)
	return property
}
