package services

import (
	"context"
	"testing"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFavoriteCycle(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	buyer := createTestUser(t, db, "Imran Shaikh", "imran@x.com", models.RoleBuyer)
	property := createTestProperty(t, db, agent.ID, nil)
	svc := NewFavoriteService(db)

	ctx := context.Background()

	saved, err := svc.Toggle(ctx, buyer.ID, property.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	ids, err := svc.Check(ctx, buyer.ID, []uint{property.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{property.ID}, ids)

	saved, err = svc.Toggle(ctx, buyer.ID, property.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	ids, err = svc.Check(ctx, buyer.ID, []uint{property.ID})
	require.NoError(t, err)
	assert.Empty(t, ids)

	saved, err = svc.Toggle(ctx, buyer.ID, property.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ?", buyer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestToggleFavoriteUnknownProperty(t *testing.T) {
	db := setupTestDB(t)
	buyer := createTestUser(t, db, "Imran Shaikh", "imran@x.com", models.RoleBuyer)
	svc := NewFavoriteService(db)

	_, err := svc.Toggle(context.Background(), buyer.ID, 9999)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCheckIgnoresUnsavedIDs(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	buyer := createTestUser(t, db, "Imran Shaikh", "imran@x.com", models.RoleBuyer)
	saved := createTestProperty(t, db, agent.ID, nil)
	other := createTestProperty(t, db, agent.ID, nil)
	svc := NewFavoriteService(db)

	_, err := svc.Toggle(context.Background(), buyer.ID, saved.ID)
	require.NoError(t, err)

	ids, err := svc.Check(context.Background(), buyer.ID, []uint{saved.ID, other.ID, 12345})
	require.NoError(t, err)
	assert.Equal(t, []uint{saved.ID}, ids)

	ids, err = svc.Check(context.Background(), buyer.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListFavoritesPreloadsProperty(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	buyer := createTestUser(t, db, "Imran Shaikh", "imran@x.com", models.RoleBuyer)
	property := createTestProperty(t, db, agent.ID, nil)
	svc := NewFavoriteService(db)

	_, err := svc.Toggle(context.Background(), buyer.ID, property.ID)
	require.NoError(t, err)

	favorites, err := svc.List(context.Background(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, property.ID, favorites[0].Property.ID)
	assert.Equal(t, property.Title, favorites[0].Property.Title)
}
