package services

import (
	"context"
	"testing"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterValidateAndNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   PropertyFilter
		want PropertyFilter
	}{
		{
			name: "defaults",
			in:   PropertyFilter{},
			want: PropertyFilter{Page: 1, Limit: DefaultPageSize, SortBy: "createdAt", Order: "DESC", Status: models.StatusAvailable},
		},
		{
			name: "limit clamped to max",
			in:   PropertyFilter{Page: 3, Limit: 500, SortBy: "price", Order: "asc", Status: "All"},
			want: PropertyFilter{Page: 3, Limit: MaxPageSize, SortBy: "price", Order: "ASC", Status: "All"},
		},
		{
			name: "unknown sort column falls back",
			in:   PropertyFilter{SortBy: "password", Order: "DROP TABLE"},
			want: PropertyFilter{Page: 1, Limit: DefaultPageSize, SortBy: "createdAt", Order: "DESC", Status: models.StatusAvailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.ValidateAndNormalize()
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestSearchPriceWindow(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	svc := NewPropertyService(db, nil)

	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Price = 800000 })
	inWindow := createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Price = 1500000 })
	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Price = 2500000 })

	page, err := svc.Search(context.Background(), PropertyFilter{MinPrice: 1000000, MaxPrice: 2000000})
	require.NoError(t, err)
	require.Len(t, page.Properties, 1)
	assert.Equal(t, inWindow.ID, page.Properties[0].ID)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestSearchStatusDefaultsToAvailable(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	svc := NewPropertyService(db, nil)

	createTestProperty(t, db, agent.ID, nil)
	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Status = models.StatusSold })
	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Status = models.StatusRented })

	page, err := svc.Search(context.Background(), PropertyFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	for _, p := range page.Properties {
		assert.Equal(t, models.StatusAvailable, p.Status)
	}

	page, err = svc.Search(context.Background(), PropertyFilter{Status: "All"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)

	page, err = svc.Search(context.Background(), PropertyFilter{Status: "sold"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestSearchLocationSubstringCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	svc := NewPropertyService(db, nil)

	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Location = "Navi Mumbai" })
	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Location = "Pune" })

	page, err := svc.Search(context.Background(), PropertyFilter{Location: "mumBAI"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, "Navi Mumbai", page.Properties[0].Location)
}

func TestSearchAgentNameNoMatchIsEmptyNotError(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	svc := NewPropertyService(db, nil)

	createTestProperty(t, db, agent.ID, nil)

	page, err := svc.Search(context.Background(), PropertyFilter{AgentName: "nobody-by-this-name"})
	require.NoError(t, err)
	assert.Empty(t, page.Properties)
	assert.Equal(t, int64(0), page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)

	page, err = svc.Search(context.Background(), PropertyFilter{AgentName: "rohan"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestSearchPagination(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	svc := NewPropertyService(db, nil)

	for i := 0; i < 7; i++ {
		createTestProperty(t, db, agent.ID, nil)
	}

	page, err := svc.Search(context.Background(), PropertyFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages) // ceil(7/3)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Properties, 3)

	page, err = svc.Search(context.Background(), PropertyFilter{Page: 3, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Properties, 1)
}

func TestSearchSortByPrice(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	svc := NewPropertyService(db, nil)

	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Price = 300 })
	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Price = 100 })
	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Price = 200 })

	page, err := svc.Search(context.Background(), PropertyFilter{SortBy: "price", Order: "ASC"})
	require.NoError(t, err)
	require.Len(t, page.Properties, 3)
	assert.Equal(t, float64(100), page.Properties[0].Price)
	assert.Equal(t, float64(300), page.Properties[2].Price)
}

func TestUpdateOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "Owner Agent", "owner@estatehub.in", models.RoleAgent)
	other := createTestUser(t, db, "Other Agent", "other@estatehub.in", models.RoleAgent)
	svc := NewPropertyService(db, nil)

	property := createTestProperty(t, db, owner.ID, nil)

	title := "Hijacked"
	_, err := svc.Update(context.Background(), property.ID, other.ID, &models.UpdatePropertyRequest{Title: &title})
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	newStatus := models.StatusSold
	updated, err := svc.Update(context.Background(), property.ID, owner.ID, &models.UpdatePropertyRequest{Status: &newStatus})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, updated.Status)
}

func TestSuggestLimits(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	svc := NewPropertyService(db, nil)

	locations := []string{"Andheri East", "Andheri West", "Anand Nagar", "Annanur", "Anna Salai", "Pune"}
	for _, loc := range locations {
		l := loc
		createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Location = l })
	}

	suggestions, err := svc.Suggest(context.Background(), "an")
	require.NoError(t, err)
	assert.Len(t, suggestions.Locations, SuggestionLimit)

	suggestions, err = svc.Suggest(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, suggestions.Locations)
	assert.Empty(t, suggestions.Agents)
}

func TestGetAgentStats(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	buyer := createTestUser(t, db, "Imran Shaikh", "imran@x.com", models.RoleBuyer)
	svc := NewPropertyService(db, nil)

	available := createTestProperty(t, db, agent.ID, nil)
	createTestProperty(t, db, agent.ID, func(p *models.Property) { p.Status = models.StatusSold })
	require.NoError(t, db.Create(&models.Favorite{UserID: buyer.ID, PropertyID: available.ID}).Error)
	require.NoError(t, db.Create(&models.Testimonial{UserID: buyer.ID, Content: "Great platform", Rating: 4, Approved: true}).Error)

	stats, err := svc.GetAgentStats(context.Background(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProperties)
	assert.Equal(t, int64(1), stats.AvailableCount)
	assert.Equal(t, int64(1), stats.SoldCount)
	assert.Equal(t, int64(1), stats.FavoriteCount)
	assert.Equal(t, float64(4), stats.AverageRating)
	require.Len(t, stats.RecentTestimonials, 1)
}
