package services

import (
	"context"
	"testing"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTestimonialOncePerUser(t *testing.T) {
	db := setupTestDB(t)
	buyer := createTestUser(t, db, "Imran Shaikh", "imran@x.com", models.RoleBuyer)
	svc := NewTestimonialService(db)

	ctx := context.Background()

	_, err := svc.Create(ctx, buyer.ID, CreateTestimonialRequest{Content: "Found my flat in a week", Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(ctx, buyer.ID, CreateTestimonialRequest{Content: "Second attempt", Rating: 3})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.Testimonial{}).Where("user_id = ?", buyer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateTestimonialValidation(t *testing.T) {
	db := setupTestDB(t)
	buyer := createTestUser(t, db, "Imran Shaikh", "imran@x.com", models.RoleBuyer)
	svc := NewTestimonialService(db)

	_, err := svc.Create(context.Background(), buyer.ID, CreateTestimonialRequest{Content: "ok", Rating: 6})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Create(context.Background(), buyer.ID, CreateTestimonialRequest{Content: "   ", Rating: 4})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestListApprovedOnly(t *testing.T) {
	db := setupTestDB(t)
	a := createTestUser(t, db, "User A", "a@x.com", models.RoleBuyer)
	b := createTestUser(t, db, "User B", "b@x.com", models.RoleBuyer)
	svc := NewTestimonialService(db)

	require.NoError(t, db.Create(&models.Testimonial{UserID: a.ID, Content: "approved", Rating: 5, Approved: true}).Error)
	require.NoError(t, db.Create(&models.Testimonial{UserID: b.ID, Content: "pending", Rating: 4}).Error)

	testimonials, err := svc.ListApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, testimonials, 1)
	assert.Equal(t, "approved", testimonials[0].Content)
}

func TestDeleteTestimonialAuthorization(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "Owner", "owner@x.com", models.RoleBuyer)
	stranger := createTestUser(t, db, "Stranger", "stranger@x.com", models.RoleBuyer)
	svc := NewTestimonialService(db)

	testimonial := models.Testimonial{UserID: owner.ID, Content: "mine", Rating: 4}
	require.NoError(t, db.Create(&testimonial).Error)

	err := svc.Delete(context.Background(), testimonial.ID, stranger.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	// Admin may remove anyone's testimonial.
	require.NoError(t, svc.Delete(context.Background(), testimonial.ID, stranger.ID, true))
}

func TestApproveTestimonial(t *testing.T) {
	db := setupTestDB(t)
	buyer := createTestUser(t, db, "Imran Shaikh", "imran@x.com", models.RoleBuyer)
	svc := NewTestimonialService(db)

	testimonial := models.Testimonial{UserID: buyer.ID, Content: "pending", Rating: 4}
	require.NoError(t, db.Create(&testimonial).Error)

	require.NoError(t, svc.Approve(context.Background(), testimonial.ID))

	var reloaded models.Testimonial
	require.NoError(t, db.First(&reloaded, testimonial.ID).Error)
	assert.True(t, reloaded.Approved)

	err := svc.Approve(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
