package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("imran@x.com"))
	assert.True(t, IsValidEmail("rohan.mehta+listings@estatehub.in"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("password123"))
	assert.False(t, IsValidPassword("short"))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("agent"))
	assert.True(t, IsValidRole("buyer"))
	assert.True(t, IsValidRole("admin"))
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}

func TestIsValidRating(t *testing.T) {
	assert.True(t, IsValidRating(1))
	assert.True(t, IsValidRating(5))
	assert.False(t, IsValidRating(0))
	assert.False(t, IsValidRating(6))
}
