package utils

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func IsValidPassword(password string) bool {
	return len(password) >= 8
}

func IsValidRole(role string) bool {
	validRoles := []string{"agent", "buyer", "admin"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
