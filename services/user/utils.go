package user

import (
	"errors"
	"regexp"
	"strings"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{4,30}$`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
	numberPattern   = regexp.MustCompile(`[0-9]`)
)

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyPasswordComplexity checks that the password meets complexity requirements.
func VerifyPasswordComplexity(pw string) error {
	if len(pw) < 8 {
		return utils.NewValidationError("password must be at least 8 characters long")
	}
	if !letterPattern.MatchString(pw) {
		return utils.NewValidationError("password must include at least one letter")
	}
	if !numberPattern.MatchString(pw) {
		return utils.NewValidationError("password must include at least one number")
	}
	return nil
}

func validateRegistration(username, email, password, userType string) error {
	if !usernamePattern.MatchString(username) {
		return utils.NewValidationError("username must be 4-30 letters, digits, dots, dashes or underscores")
	}
	if !emailPattern.MatchString(email) {
		return utils.NewValidationError("invalid email address")
	}
	if userType != models.UserTypeHomeowner && userType != models.UserTypeCleaner {
		return utils.NewValidationError("type must be homeowner or cleaner")
	}
	return VerifyPasswordComplexity(password)
}

func userNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFoundError("user not found")
	}
	return err
}
