package service

import (
	"unicode"

	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

const minPasswordLength = 8

// ValidatePassword требует не менее 8 символов, заглавную и строчную буквы и цифру.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен быть не менее 8 символов")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать хотя бы одну заглавную букву")
	}
	if !hasLower {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать хотя бы одну строчную букву")
	}
	if !hasNumber {
		return apperror.New(apperror.ErrCodeValidation, "пароль должен содержать хотя бы одну цифру")
	}
	return nil
}
