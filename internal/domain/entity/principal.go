package entity

import (
	"regexp"
	"time"

	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

var principalNamePattern = regexp.MustCompile(`^[a-z1-5.]{1,12}$`)

type Principal struct {
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func ValidatePrincipalName(name string) error {
	if !principalNamePattern.MatchString(name) {
		return apperror.New(apperror.ErrCodeValidation, "имя аккаунта: от 1 до 12 символов a-z, 1-5 и точка")
	}
	return nil
}

func NewPrincipal(name, passwordHash string, now time.Time) (*Principal, error) {
	if err := ValidatePrincipalName(name); err != nil {
		return nil, err
	}
	return &Principal{Name: name, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// ValidateBallotName проверяет имя бюллетеня по тем же правилам, что и имя аккаунта.
func ValidateBallotName(name string) error {
	if !principalNamePattern.MatchString(name) {
		return apperror.ErrInvalidBallotName
	}
	return nil
}
