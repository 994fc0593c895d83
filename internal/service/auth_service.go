package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/logger"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

var errReservedName = apperror.New(apperror.ErrCodeConflict, "имя аккаунта зарезервировано")

// AuthService регистрирует аккаунты и выдаёт токены. Зарегистрированный аккаунт
// считается существующим для действий арбитража.
type AuthService struct {
	store        repository.Store
	tokenManager *TokenManager
	reserved     map[string]struct{}
	now          func() time.Time
}

// RegisterInput содержит данные аккаунта при регистрации.
type RegisterInput struct {
	Name     string
	Password string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Name     string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	Principal string     `json:"principal"`
	TokenPair *TokenPair `json:"tokens"`
}

// NewAuthService создаёт сервис аутентификации. Имена из reserved нельзя зарегистрировать через API.
func NewAuthService(store repository.Store, tokenManager *TokenManager, reserved ...string) *AuthService {
	s := &AuthService{
		store:        store,
		tokenManager: tokenManager,
		reserved:     make(map[string]struct{}, len(reserved)),
		now:          time.Now,
	}
	for _, name := range reserved {
		s.reserved[name] = struct{}{}
	}
	return s
}

// Register создаёт аккаунт и выдаёт ему токены.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := entity.ValidatePrincipalName(in.Name); err != nil {
		return nil, err
	}
	if _, ok := s.reserved[in.Name]; ok {
		return nil, errReservedName
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.create(ctx, in.Name, in.Password); err != nil {
		return nil, err
	}

	logger.Get().WithField("principal", in.Name).Info("auth service: аккаунт зарегистрирован")
	return s.issue(in.Name)
}

// Login проверяет пароль и выдаёт новую пару токенов.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	principal, err := s.find(ctx, in.Name)
	if err != nil {
		if errors.Is(err, apperror.ErrPrincipalNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issue(principal.Name)
}

// Refresh выпускает новую пару токенов по refresh токену.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	name, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "refresh токен невалиден")
	}
	if _, err := s.find(ctx, name); err != nil {
		if errors.Is(err, apperror.ErrPrincipalNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	return s.issue(name)
}

// EnsurePrincipal создаёт служебный аккаунт, если его ещё нет. Правила пароля не проверяются.
func (s *AuthService) EnsurePrincipal(ctx context.Context, name, password string) error {
	err := s.create(ctx, name, password)
	if errors.Is(err, apperror.ErrPrincipalExists) {
		return nil
	}
	return err
}

func (s *AuthService) create(ctx context.Context, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}
	principal, err := entity.NewPrincipal(name, string(hash), s.now().UTC())
	if err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.Principals().Create(ctx, principal)
	})
}

func (s *AuthService) find(ctx context.Context, name string) (*entity.Principal, error) {
	var principal *entity.Principal
	err := s.store.View(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		principal, err = tx.Principals().FindByName(ctx, name)
		return err
	})
	return principal, err
}

func (s *AuthService) issue(name string) (*AuthResult, error) {
	pair, err := s.tokenManager.GeneratePair(name)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return &AuthResult{Principal: name, TokenPair: pair}, nil
}
