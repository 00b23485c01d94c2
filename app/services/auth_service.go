package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/mellomelt/app/helpers"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo repositories.UserRepositoryImpl
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryImpl, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = helpers.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{userRepo: userRepo, validate: validate, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, form models.RegisterForm) (*models.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validationError(helpers.ValidateStruct(s.validate, form)); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, form.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     form.Email,
		Phone:     form.Phone,
		Password:  hash,
		Role:      models.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("AuthService.Register: user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *AuthService) Login(ctx context.Context, form models.LoginForm) (*models.User, error) {
	if err := validationError(helpers.ValidateStruct(s.validate, form)); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !helpers.PasswordCompare(user.Password, []byte(form.Password)) {
		s.logger.Info("AuthService.Login: password mismatch", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
