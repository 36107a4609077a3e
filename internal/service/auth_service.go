package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/repository"
	"github.com/guilhermeviannac/credpix/pkg/auth"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

// AuthService manages operator accounts and login.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With("component", "AuthService"),
	}
}

// Login verifies credentials and issues a bearer token carrying the
// user's id and role.
func (s *AuthService) Login(ctx context.Context, request *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, request.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredential
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if err = bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(request.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredential
	}

	token, err := s.tokens.Issue(auth.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     auth.Role(user.Role),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "username", user.Username, "role", user.Role)

	return &domain.LoginResponse{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// RegisterUser creates an admin or collector account. Collectors may be
// assigned an initial region.
func (s *AuthService) RegisterUser(ctx context.Context, request *domain.CreateUserRequest) (*domain.User, error) {
	_, err := s.userRepo.GetByUsername(ctx, request.Username)
	if err == nil {
		return nil, apperrors.ErrUsernameTaken
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.WrapDatabaseError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     request.Username,
		PasswordHash: hash,
		Role:         request.Role,
	}

	var regionIDs []uuid.UUID
	if user.Role == domain.UserRoleCollector && request.RegionID != nil {
		regionIDs = append(regionIDs, *request.RegionID)
	}

	if err = s.userRepo.CreateWithRegions(ctx, user, regionIDs); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("user registered", "username", user.Username, "role", user.Role)
	return user, nil
}

// ListUsers returns all operator accounts.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return users, nil
}

// ListCollectors returns the collector accounts only.
func (s *AuthService) ListCollectors(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.ListByRole(ctx, domain.UserRoleCollector)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return users, nil
}

// DeleteCollector removes a collector account. Admins cannot be deleted.
func (s *AuthService) DeleteCollector(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role != domain.UserRoleCollector {
		return apperrors.ErrProtectedUser
	}

	if err = s.userRepo.Delete(ctx, id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("collector deleted", "user_id", id)
	return nil
}
