package service

import (
	"context"
	"errors"

	"github.com/hazique/iotstore-backend/config"
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"github.com/hazique/iotstore-backend/pkg/redis"
	"github.com/hazique/iotstore-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// DefaultUserPageSize is the admin user listing page size.
const DefaultUserPageSize = 10

type UserListResult struct {
	Users      []model.User `json:"users"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

type AuthService interface {
	Register(username, email, password string) (*model.User, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	RefreshToken(refreshToken string) (*util.TokenPair, error)
	GetUserByID(userID uint) (*model.User, error)
	ListUsers(page int) (*UserListResult, error)
	UpdateUserRole(userID uint, role model.UserRole) (*model.User, error)
	DeleteUser(userID uint) error
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) Register(username, email, password string) (*model.User, error) {
	logger.Info("Registering new user", map[string]interface{}{
		"email": email,
	})

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password during registration", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user during registration", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("User login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.cfg.Secret,
		s.cfg.AccessTokenExpiry,
		s.cfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens during login", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

// Logout blacklists the presented access token until its natural expiry.
func (s *authService) Logout(ctx context.Context, token string) error {
	logger.Info("User logout", nil)

	if err := redis.BlacklistToken(ctx, token, s.cfg.AccessTokenExpiry); err != nil {
		logger.Error("Failed to blacklist token during logout", err, nil)
		return err
	}

	return nil
}

func (s *authService) RefreshToken(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.cfg.Secret)
	if err != nil {
		logger.Warn("Refresh token validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	// Make sure the user still exists before re-issuing tokens
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.cfg.Secret,
		s.cfg.AccessTokenExpiry,
		s.cfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens during refresh", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("Tokens refreshed successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

func (s *authService) GetUserByID(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers pages through all accounts for the admin dashboard.
func (s *authService) ListUsers(page int) (*UserListResult, error) {
	if page < 1 {
		page = 1
	}

	users, total, err := s.userRepo.FindAll(page, DefaultUserPageSize)
	if err != nil {
		logger.Error("Failed to list users", err, map[string]interface{}{
			"page": page,
		})
		return nil, err
	}

	totalPages := int((total + DefaultUserPageSize - 1) / DefaultUserPageSize)

	return &UserListResult{
		Users:      users,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *authService) UpdateUserRole(userID uint, role model.UserRole) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user role", err, map[string]interface{}{
			"user_id": userID,
			"role":    role,
		})
		return nil, err
	}

	logger.Info("User role updated", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	return user, nil
}

func (s *authService) DeleteUser(userID uint) error {
	logger.Info("Deleting user account", map[string]interface{}{
		"user_id": userID,
	})

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.userRepo.Delete(userID)
}
