package service

import (
	"context"
	"fmt"
	"time"

	"shopcore/internal/domain"
	"shopcore/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// RegisterUserInput carries the fields for user registration
type RegisterUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	IsActive  *bool
	IsAdmin   *bool
}

// UserService defines the interface for user business logic
type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register creates a new user account. The plaintext password is hashed with
// bcrypt and discarded; only the hash is persisted.
func (s *userService) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	isAdmin := false
	if input.IsAdmin != nil {
		isAdmin = *input.IsAdmin
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hashedPassword),
		IsActive:     isActive,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}
