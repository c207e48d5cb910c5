package transport

import (
	"errors"
	"net/http"
	"time"

	"shopcore/internal/middleware"
	"shopcore/internal/repository"
	"shopcore/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone" validate:"required"`
	IsActive  *bool  `json:"is_active,omitempty"`
	IsAdmin   *bool  `json:"is_admin,omitempty"`
}

// UserResponse represents a stored user without credentials
type UserResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.Register)
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		IsActive:  req.IsActive,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
			return
		}

		h.logger.Error("Registration failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.logger.Info("User registered", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		IsActive:  user.IsActive,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	})
}
