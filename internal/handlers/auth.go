package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tanim0x/snapnest/backend/internal/models"
	"github.com/tanim0x/snapnest/backend/internal/repositories"
	"github.com/tanim0x/snapnest/backend/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userRepository repositories.UserRepository
	store          *storage.LocalStore
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, store *storage.LocalStore) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		store:          store,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	e.POST("/register", h.Register)
	e.POST("/login", h.Login)
}

// Register creates a new account from a multipart form with an optional
// profile photo.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Pre-check for a friendlier message; the unique indexes catch the
	// race where two identical registrations both get here.
	_, err := h.userRepository.FindByUsernameOrEmail(c.Request().Context(), req.Username, req.Email)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Username or email already taken")
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var photo string
	if fh, err := c.FormFile("profilePhoto"); err == nil {
		photo, err = h.store.Save(fh, "profilePhoto")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Password:     string(hash),
		ProfilePhoto: photo,
	}

	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		// Don't leave the photo orphaned when the insert fails.
		if photo != "" {
			h.store.Remove(photo)
		}
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return echo.NewHTTPError(http.StatusConflict, "Username or email already taken")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

// Login checks the password against the stored hash. Unknown username
// and wrong password return the same message so the response does not
// reveal which usernames exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, user)
}
