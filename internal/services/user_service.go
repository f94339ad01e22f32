package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/store"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	VerifyEmail(token string) (models.User, error)
	GetUserByID(id int64) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	store *store.Store
	now   func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st, now: time.Now}
}

// Register creates a new fan account, hashing the password and issuing an
// email verification token.
func (s *UserService) Register(username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return models.User{}, apperrors.Validation("username is required")
	}
	if !strings.Contains(email, "@") {
		return models.User{}, apperrors.Validation("a valid email is required")
	}
	if len(password) < 8 {
		return models.User{}, apperrors.Validation("password must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.store.CreateUser(models.User{
		Username:          username,
		Email:             email,
		PasswordHash:      string(hashedPassword),
		Role:              models.RoleFan,
		VerificationToken: uuid.New().String(),
		CreatedAt:         s.now(),
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies a user's credentials.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.store.UserByEmail(email)
	if err != nil {
		return models.User{}, apperrors.Auth("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperrors.Auth("invalid credentials")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// VerifyEmail consumes a verification token and flips emailVerified. The
// flip is one-way; an unknown or already-consumed token is a not-found.
func (s *UserService) VerifyEmail(token string) (models.User, error) {
	user, err := s.store.MarkEmailVerified(token)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	user, err := s.store.UserByID(id)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}
