package services

import (
	"strings"
	"time"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/store"
)

// CreatorServiceProvider defines the interface for creator profile services.
type CreatorServiceProvider interface {
	CreateProfile(displayName, username, email string, accountType models.AccountType, price *float64, artifacts []string) (models.CreatorProfile, error)
	GetByUsername(username string) (models.CreatorProfile, error)
}

// CreatorService provides business logic for creator onboarding.
type CreatorService struct {
	store *store.Store
	now   func() time.Time
}

// NewCreatorService creates a new CreatorService.
func NewCreatorService(st *store.Store) *CreatorService {
	return &CreatorService{store: st, now: time.Now}
}

// CreateProfile registers a creator page. As a side effect the user account
// with a matching email is upgraded from fan to creator; accounts never
// downgrade.
func (s *CreatorService) CreateProfile(displayName, username, email string, accountType models.AccountType, price *float64, artifacts []string) (models.CreatorProfile, error) {
	displayName = strings.TrimSpace(displayName)
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if displayName == "" {
		return models.CreatorProfile{}, apperrors.Validation("display name is required")
	}
	if username == "" {
		return models.CreatorProfile{}, apperrors.Validation("username is required")
	}

	switch accountType {
	case models.AccountTypeFree:
		price = nil
	case models.AccountTypeSubscription:
		if price == nil || *price <= 0 {
			return models.CreatorProfile{}, apperrors.Validation("a subscription account requires a positive price")
		}
	default:
		return models.CreatorProfile{}, apperrors.Validation("unknown account type %q", accountType)
	}

	profile, err := s.store.CreateCreator(models.CreatorProfile{
		DisplayName:           displayName,
		Username:              username,
		Email:                 email,
		AccountType:           accountType,
		Price:                 price,
		VerificationArtifacts: artifacts,
		Status:                models.CreatorStatusPending,
		CreatedAt:             s.now(),
	})
	if err != nil {
		return models.CreatorProfile{}, err
	}

	s.store.PromoteToCreator(email)
	return profile, nil
}

// GetByUsername retrieves a creator profile, matching case-insensitively.
func (s *CreatorService) GetByUsername(username string) (models.CreatorProfile, error) {
	return s.store.CreatorByName(username)
}
