package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/identity"
	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/store"
)

const (
	tipMessageLimit = 500
	// Tips alone tolerate anonymity; unlocks and subscriptions would
	// corrupt the ledger without a real fan identity.
	anonymousFan = "anonymous"
)

// UnlockResult is the outcome of a ppv unlock. Transaction is nil when the
// post was already unlocked.
type UnlockResult struct {
	AlreadyUnlocked bool                `json:"alreadyUnlocked,omitempty"`
	UnlockedPostID  int64               `json:"unlockedPostId"`
	Transaction     *models.Transaction `json:"transaction,omitempty"`
}

// SubscribeResult is the outcome of a subscribe call. Transaction is nil
// when an active subscription already covered the window.
type SubscribeResult struct {
	AlreadySubscribed bool                `json:"alreadySubscribed,omitempty"`
	Subscription      models.Subscription `json:"subscription"`
	Transaction       *models.Transaction `json:"transaction,omitempty"`
}

// MonetizeServiceProvider defines the interface for the three monetizable
// operations: tips, ppv unlocks and subscriptions.
type MonetizeServiceProvider interface {
	Tip(viewer identity.Viewer, creatorUsername, amount, message string, postID *int64) (models.Transaction, error)
	Unlock(viewer identity.Viewer, creatorUsername string, postID int64) (UnlockResult, error)
	Subscribe(viewer identity.Viewer, creatorUsername string) (SubscribeResult, error)
}

// MonetizeService validates monetization requests and appends them to the
// ledger. Idempotency for unlocks and subscriptions lives in the store so it
// holds under concurrent requests.
type MonetizeService struct {
	store *store.Store
	now   func() time.Time
}

// NewMonetizeService creates a new MonetizeService.
func NewMonetizeService(st *store.Store) *MonetizeService {
	return &MonetizeService{store: st, now: time.Now}
}

// Tip appends a tip transaction. Tips are never deduplicated: every call is
// a new tip. The message is truncated to 500 characters.
func (s *MonetizeService) Tip(viewer identity.Viewer, creatorUsername, amount, message string, postID *int64) (models.Transaction, error) {
	creator, err := s.store.CreatorByName(creatorUsername)
	if err != nil {
		return models.Transaction{}, err
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return models.Transaction{}, apperrors.Validation("tip amount must be a positive number")
	}

	fan := viewer.Username
	if fan == "" {
		fan = anonymousFan
	}
	if runes := []rune(message); len(runes) > tipMessageLimit {
		message = string(runes[:tipMessageLimit])
	}

	tx := s.store.AppendTransaction(models.Transaction{
		Type:            models.TransactionTip,
		CreatorUsername: creator.Username,
		FanUsername:     fan,
		FanEmail:        viewer.Email,
		Amount:          value,
		PostID:          postID,
		Message:         message,
		CreatedAt:       s.now(),
	})
	return tx, nil
}

// Unlock purchases a one-time unlock for a ppv post. Repeating the call for
// the same (creator, fan, post) is a success with AlreadyUnlocked set and
// appends nothing.
func (s *MonetizeService) Unlock(viewer identity.Viewer, creatorUsername string, postID int64) (UnlockResult, error) {
	if !viewer.HasFanIdentity() {
		return UnlockResult{}, apperrors.Validation("a fan identity is required to unlock a post")
	}

	creator, err := s.store.CreatorByName(creatorUsername)
	if err != nil {
		return UnlockResult{}, err
	}
	post, err := s.store.PostByID(postID)
	if err != nil {
		return UnlockResult{}, err
	}
	if identity.Canonical(post.Username) != identity.Canonical(creator.Username) {
		return UnlockResult{}, apperrors.NotFound("post %d not found for creator %s", postID, creatorUsername)
	}
	if post.Visibility != models.VisibilityPPV {
		return UnlockResult{}, apperrors.Validation("post %d is not pay-per-view", postID)
	}
	if post.Price == nil || *post.Price <= 0 {
		return UnlockResult{}, apperrors.Validation("post %d has no unlock price", postID)
	}

	_, tx, created := s.store.UnlockIfNew(creator.Username, viewer.Username, viewer.Email, postID, *post.Price, s.now())
	return UnlockResult{
		AlreadyUnlocked: !created,
		UnlockedPostID:  postID,
		Transaction:     tx,
	}, nil
}

// Subscribe starts a 30-day subscription to a subscription-tier creator.
// While an active subscription exists the call is a success with
// AlreadySubscribed set, referencing the existing record. After expiry a new
// independent subscription row is created; old rows are kept for history.
func (s *MonetizeService) Subscribe(viewer identity.Viewer, creatorUsername string) (SubscribeResult, error) {
	if !viewer.HasFanIdentity() {
		return SubscribeResult{}, apperrors.Validation("a fan identity is required to subscribe")
	}

	creator, err := s.store.CreatorByName(creatorUsername)
	if err != nil {
		return SubscribeResult{}, err
	}
	if creator.AccountType != models.AccountTypeSubscription || creator.Price == nil || *creator.Price <= 0 {
		return SubscribeResult{}, apperrors.Validation("creator %s does not offer subscriptions", creatorUsername)
	}

	sub, tx, created := s.store.SubscribeIfNone(creator.Username, viewer.Username, viewer.Email, *creator.Price, s.now())
	return SubscribeResult{
		AlreadySubscribed: !created,
		Subscription:      sub,
		Transaction:       tx,
	}, nil
}
