// Package entitlement decides whether a post's content is visible to a
// viewer. Everything here is a pure function over a ledger snapshot; the
// store is never consulted directly.
package entitlement

import (
	"time"

	"github.com/fanvault/fanvault-be/internal/identity"
	"github.com/fanvault/fanvault-be/internal/models"
)

// PostView is the post projection returned to callers. When Locked is true
// the media handle and description are redacted; title, price, visibility
// and likes stay visible so the post can be advertised.
type PostView struct {
	ID          int64             `json:"id"`
	CreatorID   int64             `json:"creatorId"`
	Username    string            `json:"username"`
	Title       string            `json:"title"`
	Visibility  models.Visibility `json:"visibility"`
	Price       *float64          `json:"price,omitempty"`
	Description string            `json:"description"`
	Media       string            `json:"media,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	Likes       int               `json:"likes"`
	LikedByMe   bool              `json:"likedByMe"`
	Locked      bool              `json:"locked"`
}

// Locked reports whether the post must be redacted for the viewer.
//
// Gates, in order: owner bypass (authenticated creator viewing their own
// post, short-circuits everything), the subscription gate for non-free posts
// of subscription-tier creators, and the ppv gate. The ppv gate is
// independent of the subscription gate: a subscriber must still unlock a ppv
// post. A viewer with no fan identity fails any gate that needs one.
func Locked(viewer identity.Viewer, creator models.CreatorProfile, post models.Post, subs []models.Subscription, unlocks []models.UnlockRecord, now time.Time) bool {
	if viewer.Owns(post.Username) {
		return false
	}

	locked := false
	if creator.AccountType == models.AccountTypeSubscription && post.Visibility != models.VisibilityFree {
		if !hasActiveSubscription(subs, creator.Username, viewer, now) {
			locked = true
		}
	}
	if post.Visibility == models.VisibilityPPV {
		if !hasUnlock(unlocks, creator.Username, viewer, post.ID) {
			locked = true
		}
	}
	return locked
}

// Project builds the viewer-facing projection of a post, applying redaction
// when the entitlement computation says it is locked.
func Project(viewer identity.Viewer, creator models.CreatorProfile, post models.Post, subs []models.Subscription, unlocks []models.UnlockRecord, now time.Time) PostView {
	view := PostView{
		ID:          post.ID,
		CreatorID:   post.CreatorID,
		Username:    post.Username,
		Title:       post.Title,
		Visibility:  post.Visibility,
		Price:       post.Price,
		Description: post.Description,
		Media:       post.Media,
		CreatedAt:   post.CreatedAt,
		Likes:       post.Likes,
		Locked:      Locked(viewer, creator, post, subs, unlocks, now),
	}
	if view.Locked {
		view.Media = ""
		view.Description = ""
	}
	if viewer.HasFanIdentity() {
		for _, name := range post.LikedBy {
			if name == viewer.Username {
				view.LikedByMe = true
				break
			}
		}
	}
	return view
}

func hasActiveSubscription(subs []models.Subscription, creatorUsername string, viewer identity.Viewer, now time.Time) bool {
	if !viewer.HasFanIdentity() {
		return false
	}
	creatorKey := identity.Canonical(creatorUsername)
	for _, sub := range subs {
		if identity.Canonical(sub.CreatorUsername) != creatorKey ||
			identity.Canonical(sub.FanUsername) != viewer.Username {
			continue
		}
		if sub.Status != models.SubscriptionActive {
			continue
		}
		if sub.ExpiresAt == nil || sub.ExpiresAt.After(now) {
			return true
		}
	}
	return false
}

func hasUnlock(unlocks []models.UnlockRecord, creatorUsername string, viewer identity.Viewer, postID int64) bool {
	if !viewer.HasFanIdentity() {
		return false
	}
	creatorKey := identity.Canonical(creatorUsername)
	for _, rec := range unlocks {
		if rec.PostID == postID &&
			identity.Canonical(rec.CreatorUsername) == creatorKey &&
			identity.Canonical(rec.FanUsername) == viewer.Username {
			return true
		}
	}
	return false
}
