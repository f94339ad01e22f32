package identity

import (
	"strings"

	"github.com/fanvault/fanvault-be/internal/auth"
)

// Canonical returns the comparison form of a username: trimmed and
// lowercased. Every username equality check in the system goes through
// this, or entitlement and unlock lookups silently miss.
func Canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Viewer is the resolved identity of a request.
type Viewer struct {
	UserID        int64
	Username      string // canonical
	Email         string
	Authenticated bool
}

// Resolve produces the viewer identity for a request. Verified claims always
// win; claimed fields are unverified hints used only when no token resolved.
func Resolve(claims *auth.Claims, claimedUsername, claimedEmail string) Viewer {
	if claims != nil {
		return Viewer{
			UserID:        claims.UserID,
			Username:      Canonical(claims.Username),
			Email:         strings.TrimSpace(claims.Email),
			Authenticated: true,
		}
	}
	return Viewer{
		Username: Canonical(claimedUsername),
		Email:    strings.TrimSpace(claimedEmail),
	}
}

// HasFanIdentity reports whether the viewer can act as a fan in the ledger.
func (v Viewer) HasFanIdentity() bool {
	return v.Username != ""
}

// Owns reports whether the viewer is the authenticated owner of the given
// creator username. Claimed usernames never confer ownership.
func (v Viewer) Owns(creatorUsername string) bool {
	return v.Authenticated && v.Username == Canonical(creatorUsername)
}
