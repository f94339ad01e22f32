package handlers

import (
	"net/http"

	"github.com/fanvault/fanvault-be/internal/auth"
	"github.com/fanvault/fanvault-be/internal/identity"
)

// resolveViewer builds the request's viewer identity. Verified claims (set
// by the auth middleware) always win over client-supplied hints; the
// fanUsername query parameter is the hint of last resort on read paths.
func resolveViewer(r *http.Request, claimedUsername, claimedEmail string) identity.Viewer {
	if claimedUsername == "" {
		claimedUsername = r.URL.Query().Get("fanUsername")
	}
	return identity.Resolve(auth.ClaimsFromContext(r.Context()), claimedUsername, claimedEmail)
}
