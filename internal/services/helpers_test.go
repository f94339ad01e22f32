package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fanvault/fanvault-be/internal/identity"
	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/store"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

// fixtures is the shared test world: one free-tier creator and one
// subscription-tier creator, each with a free and a ppv post.
type fixtures struct {
	store   *store.Store
	freePost, ppvPost     models.Post // owned by JaneDoe (free tier)
	subFreePost, subPPV   models.Post // owned by SubStar (subscription tier)
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	st := store.New(&store.State{}, nil)

	_, err := st.CreateCreator(models.CreatorProfile{
		Username:    "JaneDoe",
		DisplayName: "Jane Doe",
		Email:       "jane@example.com",
		AccountType: models.AccountTypeFree,
	})
	require.NoError(t, err)

	_, err = st.CreateCreator(models.CreatorProfile{
		Username:    "SubStar",
		DisplayName: "Sub Star",
		Email:       "star@example.com",
		AccountType: models.AccountTypeSubscription,
		Price:       fptr(20),
	})
	require.NoError(t, err)

	f := &fixtures{store: st}
	f.freePost, err = st.CreatePost(models.Post{CreatorID: 1, Username: "JaneDoe", Title: "free one", Visibility: models.VisibilityFree, Description: "hi", CreatedAt: testNow})
	require.NoError(t, err)
	f.ppvPost, err = st.CreatePost(models.Post{CreatorID: 1, Username: "JaneDoe", Title: "ppv one", Visibility: models.VisibilityPPV, Price: fptr(10), Description: "secret", Media: "clip.mp4", CreatedAt: testNow})
	require.NoError(t, err)
	f.subFreePost, err = st.CreatePost(models.Post{CreatorID: 2, Username: "SubStar", Title: "teaser", Visibility: models.VisibilityFree, Description: "teaser", CreatedAt: testNow})
	require.NoError(t, err)
	f.subPPV, err = st.CreatePost(models.Post{CreatorID: 2, Username: "SubStar", Title: "premium", Visibility: models.VisibilityPPV, Price: fptr(15), Description: "premium", CreatedAt: testNow})
	require.NoError(t, err)
	return f
}

func fan(username string) identity.Viewer {
	return identity.Viewer{Username: identity.Canonical(username)}
}

func authed(id int64, username string) identity.Viewer {
	return identity.Viewer{UserID: id, Username: identity.Canonical(username), Authenticated: true}
}
