package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/identity"
	"github.com/fanvault/fanvault-be/internal/models"
)

func newPostService(f *fixtures) *PostService {
	svc := NewPostService(f.store)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestListForViewerCaseInsensitive(t *testing.T) {
	f := newFixtures(t)
	svc := newPostService(f)

	upper, err := svc.ListForViewer(fan("fan1"), "JaneDoe")
	require.NoError(t, err)
	lower, err := svc.ListForViewer(fan("fan1"), "janedoe")
	require.NoError(t, err)

	assert.Equal(t, upper, lower)
	assert.Len(t, upper, 2)
}

func TestListForViewerRedactsLockedPosts(t *testing.T) {
	f := newFixtures(t)
	svc := newPostService(f)

	views, err := svc.ListForViewer(fan("fan1"), "janedoe")
	require.NoError(t, err)
	require.Len(t, views, 2)

	free, ppv := views[0], views[1]
	assert.False(t, free.Locked)
	assert.Equal(t, "hi", free.Description)

	assert.True(t, ppv.Locked)
	assert.Empty(t, ppv.Description)
	assert.Empty(t, ppv.Media)
	assert.Equal(t, "ppv one", ppv.Title)
	require.NotNil(t, ppv.Price)
	assert.Equal(t, 10.0, *ppv.Price)
}

func TestListForViewerOwnerBypass(t *testing.T) {
	f := newFixtures(t)
	svc := newPostService(f)

	views, err := svc.ListForViewer(authed(1, "JaneDoe"), "janedoe")
	require.NoError(t, err)
	for _, v := range views {
		assert.False(t, v.Locked, "owner should never see a locked post: %+v", v)
	}
}

func TestCreatePostOwnershipAndValidation(t *testing.T) {
	f := newFixtures(t)
	svc := newPostService(f)

	_, err := svc.CreatePost(fan("fan1"), "janedoe", "nope", "", models.VisibilityFree, nil, "")
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))

	_, err = svc.CreatePost(authed(1, "janedoe"), "janedoe", "broken ppv", "", models.VisibilityPPV, nil, "")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	post, err := svc.CreatePost(authed(1, "janedoe"), "JaneDoe", "fresh", "body", models.VisibilityPPV, fptr(12), "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "JaneDoe", post.Username)
	assert.Equal(t, 0, post.Likes)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	f := newFixtures(t)
	svc := newPostService(f)

	liked, err := svc.ToggleLike(fan("Fan1"), "janedoe", f.freePost.ID)
	require.NoError(t, err)
	assert.True(t, liked.LikedByMe)
	assert.Equal(t, 1, liked.Likes)

	unliked, err := svc.ToggleLike(fan("fan1"), "JaneDoe", f.freePost.ID)
	require.NoError(t, err)
	assert.False(t, unliked.LikedByMe)
	assert.Equal(t, 0, unliked.Likes)
}

func TestToggleLikeRequiresFanIdentity(t *testing.T) {
	f := newFixtures(t)
	svc := newPostService(f)

	_, err := svc.ToggleLike(identity.Viewer{}, "janedoe", f.freePost.ID)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestToggleLikeWrongCreator(t *testing.T) {
	f := newFixtures(t)
	svc := newPostService(f)

	_, err := svc.ToggleLike(fan("fan1"), "janedoe", f.subPPV.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
