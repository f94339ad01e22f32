package services

import (
	"time"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/entitlement"
	"github.com/fanvault/fanvault-be/internal/identity"
	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/store"
)

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	PostID    int64 `json:"postId"`
	Likes     int   `json:"likes"`
	LikedByMe bool  `json:"likedByMe"`
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(viewer identity.Viewer, creatorUsername, title, description string, visibility models.Visibility, price *float64, media string) (models.Post, error)
	ListForViewer(viewer identity.Viewer, creatorUsername string) ([]entitlement.PostView, error)
	ToggleLike(viewer identity.Viewer, creatorUsername string, postID int64) (LikeResult, error)
}

// PostService provides business logic for publishing and reading posts.
type PostService struct {
	store *store.Store
	now   func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(st *store.Store) *PostService {
	return &PostService{store: st, now: time.Now}
}

// CreatePost publishes a post on a creator's page. Only the authenticated
// owner may publish.
func (s *PostService) CreatePost(viewer identity.Viewer, creatorUsername, title, description string, visibility models.Visibility, price *float64, media string) (models.Post, error) {
	creator, err := s.store.CreatorByName(creatorUsername)
	if err != nil {
		return models.Post{}, err
	}
	if !viewer.Owns(creator.Username) {
		return models.Post{}, apperrors.Auth("only %s can publish on this page", creator.Username)
	}
	if title == "" {
		return models.Post{}, apperrors.Validation("title is required")
	}

	switch visibility {
	case models.VisibilityFree:
		price = nil
	case models.VisibilityPPV:
		if price == nil || *price <= 0 {
			return models.Post{}, apperrors.Validation("a ppv post requires a positive price")
		}
	default:
		return models.Post{}, apperrors.Validation("unknown visibility %q", visibility)
	}

	return s.store.CreatePost(models.Post{
		CreatorID:   creator.ID,
		Username:    creator.Username,
		Title:       title,
		Visibility:  visibility,
		Price:       price,
		Description: description,
		Media:       media,
		CreatedAt:   s.now(),
	})
}

// ListForViewer returns the creator's posts as projections for the viewer,
// redacted where the entitlement computation locks them.
func (s *PostService) ListForViewer(viewer identity.Viewer, creatorUsername string) ([]entitlement.PostView, error) {
	creator, err := s.store.CreatorByName(creatorUsername)
	if err != nil {
		return nil, err
	}

	posts := s.store.PostsByCreator(creator.Username)
	subs, unlocks := s.store.LedgerFor(creator.Username)
	now := s.now()

	views := make([]entitlement.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, entitlement.Project(viewer, creator, post, subs, unlocks, now))
	}
	return views, nil
}

// ToggleLike flips the viewer's like on a post. Anonymous likes are not
// accepted: a resolvable fan identity is required.
func (s *PostService) ToggleLike(viewer identity.Viewer, creatorUsername string, postID int64) (LikeResult, error) {
	if !viewer.HasFanIdentity() {
		return LikeResult{}, apperrors.Validation("a fan identity is required to like a post")
	}

	creator, err := s.store.CreatorByName(creatorUsername)
	if err != nil {
		return LikeResult{}, err
	}
	post, err := s.store.PostByID(postID)
	if err != nil {
		return LikeResult{}, err
	}
	if identity.Canonical(post.Username) != identity.Canonical(creator.Username) {
		return LikeResult{}, apperrors.NotFound("post %d not found for creator %s", postID, creatorUsername)
	}

	updated, likedNow, err := s.store.ToggleLike(postID, viewer.Username)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{PostID: updated.ID, Likes: updated.Likes, LikedByMe: likedNow}, nil
}
