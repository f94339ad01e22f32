package models

import "time"

// Visibility controls how a post is gated, independently of the owning
// creator's account type.
type Visibility string

const (
	VisibilityFree Visibility = "free"
	VisibilityPPV  Visibility = "ppv"
)

// Post represents a piece of published content.
type Post struct {
	ID          int64      `json:"id"`
	CreatorID   int64      `json:"creatorId"`
	Username    string     `json:"username"` // owning creator's username
	Title       string     `json:"title"`
	Visibility  Visibility `json:"visibility"`
	// One-time unlock price. Required positive for ppv posts.
	Price       *float64  `json:"price,omitempty"`
	Description string    `json:"description"`
	Media       string    `json:"media,omitempty"` // blob store handle
	CreatedAt   time.Time `json:"createdAt"`
	Likes       int       `json:"likes"`
	LikedBy     []string  `json:"likedBy"` // canonical fan usernames
}
