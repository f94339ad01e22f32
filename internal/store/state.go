package store

import "github.com/fanvault/fanvault-be/internal/models"

// State is the full persistable document: every collection the system owns,
// in insertion order. The snapshot store reads and writes it as a whole.
type State struct {
	Users         []models.User           `json:"users"`
	Creators      []models.CreatorProfile `json:"creators"`
	Posts         []models.Post           `json:"posts"`
	Transactions  []models.Transaction    `json:"transactions"`
	Subscriptions []models.Subscription   `json:"subscriptions"`
	UnlockedPosts []models.UnlockRecord   `json:"unlockedPosts"`
	Messages      []models.Message        `json:"messages"`
}
