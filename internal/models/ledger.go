package models

import "time"

// SubscriptionStatus never changes after creation; expiry is derived from
// ExpiresAt at read time.
type SubscriptionStatus string

const SubscriptionActive SubscriptionStatus = "active"

// Subscription records a fan subscribing to a creator for a fixed window.
// Immutable: a lapsed fan who resubscribes gets a brand-new row.
type Subscription struct {
	ID              int64              `json:"id"`
	CreatorUsername string             `json:"creatorUsername"`
	FanUsername     string             `json:"fanUsername"`
	Price           float64            `json:"price"`
	Status          SubscriptionStatus `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
	ExpiresAt       *time.Time         `json:"expiresAt"`
}

// UnlockRecord records a one-time pay-per-view unlock. At most one record
// exists per (creator, fan, post) triple.
type UnlockRecord struct {
	CreatorUsername string    `json:"creatorUsername"`
	FanUsername     string    `json:"fanUsername"`
	PostID          int64     `json:"postId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TransactionType classifies a monetizable event.
type TransactionType string

const (
	TransactionTip          TransactionType = "tip"
	TransactionPPVUnlock    TransactionType = "ppv_unlock"
	TransactionSubscription TransactionType = "subscription"
)

// Transaction is an append-only revenue event. The transaction list is the
// sole source of truth for earnings reporting.
type Transaction struct {
	ID              int64           `json:"id"`
	Type            TransactionType `json:"type"`
	CreatorUsername string          `json:"creatorUsername"`
	FanUsername     string          `json:"fanUsername"`
	FanEmail        string          `json:"fanEmail,omitempty"`
	Amount          float64         `json:"amount"`
	Currency        string          `json:"currency"`
	PostID          *int64          `json:"postId,omitempty"`
	Message         string          `json:"message,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
