package models

import "time"

// AccountType is a creator's monetization tier.
type AccountType string

const (
	AccountTypeFree         AccountType = "free"
	AccountTypeSubscription AccountType = "subscription"
)

// Creator profile review states.
const (
	CreatorStatusPending  = "pending"
	CreatorStatusApproved = "approved"
)

// CreatorProfile represents a creator's public page and pricing settings.
type CreatorProfile struct {
	ID          int64       `json:"id"`
	DisplayName string      `json:"displayName"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	AccountType AccountType `json:"accountType"`
	// Monthly subscription price. Set only when AccountType is subscription.
	Price                 *float64  `json:"price,omitempty"`
	VerificationArtifacts []string  `json:"verificationArtifacts,omitempty"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"createdAt"`
}
