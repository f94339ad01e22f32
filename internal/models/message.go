package models

import "time"

// Message is a note a fan leaves for a creator.
type Message struct {
	ID              int64     `json:"id"`
	CreatorUsername string    `json:"creatorUsername"`
	FanUsername     string    `json:"fanUsername"`
	FanEmail        string    `json:"fanEmail,omitempty"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"createdAt"`
}
