package redis

import "detailing-bot/internal/estimator"

// Session is what a chat has picked so far and where its estimate is shown.
type Session struct {
	Selection estimator.Selection `json:"selection"`
	// MessageID is the Telegram message carrying the live estimate.
	MessageID int `json:"message_id,omitempty"`
}
