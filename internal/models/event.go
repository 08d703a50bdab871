package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageEvent describes one durably persisted outgoing message. The
// engine applies each MessageID at most once per user; redelivery of the
// same ID is a no-op.
type MessageEvent struct {
	MessageID             string     `json:"message_id" binding:"required"`
	Timestamp             time.Time  `json:"timestamp" binding:"required"`
	Intent                string     `json:"intent,omitempty"`
	Tone                  string     `json:"tone,omitempty"`
	RecipientRelationship string     `json:"recipient_relationship,omitempty"`
	RecipientID           *uuid.UUID `json:"recipient_id,omitempty"`
	AppliedToChallenge    bool       `json:"applied_to_challenge"`
}
