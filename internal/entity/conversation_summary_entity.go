package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversationSummary is the single rolling summary of a conversation.
// SummaryText is append-only; MessagesSummarizedCount never decreases.
type ConversationSummary struct {
	Id                      uuid.UUID
	ConversationId          uuid.UUID
	SummaryText             string
	MessagesSummarizedCount int
	CreatedAt               time.Time
	UpdatedAt               *time.Time
}
