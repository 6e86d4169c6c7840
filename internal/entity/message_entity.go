package entity

import (
	"time"

	"github.com/google/uuid"
)

// MessageProvenance records how an assistant message was produced.
// Stored as a JSONB column; nil for user messages.
type MessageProvenance struct {
	DocumentsUsed  []string `json:"documents_used,omitempty"`
	DocumentsCount int      `json:"documents_count"`
	UsedWebSearch  bool     `json:"used_web_search"`
}

type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           string
	Content        string
	RouteTaken     *string
	Provenance     *MessageProvenance
	CreatedAt      time.Time
}
