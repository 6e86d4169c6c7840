package dto

import (
	"github.com/google/uuid"
)

type AskRequest struct {
	Question       string     `json:"question" validate:"required"`
	ConversationId *uuid.UUID `json:"conversation_id"`
}

// ProcessingInfo mirrors what the pipeline reports about one run.
type ProcessingInfo struct {
	UseWebSearch   bool `json:"use_web_search"`
	DocumentsCount int  `json:"documents_count"`
	ContextUsed    bool `json:"context_used"`
}

type AskResponse struct {
	Question       string         `json:"question"`
	Answer         string         `json:"answer"`
	RouteTaken     string         `json:"route_taken"`
	DocumentsUsed  []string       `json:"documents_used"` // truncated previews, null when empty
	ConversationId uuid.UUID      `json:"conversation_id"`
	ProcessingInfo ProcessingInfo `json:"processing_info"`
}
