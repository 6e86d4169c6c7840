package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversationSummary holds at most one row per conversation (uniqueIndex).
type ConversationSummary struct {
	Id                      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SummaryText             string    `gorm:"type:text;not null"`
	MessagesSummarizedCount int       `gorm:"not null;default:0"`
	CreatedAt               time.Time `gorm:"autoCreateTime"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime"`
}

func (ConversationSummary) TableName() string {
	return "conversation_summaries"
}
