package contract

import (
	"context"

	"agentic-rag-be/internal/entity"

	"github.com/google/uuid"
)

type ConversationSummaryRepository interface {
	Create(ctx context.Context, summary *entity.ConversationSummary) error
	Update(ctx context.Context, summary *entity.ConversationSummary) error
	FindByConversationId(ctx context.Context, conversationId uuid.UUID) (*entity.ConversationSummary, error)
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
}
