package contract

import (
	"context"

	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ListContentHashes returns the hash of every live document, used to seed
	// the ingestion dedup set at startup.
	ListContentHashes(ctx context.Context) ([]string, error)
}
