package contract

import (
	"context"

	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentChunk pairs a chunk with its cosine similarity to a query vector.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore runs a pgvector cosine search over the user's chunks,
	// returning up to limit results ordered by descending similarity.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*ScoredDocumentChunk, error)
}
