// FILE: internal/service/retrieval_service.go
// PURPOSE: Bridge the agent's retrieval contract onto the pgvector chunk index

package service

import (
	"context"

	"agentic-rag-be/internal/repository/unitofwork"
	"agentic-rag-be/pkg/agent/retrieve"
	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/embedding"

	"github.com/google/uuid"
)

// RetrievalService embeds a query and runs cosine search over the caller's
// document chunks. The pipeline only ever sees tagged RetrievedDocuments.
type RetrievalService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) *RetrievalService {
	return &RetrievalService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

// ForUser scopes the searcher to one user's documents.
func (s *RetrievalService) ForUser(userId uuid.UUID) retrieve.Searcher {
	return &userSearcher{service: s, userId: userId}
}

type userSearcher struct {
	service *RetrievalService
	userId  uuid.UUID
}

func (u *userSearcher) Search(ctx context.Context, query string, k int) ([]state.RetrievedDocument, error) {
	queryEmbedding, err := u.service.embeddingProvider.Embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	uow := u.service.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, queryEmbedding, k, u.userId)
	if err != nil {
		return nil, err
	}

	docs := make([]state.RetrievedDocument, len(scored))
	for i, s := range scored {
		docs[i] = state.RetrievedDocument{
			Content:  s.Chunk.Content,
			SourceID: s.Chunk.DocumentId.String(),
			Source:   state.SourceLocal,
		}
	}
	return docs, nil
}
