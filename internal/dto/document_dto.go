package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type IngestDocumentsRequest struct {
	Documents []IngestDocumentRequest `json:"documents" validate:"required,min=1,dive"`
}

// IngestDocumentsResponse carries the upload statistics.
type IngestDocumentsResponse struct {
	DocumentsAdded          int `json:"documents_added"`
	DuplicatesFiltered      int `json:"duplicates_filtered"`
	TotalDocumentsProcessed int `json:"total_documents_processed"`
	TotalDocumentsInSystem  int `json:"total_documents_in_system"`
}

type DocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type SystemStatsResponse struct {
	TotalDocuments int    `json:"total_documents"`
	TotalChunks    int    `json:"total_chunks"`
	EmbeddingModel string `json:"embedding_model"`
	ChunkSize      int    `json:"chunk_size"`
	ChunkOverlap   int    `json:"chunk_overlap"`
	RetrieverTopK  int    `json:"retriever_top_k"`
}

// EmbedChunksMessage is the watermill payload queuing a document's chunks for
// embedding.
type EmbedChunksMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
