// FILE: internal/service/document_service.go
// PURPOSE: Document ingestion with content-hash dedup and async embedding

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	"agentic-rag-be/internal/constant"
	"agentic-rag-be/internal/dto"
	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/repository/specification"
	"agentic-rag-be/internal/repository/unitofwork"
	"agentic-rag-be/pkg/agent/retrieve"
	"agentic-rag-be/pkg/events"
	pktNats "agentic-rag-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentService interface {
	Ingest(ctx context.Context, userId uuid.UUID, req *dto.IngestDocumentsRequest) (*dto.IngestDocumentsResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error
	GetSystemStats(ctx context.Context) (*dto.SystemStatsResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	embeddingModel   string

	// seenHashes is the dedup set, owned by this instance and seeded from
	// the database at construction.
	mu         sync.Mutex
	seenHashes map[string]struct{}
}

func NewDocumentService(
	ctx context.Context,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	embeddingModel string,
) (IDocumentService, error) {
	uow := uowFactory.NewUnitOfWork(ctx)
	hashes, err := uow.DocumentRepository().ListContentHashes(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		seen[h] = struct{}{}
	}

	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		embeddingModel:   embeddingModel,
		seenHashes:       seen,
	}, nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// markSeen records the hash, reporting whether it was already present.
func (d *documentService) markSeen(hash string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.seenHashes[hash]; dup {
		return true
	}
	d.seenHashes[hash] = struct{}{}
	return false
}

func (d *documentService) forget(hash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seenHashes, hash)
}

func (d *documentService) Ingest(ctx context.Context, userId uuid.UUID, req *dto.IngestDocumentsRequest) (*dto.IngestDocumentsResponse, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)

	added := 0
	duplicates := 0

	for _, docReq := range req.Documents {
		hash := contentHash(docReq.Content)
		if d.markSeen(hash) {
			duplicates++
			continue
		}

		document := &entity.Document{
			Id:          uuid.New(),
			UserId:      userId,
			Title:       docReq.Title,
			Content:     docReq.Content,
			ContentHash: hash,
			CreatedAt:   time.Now(),
		}
		if err := uow.DocumentRepository().Create(ctx, document); err != nil {
			d.forget(hash)
			return nil, err
		}

		payload, err := json.Marshal(dto.EmbedChunksMessage{DocumentId: document.Id})
		if err != nil {
			return nil, err
		}
		if err := d.publisherService.Publish(ctx, payload); err != nil {
			return nil, err
		}

		if d.eventPublisher != nil {
			evt := events.NewDocumentIngested(userId.String(), document.Id.String())
			if err := d.eventPublisher.Publish(ctx, evt); err != nil {
				log.Printf("[WARN] failed to publish document ingested event: %v", err)
			}
		}

		added++
	}

	total, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.IngestDocumentsResponse{
		DocumentsAdded:          added,
		DuplicatesFiltered:      duplicates,
		TotalDocumentsProcessed: len(req.Documents),
		TotalDocumentsInSystem:  int(total),
	}, nil
}

func (d *documentService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(documents))
	for i, document := range documents {
		responses[i] = &dto.DocumentResponse{
			Id:        document.Id,
			Title:     document.Title,
			CreatedAt: document.CreatedAt,
		}
	}
	return responses, nil
}

func (d *documentService) Delete(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	uow := d.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return fiber.NewError(fiber.StatusNotFound, "document not found")
	}

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, documentId); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, documentId); err != nil {
		return err
	}

	d.forget(document.ContentHash)

	if d.eventPublisher != nil {
		evt := events.NewDocumentDeleted(userId.String(), documentId.String())
		if err := d.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] failed to publish document deleted event: %v", err)
		}
	}
	return nil
}

func (d *documentService) GetSystemStats(ctx context.Context) (*dto.SystemStatsResponse, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)

	totalDocuments, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	totalChunks, err := uow.DocumentChunkRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.SystemStatsResponse{
		TotalDocuments: int(totalDocuments),
		TotalChunks:    int(totalChunks),
		EmbeddingModel: d.embeddingModel,
		ChunkSize:      constant.ChunkSize,
		ChunkOverlap:   constant.ChunkOverlap,
		RetrieverTopK:  retrieve.TopK,
	}, nil
}
