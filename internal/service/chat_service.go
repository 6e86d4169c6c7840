// FILE: internal/service/chat_service.go
// PURPOSE: Run questions through the answering pipeline with conversation memory

package service

import (
	"context"
	"log"
	"time"

	"agentic-rag-be/internal/constant"
	"agentic-rag-be/internal/dto"
	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/repository/specification"
	"agentic-rag-be/internal/repository/unitofwork"
	"agentic-rag-be/pkg/agent/generate"
	"agentic-rag-be/pkg/agent/grade"
	"agentic-rag-be/pkg/agent/pipeline"
	"agentic-rag-be/pkg/agent/retrieve"
	"agentic-rag-be/pkg/agent/router"
	"agentic-rag-be/pkg/agent/search"
	"agentic-rag-be/pkg/agent/state"
	"agentic-rag-be/pkg/events"
	"agentic-rag-be/pkg/llm"
	"agentic-rag-be/pkg/memory"
	pktNats "agentic-rag-be/pkg/nats"
	"agentic-rag-be/pkg/websearch"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// documentPreviewLen caps the documents_used entries returned to the caller.
const documentPreviewLen = 200

type IChatService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	memoryManager  *memory.Manager
	retrieval      *RetrievalService
	eventPublisher *pktNats.Publisher
	pipelineLogger *log.Logger

	router    *router.Router
	grader    *grade.Grader
	webSearch *search.Node
	generator *generate.Generator
	direct    *generate.DirectAnswerer
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	memoryManager *memory.Manager,
	retrieval *RetrievalService,
	llmProvider llm.LLMProvider,
	webProvider websearch.SearchProvider,
	eventPublisher *pktNats.Publisher,
	pipelineLogger *log.Logger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		memoryManager:  memoryManager,
		retrieval:      retrieval,
		eventPublisher: eventPublisher,
		pipelineLogger: pipelineLogger,
		router:         router.New(llmProvider),
		grader:         grade.New(llmProvider),
		webSearch:      search.New(webProvider),
		generator:      generate.New(llmProvider),
		direct:         generate.NewDirectAnswerer(llmProvider),
	}
}

func (c *chatService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error) {
	conversation, err := c.resolveConversation(ctx, userId, req.ConversationId)
	if err != nil {
		return nil, err
	}

	memCtx, err := c.memoryManager.GetContext(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}

	enhancedQuestion := req.Question
	contextUsed := false
	if memCtx.Summary != "" || len(memCtx.RecentMessages) > 0 {
		enhancedQuestion = c.memoryManager.BuildContextPrompt(memCtx, req.Question)
		contextUsed = true
	}

	// The retrieval node is scoped to the asking user's index
	p := pipeline.New(
		c.router,
		retrieve.New(c.retrieval.ForUser(userId)),
		c.grader,
		c.webSearch,
		c.generator,
		c.direct,
		c.pipelineLogger,
	)

	result, err := p.Run(ctx, enhancedQuestion)
	if err != nil {
		// Failed runs persist nothing
		return nil, err
	}

	if err := c.persistTurn(ctx, conversation.Id, req.Question, result); err != nil {
		return nil, err
	}

	// Best-effort: summarization failure is internal to the manager; a
	// storage error here must not fail an already-answered request.
	if _, err := c.memoryManager.CheckAndSummarizeIfNeeded(ctx, conversation.Id); err != nil {
		c.pipelineLogger.Printf("[CHAT] summarization check failed for conversation %s: %v", conversation.Id, err)
	}

	if c.eventPublisher != nil {
		evt := events.NewQuestionAnswered(
			userId.String(),
			conversation.Id.String(),
			string(result.RouteTaken),
			result.DocumentsCount,
			result.UsedWebSearch,
		)
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.pipelineLogger.Printf("[CHAT] failed to publish answered event: %v", err)
		}
	}

	return &dto.AskResponse{
		Question:       req.Question,
		Answer:         result.Answer,
		RouteTaken:     string(result.RouteTaken),
		DocumentsUsed:  documentPreviews(result.Documents),
		ConversationId: conversation.Id,
		ProcessingInfo: dto.ProcessingInfo{
			UseWebSearch:   result.UsedWebSearch,
			DocumentsCount: result.DocumentsCount,
			ContextUsed:    contextUsed,
		},
	}, nil
}

// resolveConversation loads the named conversation or falls back to the
// user's most recently touched one, creating a fresh default if none exists.
func (c *chatService) resolveConversation(ctx context.Context, userId uuid.UUID, conversationId *uuid.UUID) (*entity.Conversation, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConversationRepository()

	if conversationId != nil {
		conversation, err := repo.FindOne(ctx,
			specification.ByID{ID: *conversationId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "conversation not found")
		}
		return conversation, nil
	}

	existing, err := repo.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultConversationTitle,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// persistTurn writes the user/assistant pair in one transaction. Either both
// messages land or neither does.
func (c *chatService) persistTurn(ctx context.Context, conversationId uuid.UUID, question string, result *pipeline.Result) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	if _, err := c.memoryManager.AddMessage(ctx, uow, conversationId,
		constant.MessageRoleUser, question, nil, nil); err != nil {
		_ = uow.Rollback()
		return err
	}

	routeTaken := string(result.RouteTaken)
	provenance := &entity.MessageProvenance{
		DocumentsUsed:  documentPreviews(result.Documents),
		DocumentsCount: result.DocumentsCount,
		UsedWebSearch:  result.UsedWebSearch,
	}
	if _, err := c.memoryManager.AddMessage(ctx, uow, conversationId,
		constant.MessageRoleAssistant, result.Answer, &routeTaken, provenance); err != nil {
		_ = uow.Rollback()
		return err
	}

	return uow.Commit()
}

func documentPreviews(docs []state.RetrievedDocument) []string {
	if len(docs) == 0 {
		return nil
	}
	previews := make([]string, len(docs))
	for i, doc := range docs {
		previews[i] = truncatePreview(doc.Content)
	}
	return previews
}

func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) > documentPreviewLen {
		return string(runes[:documentPreviewLen]) + "..."
	}
	return content
}
