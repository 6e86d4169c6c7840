// FILE: internal/service/conversation_service.go
package service

import (
	"context"
	"log"
	"time"

	"agentic-rag-be/internal/dto"
	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/repository/specification"
	"agentic-rag-be/internal/repository/unitofwork"
	"agentic-rag-be/pkg/events"
	pktNats "agentic-rag-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	conversationListLimit = 50
	messageListLimit      = 100
)

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error)
	GetMessages(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.ConversationMessagesResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) error
}

type conversationService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
) IConversationService {
	return &conversationService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (c *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		CreatedAt: time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}

	if c.eventPublisher != nil {
		evt := events.NewConversationCreated(userId.String(), conversation.Id.String())
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] failed to publish conversation created event: %v", err)
		}
	}

	return toConversationResponse(conversation), nil
}

func (c *conversationService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: conversationListLimit},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ConversationResponse, len(conversations))
	for i, conversation := range conversations {
		responses[i] = toConversationResponse(conversation)
	}
	return responses, nil
}

func (c *conversationService) GetMessages(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.ConversationMessagesResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	conversation, err := c.findOwned(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: messageListLimit},
	)
	if err != nil {
		return nil, err
	}

	messageResponses := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		messageResponses[i] = dto.MessageResponse{
			Id:         msg.Id,
			Role:       msg.Role,
			Content:    msg.Content,
			RouteTaken: msg.RouteTaken,
			CreatedAt:  msg.CreatedAt,
		}
	}

	return &dto.ConversationMessagesResponse{
		Conversation: *toConversationResponse(conversation),
		Messages:     messageResponses,
	}, nil
}

func (c *conversationService) Delete(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if _, err := c.findOwned(ctx, uow, userId, conversationId); err != nil {
		return err
	}

	if err := uow.ConversationRepository().Delete(ctx, conversationId); err != nil {
		return err
	}

	if c.eventPublisher != nil {
		evt := events.NewConversationDeleted(userId.String(), conversationId.String())
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] failed to publish conversation deleted event: %v", err)
		}
	}
	return nil
}

func (c *conversationService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
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

func toConversationResponse(conversation *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		Id:        conversation.Id,
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}
