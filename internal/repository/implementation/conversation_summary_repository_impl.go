package implementation

import (
	"context"
	"errors"

	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/mapper"
	"agentic-rag-be/internal/model"
	"agentic-rag-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationSummaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewConversationSummaryRepository(db *gorm.DB) contract.ConversationSummaryRepository {
	return &ConversationSummaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ConversationSummaryRepositoryImpl) Create(ctx context.Context, summary *entity.ConversationSummary) error {
	m := r.mapper.SummaryToModel(summary)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*summary = *r.mapper.SummaryToEntity(m)
	return nil
}

func (r *ConversationSummaryRepositoryImpl) Update(ctx context.Context, summary *entity.ConversationSummary) error {
	m := r.mapper.SummaryToModel(summary)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*summary = *r.mapper.SummaryToEntity(m)
	return nil
}

func (r *ConversationSummaryRepositoryImpl) FindByConversationId(ctx context.Context, conversationId uuid.UUID) (*entity.ConversationSummary, error) {
	var m model.ConversationSummary
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SummaryToEntity(&m), nil
}

func (r *ConversationSummaryRepositoryImpl) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).Delete(&model.ConversationSummary{}).Error
}
