package mapper

import (
	"encoding/json"

	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ConversationToModel(e *entity.Conversation) *model.Conversation {
	c := &model.Conversation{
		Id:        e.Id,
		UserId:    e.UserId,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		c.UpdatedAt = *e.UpdatedAt
	}
	if e.DeletedAt != nil {
		c.DeletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
	return c
}

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	e := &entity.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
	if !c.UpdatedAt.IsZero() {
		updatedAt := c.UpdatedAt
		e.UpdatedAt = &updatedAt
	}
	if c.DeletedAt.Valid {
		deletedAt := c.DeletedAt.Time
		e.DeletedAt = &deletedAt
		e.IsDeleted = true
	}
	return e
}

func (m *ChatMapper) MessageToModel(e *entity.Message) *model.Message {
	msg := &model.Message{
		Id:             e.Id,
		ConversationId: e.ConversationId,
		Role:           e.Role,
		Content:        e.Content,
		RouteTaken:     e.RouteTaken,
		CreatedAt:      e.CreatedAt,
	}
	if e.Provenance != nil {
		// Marshal error is impossible for this struct; ignore to keep the mapper total.
		raw, _ := json.Marshal(e.Provenance)
		msg.Provenance = datatypes.JSON(raw)
	}
	return msg
}

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	e := &entity.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		RouteTaken:     msg.RouteTaken,
		CreatedAt:      msg.CreatedAt,
	}
	if len(msg.Provenance) > 0 {
		var p entity.MessageProvenance
		if err := json.Unmarshal(msg.Provenance, &p); err == nil {
			e.Provenance = &p
		}
	}
	return e
}

func (m *ChatMapper) MessagesToEntities(models []*model.Message) []*entity.Message {
	entities := make([]*entity.Message, len(models))
	for i, msg := range models {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}

func (m *ChatMapper) SummaryToModel(e *entity.ConversationSummary) *model.ConversationSummary {
	s := &model.ConversationSummary{
		Id:                      e.Id,
		ConversationId:          e.ConversationId,
		SummaryText:             e.SummaryText,
		MessagesSummarizedCount: e.MessagesSummarizedCount,
		CreatedAt:               e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		s.UpdatedAt = *e.UpdatedAt
	}
	return s
}

func (m *ChatMapper) SummaryToEntity(s *model.ConversationSummary) *entity.ConversationSummary {
	e := &entity.ConversationSummary{
		Id:                      s.Id,
		ConversationId:          s.ConversationId,
		SummaryText:             s.SummaryText,
		MessagesSummarizedCount: s.MessagesSummarizedCount,
		CreatedAt:               s.CreatedAt,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		e.UpdatedAt = &updatedAt
	}
	return e
}
