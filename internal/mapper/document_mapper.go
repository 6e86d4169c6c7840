package mapper

import (
	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	d := &model.Document{
		Id:          e.Id,
		UserId:      e.UserId,
		Title:       e.Title,
		Content:     e.Content,
		ContentHash: e.ContentHash,
		CreatedAt:   e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		d.UpdatedAt = *e.UpdatedAt
	}
	if e.DeletedAt != nil {
		d.DeletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
	return d
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	e := &entity.Document{
		Id:          d.Id,
		UserId:      d.UserId,
		Title:       d.Title,
		Content:     d.Content,
		ContentHash: d.ContentHash,
		CreatedAt:   d.CreatedAt,
	}
	if !d.UpdatedAt.IsZero() {
		updatedAt := d.UpdatedAt
		e.UpdatedAt = &updatedAt
	}
	if d.DeletedAt.Valid {
		deletedAt := d.DeletedAt.Time
		e.DeletedAt = &deletedAt
		e.IsDeleted = true
	}
	return e
}

func (m *DocumentMapper) ToEntities(models []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(models))
	for i, d := range models {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func (m *DocumentMapper) ChunkToModel(e *entity.DocumentChunk) *model.DocumentChunk {
	return &model.DocumentChunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		ChunkIndex: e.ChunkIndex,
		Content:    e.Content,
		Embedding:  pgvector.NewVector(e.Embedding),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *DocumentMapper) ChunkToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	return &entity.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}
