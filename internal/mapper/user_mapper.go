package mapper

import (
	"agentic-rag-be/internal/entity"
	"agentic-rag-be/internal/model"

	"gorm.io/gorm"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToModel(e *entity.User) *model.User {
	u := &model.User{
		Id:        e.Id,
		Email:     e.Email,
		FullName:  e.FullName,
		CreatedAt: e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		u.UpdatedAt = *e.UpdatedAt
	}
	if e.DeletedAt != nil {
		u.DeletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
	return u
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	e := &entity.User{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
	if !u.UpdatedAt.IsZero() {
		updatedAt := u.UpdatedAt
		e.UpdatedAt = &updatedAt
	}
	if u.DeletedAt.Valid {
		deletedAt := u.DeletedAt.Time
		e.DeletedAt = &deletedAt
		e.IsDeleted = true
	}
	return e
}
