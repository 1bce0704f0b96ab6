package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"expo/infras/otel"
	"expo/infras/postgres"
	"expo/internal/domains/exhibition/model"
	gDto "expo/shared/dto"
	gRepo "expo/shared/repository"
)

type Exhibition interface {
	Insert(ctx context.Context, model model.Exhibition) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Exhibition, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Exhibition, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Exhibition]
}

func New(db *postgres.Connection, otel otel.Otel) Exhibition {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Exhibition](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
