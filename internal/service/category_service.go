package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// CategoryService exposes category operations.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, category *model.Category) (*model.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService builds a CategoryService.
func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, category *model.Category) (*model.Category, error) {
	existing, err := s.categories.FindByName(ctx, category.Name)
	if err == nil && existing != nil {
		return nil, apperrors.ErrCategoryExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
