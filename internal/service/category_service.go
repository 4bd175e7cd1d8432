package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type CategoryService struct {
	categories repository.CategoryRepository
	articles   repository.ArticleRepository
	tags       repository.TagRepository
}

// CategoryDetail is a category with a page of its articles.
type CategoryDetail struct {
	Category *models.Category `json:"category"`
	Articles []models.Article `json:"articles"`
}

func NewCategoryService(categories repository.CategoryRepository, articles repository.ArticleRepository, tags repository.TagRepository) *CategoryService {
	return &CategoryService{categories: categories, articles: articles, tags: tags}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// Tags lists every tag in name order, used or not.
func (s *CategoryService) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *CategoryService) Show(ctx context.Context, id uint, limit, offset int) (*CategoryDetail, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	articles, err := s.articles.ListByCategory(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: category, Articles: articles}, nil
}

func (s *CategoryService) Create(ctx context.Context, actor uint, name string) (*models.Category, error) {
	if err := requireViewer(actor); err != nil {
		return nil, err
	}
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	category := &models.Category{Name: strings.TrimSpace(name)}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, actor, id uint, name string) (*models.Category, error) {
	if err := requireViewer(actor); err != nil {
		return nil, err
	}
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	category := &models.Category{ID: id, Name: strings.TrimSpace(name)}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.categories.GetByID(ctx, id)
}

// Delete refuses with a conflict while articles still use the category.
func (s *CategoryService) Delete(ctx context.Context, actor, id uint) error {
	if err := requireViewer(actor); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}
