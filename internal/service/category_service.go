package service

import (
	"context"
	"errors"

	"github.com/Akilucky-rogue/biz-boundless/internal/dto"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"
	"github.com/Akilucky-rogue/biz-boundless/internal/repository"

	"github.com/google/uuid"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return dto.CategoryResponse{}, err
	}
	parentID, err := s.resolveParent(ctx, req.ParentID, uuid.Nil)
	if err != nil {
		return dto.CategoryResponse{}, err
	}

	c := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    parentID,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoryResponse{}, fromRepo(err, "category")
	}
	return categoryResponse(c), nil
}

func (s *categoryService) List(ctx context.Context, includeInactive bool) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		result = append(result, categoryResponse(&list[i]))
	}
	return result, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, fromRepo(err, "category")
	}

	if req.Name != nil && *req.Name != c.Name {
		if err := s.ensureNameFree(ctx, *req.Name, c.ID); err != nil {
			return dto.CategoryResponse{}, err
		}
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.ParentID != nil {
		parentID, err := s.resolveParent(ctx, req.ParentID, c.ID)
		if err != nil {
			return dto.CategoryResponse{}, err
		}
		c.ParentID = parentID
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, fromRepo(err, "category")
	}
	return categoryResponse(c), nil
}

func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fromRepo(err, "category")
	}
	c.IsActive = false
	return fromRepo(s.repo.Update(ctx, c), "category")
}

func (s *categoryService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return newError(ErrConflict, "a category named %q already exists", name)
	}
	return nil
}

// resolveParent validates parent_id. A category cannot be its own parent.
func (s *categoryService) resolveParent(ctx context.Context, raw *string, self uuid.UUID) (*uuid.UUID, error) {
	id, err := parseUUIDPtr(raw)
	if err != nil {
		return nil, newError(ErrInvalid, "parent_id is not a valid id")
	}
	if id == nil {
		return nil, nil
	}
	if *id == self {
		return nil, newError(ErrInvalid, "a category cannot be its own parent")
	}
	if _, err := s.repo.FindByID(ctx, *id); err != nil {
		return nil, fromRepo(err, "parent category")
	}
	return id, nil
}
