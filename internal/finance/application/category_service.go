package application

import (
	"context"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
)

type CategoryService struct {
	repo domain.ExpenseRepository
}

func NewCategoryService(repo domain.ExpenseRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetAllCategories returns the categories an expense may be filed under.
func (s *CategoryService) GetAllCategories() []string {
	categories := make([]string, len(domain.Categories))
	copy(categories, domain.Categories)
	return categories
}

// GetUsedCategories returns the known categories the owner has at least one
// expense in, in the canonical order.
func (s *CategoryService) GetUsedCategories(ctx context.Context, ownerID string) ([]string, error) {
	expenses, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for _, e := range expenses {
		used[e.Category] = true
	}

	categories := make([]string, 0, len(used))
	for _, c := range domain.Categories {
		if used[c] {
			categories = append(categories, c)
		}
	}
	return categories, nil
}
