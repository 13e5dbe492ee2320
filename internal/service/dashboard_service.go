package service

import (
	"github.com/hmorten/spendtrack/spendtrack-backend/internal/domain"
)

// DashboardService computes spending summaries for one owner
type DashboardService struct {
	expenseRepo domain.ExpenseRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(expenseRepo domain.ExpenseRepository) *DashboardService {
	return &DashboardService{expenseRepo: expenseRepo}
}

// GetSummary returns the per-category breakdown (ordered by descending
// total) and the overall total for the given owner. An owner with no
// expenses gets a zero overall and an empty breakdown, never an error.
func (s *DashboardService) GetSummary(userID *string) (*domain.DashboardSummary, error) {
	filter := &domain.ExpenseFilter{UserID: resolveUserID(userID)}

	breakdown, err := s.expenseRepo.CategoryTotals(filter)
	if err != nil {
		return nil, err
	}
	if breakdown == nil {
		breakdown = []*domain.CategoryTotal{}
	}

	overall, err := s.expenseRepo.OverallTotal(filter)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		CategoryBreakdown: breakdown,
		Overall:           *overall,
	}, nil
}
