package testutil

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hmorten/spendtrack/spendtrack-backend/internal/domain"
)

// MockExpenseRepository is an in-memory implementation of
// domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.Expense

	// Optional overrides for failure injection
	CreateFn         func(expense *domain.Expense) (*domain.Expense, error)
	ListFn           func(filter *domain.ExpenseFilter) ([]*domain.Expense, error)
	CategoryTotalsFn func(filter *domain.ExpenseFilter) ([]*domain.CategoryTotal, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.Expense),
	}
}

// Create stores a new expense with a generated identifier
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	now := time.Now().UTC()
	stored := *expense
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Expenses[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves an expense by its identifier
func (m *MockExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok {
		copied := *expense
		return &copied, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// List returns the expenses matching the filter sorted by date descending
func (m *MockExpenseRepository) List(filter *domain.ExpenseFilter) ([]*domain.Expense, error) {
	if m.ListFn != nil {
		return m.ListFn(filter)
	}
	matched := make([]*domain.Expense, 0)
	for _, expense := range m.Expenses {
		if matchesFilter(expense, filter) {
			copied := *expense
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})
	return matched, nil
}

// Update overwrites an existing expense
func (m *MockExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	existing, ok := m.Expenses[expense.ID]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	updated := *expense
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	m.Expenses[updated.ID] = &updated
	copied := updated
	return &copied, nil
}

// Delete removes an expense by its identifier
func (m *MockExpenseRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// CategoryTotals groups the matching expenses by category and orders the
// aggregates by descending total
func (m *MockExpenseRepository) CategoryTotals(filter *domain.ExpenseFilter) ([]*domain.CategoryTotal, error) {
	if m.CategoryTotalsFn != nil {
		return m.CategoryTotalsFn(filter)
	}
	byCategory := make(map[domain.Category]*domain.CategoryTotal)
	for _, expense := range m.Expenses {
		if !matchesFilter(expense, filter) {
			continue
		}
		total, ok := byCategory[expense.Category]
		if !ok {
			total = &domain.CategoryTotal{Category: expense.Category}
			byCategory[expense.Category] = total
		}
		total.Total = total.Total.Add(expense.Amount)
		total.Count++
	}
	totals := make([]*domain.CategoryTotal, 0, len(byCategory))
	for _, total := range byCategory {
		totals = append(totals, total)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals, nil
}

// OverallTotal sums the matching expenses regardless of category
func (m *MockExpenseRepository) OverallTotal(filter *domain.ExpenseFilter) (*domain.SummaryTotal, error) {
	summary := &domain.SummaryTotal{}
	for _, expense := range m.Expenses {
		if matchesFilter(expense, filter) {
			summary.Total = summary.Total.Add(expense.Amount)
			summary.Count++
		}
	}
	return summary, nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	m.Expenses[expense.ID] = expense
}

func matchesFilter(expense *domain.Expense, filter *domain.ExpenseFilter) bool {
	if expense.UserID != filter.UserID {
		return false
	}
	if filter.Category != nil && expense.Category != *filter.Category {
		return false
	}
	if filter.StartDate != nil && expense.Date.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && expense.Date.After(*filter.EndDate) {
		return false
	}
	return true
}
