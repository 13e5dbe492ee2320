package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hmorten/spendtrack/spendtrack-backend/internal/domain"
)

// ExpenseService handles expense-related business logic
type ExpenseService struct {
	expenseRepo domain.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo}
}

// ExpenseInput holds the raw input for creating or updating an expense.
// Amount is nil when the field was missing or not numeric; Date carries the
// unparsed value so validation can report every violation in one pass.
type ExpenseInput struct {
	Amount      *decimal.Decimal
	Description string
	Date        *string
	Category    string
	UserID      *string
}

// validatedExpense is the normalized result of a successful validation
type validatedExpense struct {
	Amount      decimal.Decimal
	Description string
	Date        *time.Time
	Category    domain.Category
	UserID      *string
}

// validateExpense checks every field constraint and returns the full list of
// violations, not just the first one found. No side effects.
func validateExpense(input ExpenseInput) (*validatedExpense, domain.ValidationErrors) {
	var violations domain.ValidationErrors

	if input.Amount == nil || input.Amount.IsNegative() {
		violations = append(violations, domain.FieldError{Field: "amount", Message: domain.MsgAmountInvalid})
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		violations = append(violations, domain.FieldError{Field: "description", Message: domain.MsgDescriptionMissing})
	} else if len(description) > domain.MaxDescriptionLength {
		violations = append(violations, domain.FieldError{Field: "description", Message: domain.MsgDescriptionTooLong})
	}

	var date *time.Time
	if input.Date != nil && *input.Date != "" {
		parsed, err := parseDate(*input.Date)
		if err != nil {
			violations = append(violations, domain.FieldError{Field: "date", Message: domain.MsgDateInvalid})
		} else {
			date = &parsed
		}
	}

	category := domain.Category(input.Category)
	if !category.Valid() {
		violations = append(violations, domain.FieldError{Field: "category", Message: domain.MsgCategoryInvalid})
	}

	var userID *string
	if input.UserID != nil {
		trimmed := strings.TrimSpace(*input.UserID)
		if trimmed == "" {
			violations = append(violations, domain.FieldError{Field: "userId", Message: domain.MsgInvalidValue})
		} else {
			userID = &trimmed
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}

	return &validatedExpense{
		Amount:      *input.Amount,
		Description: description,
		Date:        date,
		Category:    category,
		UserID:      userID,
	}, nil
}

// CreateExpense validates the input, fills the owner and date defaults and
// persists a new expense. Nothing is written when validation fails.
func (s *ExpenseService) CreateExpense(input ExpenseInput) (*domain.Expense, error) {
	validated, violations := validateExpense(input)
	if violations != nil {
		return nil, violations
	}

	date := time.Now().UTC()
	if validated.Date != nil {
		date = *validated.Date
	}

	userID := domain.DefaultUserID
	if validated.UserID != nil {
		userID = *validated.UserID
	}

	expense := &domain.Expense{
		Amount:      validated.Amount,
		Description: validated.Description,
		Date:        date,
		Category:    validated.Category,
		UserID:      userID,
	}

	return s.expenseRepo.Create(expense)
}

// ListInput holds the raw filter parameters for listing expenses
type ListInput struct {
	Category  string
	StartDate string
	EndDate   string
	UserID    *string
}

// ListExpenses validates the filter parameters and returns the matching
// expenses sorted by date descending. No matches yields an empty list.
func (s *ExpenseService) ListExpenses(input ListInput) ([]*domain.Expense, error) {
	var violations domain.ValidationErrors

	filter := &domain.ExpenseFilter{UserID: resolveUserID(input.UserID)}

	if category := strings.TrimSpace(input.Category); category != "" {
		c := domain.Category(category)
		filter.Category = &c
	}

	if input.StartDate != "" {
		parsed, err := parseDate(input.StartDate)
		if err != nil {
			violations = append(violations, domain.FieldError{Field: "startDate", Message: domain.MsgInvalidValue})
		} else {
			filter.StartDate = &parsed
		}
	}

	if input.EndDate != "" {
		parsed, err := parseDate(input.EndDate)
		if err != nil {
			violations = append(violations, domain.FieldError{Field: "endDate", Message: domain.MsgInvalidValue})
		} else {
			filter.EndDate = &parsed
		}
	}

	if violations != nil {
		return nil, violations
	}

	return s.expenseRepo.List(filter)
}

// GetExpense retrieves a single expense by its identifier
func (s *ExpenseService) GetExpense(id uuid.UUID) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(id)
}

// UpdateExpense overwrites an existing expense with the validated input.
// Amount, description and category are always replaced; the date only when
// supplied. The owner is never changed by an update.
func (s *ExpenseService) UpdateExpense(id uuid.UUID, input ExpenseInput) (*domain.Expense, error) {
	existing, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	validated, violations := validateExpense(input)
	if violations != nil {
		return nil, violations
	}

	existing.Amount = validated.Amount
	existing.Description = validated.Description
	existing.Category = validated.Category
	if validated.Date != nil {
		existing.Date = *validated.Date
	}

	return s.expenseRepo.Update(existing)
}

// DeleteExpense removes an expense by its identifier
func (s *ExpenseService) DeleteExpense(id uuid.UUID) error {
	return s.expenseRepo.Delete(id)
}

// resolveUserID trims the supplied owner and falls back to the sentinel
func resolveUserID(userID *string) string {
	if userID != nil {
		if trimmed := strings.TrimSpace(*userID); trimmed != "" {
			return trimmed
		}
	}
	return domain.DefaultUserID
}

// parseDate accepts an ISO 8601 timestamp, either a full RFC 3339 value or
// a bare calendar date.
func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
