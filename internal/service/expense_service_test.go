package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hmorten/spendtrack/spendtrack-backend/internal/domain"
	"github.com/hmorten/spendtrack/spendtrack-backend/internal/testutil"
)

func decimalPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func TestCreateExpense_Success(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Amount:      decimalPtr(49.99),
		Description: "Weekly groceries",
		Category:    "Food",
	}

	expense, err := expenseService.CreateExpense(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !expense.Amount.Equal(decimal.NewFromFloat(49.99)) {
		t.Errorf("Expected amount '49.99', got %s", expense.Amount.String())
	}

	if expense.Description != "Weekly groceries" {
		t.Errorf("Expected description 'Weekly groceries', got %s", expense.Description)
	}

	if expense.Category != domain.CategoryFood {
		t.Errorf("Expected category 'Food', got %s", expense.Category)
	}

	// Defaults
	if expense.UserID != domain.DefaultUserID {
		t.Errorf("Expected owner to default to %q, got %q", domain.DefaultUserID, expense.UserID)
	}

	if expense.Date.IsZero() {
		t.Error("Expected date to default to creation time")
	}

	if expense.ID == uuid.Nil {
		t.Error("Expected a store-assigned identifier")
	}
}

func TestCreateExpense_WithExplicitDateAndOwner(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Amount:      decimalPtr(12.50),
		Description: "Bus ticket",
		Date:        strPtr("2025-03-10"),
		Category:    "Transport",
		UserID:      strPtr("alice"),
	}

	expense, err := expenseService.CreateExpense(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !expense.Date.Equal(want) {
		t.Errorf("Expected date %v, got %v", want, expense.Date)
	}

	if expense.UserID != "alice" {
		t.Errorf("Expected owner 'alice', got %q", expense.UserID)
	}
}

func TestCreateExpense_RFC3339Date(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Amount:      decimalPtr(5),
		Description: "Coffee",
		Date:        strPtr("2025-03-10T14:30:00Z"),
		Category:    "Food",
	}

	expense, err := expenseService.CreateExpense(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	if !expense.Date.Equal(want) {
		t.Errorf("Expected date %v, got %v", want, expense.Date)
	}
}

func TestCreateExpense_TrimsDescription(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Amount:      decimalPtr(10),
		Description: "  dinner  ",
		Category:    "Food",
	}

	expense, err := expenseService.CreateExpense(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if expense.Description != "dinner" {
		t.Errorf("Expected trimmed description 'dinner', got %q", expense.Description)
	}
}

func TestCreateExpense_CollectsAllViolations(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Amount:      decimalPtr(-5),
		Description: "   ",
		Category:    "Groceries",
	}

	_, err := expenseService.CreateExpense(input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var violations domain.ValidationErrors
	if !errors.As(err, &violations) {
		t.Fatalf("Expected ValidationErrors, got %T", err)
	}

	if len(violations) != 3 {
		t.Fatalf("Expected 3 violations, got %d: %v", len(violations), violations)
	}

	byField := make(map[string]string)
	for _, v := range violations {
		byField[v.Field] = v.Message
	}

	if byField["amount"] != domain.MsgAmountInvalid {
		t.Errorf("Expected amount violation, got %q", byField["amount"])
	}
	if byField["description"] != domain.MsgDescriptionMissing {
		t.Errorf("Expected description violation, got %q", byField["description"])
	}
	if byField["category"] != domain.MsgCategoryInvalid {
		t.Errorf("Expected category violation, got %q", byField["category"])
	}

	// Nothing persisted
	if len(expenseRepo.Expenses) != 0 {
		t.Errorf("Expected no records persisted, found %d", len(expenseRepo.Expenses))
	}
}

func TestCreateExpense_MissingAmount(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Description: "Rent",
		Category:    "Bills",
	}

	_, err := expenseService.CreateExpense(input)

	var violations domain.ValidationErrors
	if !errors.As(err, &violations) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if len(violations) != 1 || violations[0].Field != "amount" {
		t.Errorf("Expected a single amount violation, got %v", violations)
	}
}

func TestCreateExpense_ZeroAmountAllowed(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Amount:      decimalPtr(0),
		Description: "Free sample",
		Category:    "Other",
	}

	expense, err := expenseService.CreateExpense(input)
	if err != nil {
		t.Fatalf("Expected zero amount to be accepted, got %v", err)
	}

	if !expense.Amount.IsZero() {
		t.Errorf("Expected zero amount, got %s", expense.Amount.String())
	}
}

func TestCreateExpense_DescriptionTooLong(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	long := make([]byte, domain.MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'a'
	}

	input := ExpenseInput{
		Amount:      decimalPtr(10),
		Description: string(long),
		Category:    "Other",
	}

	_, err := expenseService.CreateExpense(input)

	var violations domain.ValidationErrors
	if !errors.As(err, &violations) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if len(violations) != 1 || violations[0].Message != domain.MsgDescriptionTooLong {
		t.Errorf("Expected description length violation, got %v", violations)
	}
}

func TestCreateExpense_InvalidDate(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Amount:      decimalPtr(10),
		Description: "Cinema",
		Date:        strPtr("next tuesday"),
		Category:    "Entertainment",
	}

	_, err := expenseService.CreateExpense(input)

	var violations domain.ValidationErrors
	if !errors.As(err, &violations) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if len(violations) != 1 || violations[0].Message != domain.MsgDateInvalid {
		t.Errorf("Expected date violation, got %v", violations)
	}
}

func TestCreateExpense_BlankUserID(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := ExpenseInput{
		Amount:      decimalPtr(10),
		Description: "Snacks",
		Category:    "Food",
		UserID:      strPtr("   "),
	}

	_, err := expenseService.CreateExpense(input)

	var violations domain.ValidationErrors
	if !errors.As(err, &violations) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if len(violations) != 1 || violations[0].Field != "userId" {
		t.Errorf("Expected userId violation, got %v", violations)
	}
}

func TestListExpenses_FiltersByCategorySortedByDateDesc(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	addExpense(expenseRepo, "older food", 10, domain.CategoryFood, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	addExpense(expenseRepo, "newer food", 20, domain.CategoryFood, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	addExpense(expenseRepo, "bus", 5, domain.CategoryTransport, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	expenses, err := expenseService.ListExpenses(ListInput{Category: "Food"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(expenses) != 2 {
		t.Fatalf("Expected 2 expenses, got %d", len(expenses))
	}

	if expenses[0].Description != "newer food" || expenses[1].Description != "older food" {
		t.Errorf("Expected newest first, got [%s, %s]", expenses[0].Description, expenses[1].Description)
	}
}

func TestListExpenses_DateRangeInclusive(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	addExpense(expenseRepo, "before", 1, domain.CategoryOther, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	addExpense(expenseRepo, "on start", 2, domain.CategoryOther, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	addExpense(expenseRepo, "on end", 3, domain.CategoryOther, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))
	addExpense(expenseRepo, "after", 4, domain.CategoryOther, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	expenses, err := expenseService.ListExpenses(ListInput{
		StartDate: "2025-02-01",
		EndDate:   "2025-02-28",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(expenses) != 2 {
		t.Fatalf("Expected 2 expenses in range, got %d", len(expenses))
	}
	if expenses[0].Description != "on end" || expenses[1].Description != "on start" {
		t.Errorf("Expected boundary records, got [%s, %s]", expenses[0].Description, expenses[1].Description)
	}
}

func TestListExpenses_EmptyResultIsNotError(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	expenses, err := expenseService.ListExpenses(ListInput{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if expenses == nil {
		t.Fatal("Expected empty list, got nil")
	}
	if len(expenses) != 0 {
		t.Errorf("Expected 0 expenses, got %d", len(expenses))
	}
}

func TestListExpenses_InvalidDates(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	_, err := expenseService.ListExpenses(ListInput{
		StartDate: "not-a-date",
		EndDate:   "also-not-a-date",
	})

	var violations domain.ValidationErrors
	if !errors.As(err, &violations) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if len(violations) != 2 {
		t.Errorf("Expected violations for both dates, got %v", violations)
	}
}

func TestUpdateExpense_PreservesDateWhenNotSupplied(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	originalDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	created := addExpense(expenseRepo, "lunch", 10, domain.CategoryFood, originalDate)

	updated, err := expenseService.UpdateExpense(created.ID, ExpenseInput{
		Amount:      decimalPtr(15),
		Description: "expensive lunch",
		Category:    "Food",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated.Date.Equal(originalDate) {
		t.Errorf("Expected date to be preserved, got %v", updated.Date)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected amount '15', got %s", updated.Amount.String())
	}
	if updated.Description != "expensive lunch" {
		t.Errorf("Expected updated description, got %q", updated.Description)
	}
}

func TestUpdateExpense_OverwritesDateWhenSupplied(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	created := addExpense(expenseRepo, "lunch", 10, domain.CategoryFood, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	updated, err := expenseService.UpdateExpense(created.ID, ExpenseInput{
		Amount:      decimalPtr(10),
		Description: "lunch",
		Date:        strPtr("2025-04-01"),
		Category:    "Food",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	if !updated.Date.Equal(want) {
		t.Errorf("Expected date %v, got %v", want, updated.Date)
	}
}

func TestUpdateExpense_NotFound(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	_, err := expenseService.UpdateExpense(uuid.New(), ExpenseInput{
		Amount:      decimalPtr(10),
		Description: "ghost",
		Category:    "Other",
	})

	if !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("Expected ErrExpenseNotFound, got %v", err)
	}
}

func TestUpdateExpense_InvalidInputLeavesRecordUntouched(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	created := addExpense(expenseRepo, "lunch", 10, domain.CategoryFood, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	_, err := expenseService.UpdateExpense(created.ID, ExpenseInput{
		Amount:      decimalPtr(-1),
		Description: "lunch",
		Category:    "Food",
	})

	var violations domain.ValidationErrors
	if !errors.As(err, &violations) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}

	stored, err := expenseService.GetExpense(created.ID)
	if err != nil {
		t.Fatalf("Expected record to still exist, got %v", err)
	}
	if !stored.Amount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected amount to be unchanged, got %s", stored.Amount.String())
	}
}

func TestDeleteExpense_ThenGetReturnsNotFound(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	created := addExpense(expenseRepo, "lunch", 10, domain.CategoryFood, time.Now().UTC())

	if err := expenseService.DeleteExpense(created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := expenseService.GetExpense(created.ID)
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("Expected ErrExpenseNotFound after delete, got %v", err)
	}
}

func TestDeleteExpense_NotFound(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	err := expenseService.DeleteExpense(uuid.New())
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("Expected ErrExpenseNotFound, got %v", err)
	}
}

// addExpense seeds the mock repository with a default-owner expense
func addExpense(repo *testutil.MockExpenseRepository, description string, amount float64, category domain.Category, date time.Time) *domain.Expense {
	expense := &domain.Expense{
		ID:          uuid.New(),
		Amount:      decimal.NewFromFloat(amount),
		Description: description,
		Date:        date,
		Category:    category,
		UserID:      domain.DefaultUserID,
	}
	repo.AddExpense(expense)
	return expense
}
