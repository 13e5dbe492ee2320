package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hmorten/spendtrack/spendtrack-backend/internal/domain"
	"github.com/hmorten/spendtrack/spendtrack-backend/internal/service"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// amountValue accepts a JSON number or a numeric string. A value that does
// not parse is left nil so validation can report it alongside any other
// violations instead of failing the whole bind.
type amountValue struct {
	value *decimal.Decimal
}

func (a *amountValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	a.value = &d
	return nil
}

// ExpenseRequest represents the create/update expense request body
type ExpenseRequest struct {
	Amount      amountValue `json:"amount"`
	Description string      `json:"description"`
	Date        *string     `json:"date,omitempty"`
	Category    string      `json:"category"`
	UserID      *string     `json:"userId,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	UserID      string `json:"userId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Create a new expense record
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body ExpenseRequest true "Expense creation request"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, []ValidationError{
			{Field: "body", Message: "Invalid request body"},
		})
	}

	expense, err := h.expenseService.CreateExpense(toExpenseInput(req))
	if err != nil {
		var violations domain.ValidationErrors
		if errors.As(err, &violations) {
			return NewValidationError(c, toValidationErrors(violations))
		}
		log.Error().Err(err).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Str("user_id", expense.UserID).Str("category", string(expense.Category)).Msg("Expense created")

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// ListExpenses godoc
// @Summary List expenses
// @Description Get expenses with optional filters, sorted by date descending
// @Tags expenses
// @Accept json
// @Produce json
// @Param category query string false "Filter by category"
// @Param startDate query string false "Start date (ISO 8601, inclusive)"
// @Param endDate query string false "End date (ISO 8601, inclusive)"
// @Param userId query string false "Owner identifier"
// @Success 200 {array} ExpenseResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	input := service.ListInput{
		Category:  c.QueryParam("category"),
		StartDate: c.QueryParam("startDate"),
		EndDate:   c.QueryParam("endDate"),
	}
	if userID := c.QueryParam("userId"); userID != "" {
		input.UserID = &userID
	}

	expenses, err := h.expenseService.ListExpenses(input)
	if err != nil {
		var violations domain.ValidationErrors
		if errors.As(err, &violations) {
			return NewValidationError(c, toValidationErrors(violations))
		}
		log.Error().Err(err).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		response[i] = toExpenseResponse(expense)
	}

	return c.JSON(http.StatusOK, response)
}

// GetExpense godoc
// @Summary Get an expense
// @Description Get a single expense by its identifier
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} MessageResponse
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, []ValidationError{
			{Field: "id", Message: "Invalid expense ID"},
		})
	}

	expense, err := h.expenseService.GetExpense(id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense godoc
// @Summary Update an expense
// @Description Full update of an existing expense; the date is only
// @Description overwritten when supplied
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body ExpenseRequest true "Expense update request"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, []ValidationError{
			{Field: "id", Message: "Invalid expense ID"},
		})
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, []ValidationError{
			{Field: "body", Message: "Invalid request body"},
		})
	}

	expense, err := h.expenseService.UpdateExpense(id, toExpenseInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		var violations domain.ValidationErrors
		if errors.As(err, &violations) {
			return NewValidationError(c, toValidationErrors(violations))
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Msg("Expense updated")

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Delete an expense by its identifier
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, []ValidationError{
			{Field: "id", Message: "Invalid expense ID"},
		})
	}

	if err := h.expenseService.DeleteExpense(id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	log.Info().Str("expense_id", id.String()).Msg("Expense deleted")

	return c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// Helper function to convert an ExpenseRequest to a service input
func toExpenseInput(req ExpenseRequest) service.ExpenseInput {
	return service.ExpenseInput{
		Amount:      req.Amount.value,
		Description: req.Description,
		Date:        req.Date,
		Category:    req.Category,
		UserID:      req.UserID,
	}
}

// Helper function to convert domain.Expense to ExpenseResponse
func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          expense.ID.String(),
		Amount:      expense.Amount.StringFixed(2),
		Description: expense.Description,
		Date:        expense.Date.Format(time.RFC3339),
		Category:    string(expense.Category),
		UserID:      expense.UserID,
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt.Format(time.RFC3339),
	}
}
