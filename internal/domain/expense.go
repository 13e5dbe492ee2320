package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the spending category of an expense
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealthcare    Category = "Healthcare"
	CategoryShopping      Category = "Shopping"
	CategoryBills         Category = "Bills"
	CategoryOther         Category = "Other"
)

// Categories lists every valid expense category
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryBills,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DefaultUserID is the sentinel owner used when no user is supplied.
// Stands in for authentication, which this service does not have.
const DefaultUserID = "default_user"

// Validation constants
const (
	MaxDescriptionLength = 500
)

type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Category    Category        `json:"category"`
	UserID      string          `json:"userId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ExpenseFilter selects a subset of one owner's expenses. Nil fields mean
// no constraint; the date range is inclusive on both ends.
type ExpenseFilter struct {
	UserID    string
	Category  *Category
	StartDate *time.Time
	EndDate   *time.Time
}

// CategoryTotal is the aggregate for a single category
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// SummaryTotal is the aggregate across all matching expenses
type SummaryTotal struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// DashboardSummary is the per-category breakdown plus the overall total
// for one owner. CategoryBreakdown is ordered by descending total.
type DashboardSummary struct {
	CategoryBreakdown []*CategoryTotal `json:"categoryBreakdown"`
	Overall           SummaryTotal     `json:"overall"`
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(id uuid.UUID) (*Expense, error)
	List(filter *ExpenseFilter) ([]*Expense, error)
	Update(expense *Expense) (*Expense, error)
	Delete(id uuid.UUID) error
	CategoryTotals(filter *ExpenseFilter) ([]*CategoryTotal, error)
	OverallTotal(filter *ExpenseFilter) (*SummaryTotal, error)
}
