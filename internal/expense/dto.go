package expense

import (
	"time"

	"github.com/porpartes/porpartes/internal/expense/split"
)

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID   int64         `json:"group_id"`
	Name      string        `json:"name"`
	Total     float64       `json:"total"`
	PayerID   int64         `json:"payer_id"`
	SplitType string        `json:"split_type"` // EQUAL or MANUAL
	Shares    []split.Share `json:"shares,omitempty"`
	Date      *time.Time    `json:"date,omitempty"`
}

// UpdateExpenseRequest represents the request to update an expense.
// When RemoveParticipantID is set the request is a participant removal
// and the remaining fields are ignored.
type UpdateExpenseRequest struct {
	Name                *string       `json:"name,omitempty"`
	Total               *float64      `json:"total,omitempty"`
	Date                *time.Time    `json:"date,omitempty"`
	SplitType           *string       `json:"split_type,omitempty"`
	Shares              []split.Share `json:"shares,omitempty"`
	RemoveParticipantID *int64        `json:"remove_participant_id,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID        int64            `json:"id"`
	GroupID   int64            `json:"group_id"`
	GroupName string           `json:"group_name,omitempty"`
	Currency  string           `json:"currency,omitempty"`
	PayerID   int64            `json:"payer_id"`
	PayerName string           `json:"payer_name,omitempty"`
	Name      string           `json:"name"`
	Total     float64          `json:"total"`
	Date      string           `json:"date"`
	SplitType string           `json:"split_type"`
	Shares    []*ShareResponse `json:"shares"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// ShareResponse represents one participant's share in a response
type ShareResponse struct {
	UserID   int64   `json:"user_id"`
	UserName string  `json:"user_name,omitempty"`
	Amount   float64 `json:"amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	shares := make([]*ShareResponse, len(e.Shares))
	for i, d := range e.Shares {
		shares[i] = &ShareResponse{
			UserID:   d.UserID,
			UserName: d.UserName,
			Amount:   d.Amount,
		}
	}

	return &ExpenseResponse{
		ID:        e.ID,
		GroupID:   e.GroupID,
		GroupName: e.GroupName,
		Currency:  e.Currency,
		PayerID:   e.PayerID,
		PayerName: e.PayerName,
		Name:      e.Name,
		Total:     e.Total,
		Date:      e.Date.Format(time.RFC3339),
		SplitType: string(e.SplitType),
		Shares:    shares,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}
