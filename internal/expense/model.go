package expense

import (
	"time"

	"github.com/porpartes/porpartes/internal/expense/split"
)

// Expense represents a shared expense in a group
type Expense struct {
	ID        int64         `json:"id"`
	GroupID   int64         `json:"group_id"`
	PayerID   int64         `json:"payer_id"`
	Name      string        `json:"name"`
	Total     float64       `json:"total"`
	Date      time.Time     `json:"date"`
	SplitType split.Type    `json:"split_type"`
	Shares    []ShareDetail `json:"shares"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Populated via JOIN
	PayerName string `json:"payer_name,omitempty"`
	GroupName string `json:"group_name,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// ShareDetail is one participant's portion of an expense as persisted
type ShareDetail struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`

	// Populated via JOIN
	UserName string `json:"user_name,omitempty"`
}

// splitShares converts persisted share details to calculator shares
func splitShares(details []ShareDetail) []split.Share {
	shares := make([]split.Share, len(details))
	for i, d := range details {
		shares[i] = split.Share{UserID: d.UserID, Amount: d.Amount}
	}
	return shares
}

// shareDetails converts calculator output back to persistable details
func shareDetails(shares []split.Share) []ShareDetail {
	details := make([]ShareDetail, len(shares))
	for i, sh := range shares {
		details[i] = ShareDetail{UserID: sh.UserID, Amount: sh.Amount}
	}
	return details
}
