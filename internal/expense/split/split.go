package split

import (
	"errors"
	"fmt"
	"math"
)

// Tolerance is the absolute amount by which a split's sum may differ from
// the expense total. It absorbs rounding from client-side division and is
// not configurable.
const Tolerance = 0.01

// Type defines how an expense is divided among group members
type Type string

const (
	TypeEqual  Type = "EQUAL"
	TypeManual Type = "MANUAL"
)

// Valid reports whether t is a known split type
func (t Type) Valid() bool {
	return t == TypeEqual || t == TypeManual
}

// Share is one participant's portion of an expense
type Share struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}

var (
	ErrNoMembers        = errors.New("group has no members to split the expense among")
	ErrNonPositiveTotal = errors.New("expense total must be greater than zero")
	ErrInvalidShare     = errors.New("every share requires a user and a non-negative amount")
)

// MismatchError reports a manual split whose amounts do not add up to the
// expense total within Tolerance
type MismatchError struct {
	Sum   float64
	Total float64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("share amounts sum to %.2f but the expense total is %.2f", e.Sum, e.Total)
}

// NonMemberError reports a share naming a user outside the group
type NonMemberError struct {
	UserID int64
}

func (e *NonMemberError) Error() string {
	return fmt.Sprintf("user %d in the split is not a member of the group", e.UserID)
}

// Sum adds up the share amounts
func Sum(shares []Share) float64 {
	var sum float64
	for _, sh := range shares {
		sum += sh.Amount
	}
	return sum
}

// ValidateShares checks the invariant every persisted expense must satisfy:
// a non-empty set of shares sums to the total within Tolerance. An empty
// share set is acceptable.
func ValidateShares(total float64, shares []Share) error {
	if len(shares) == 0 {
		return nil
	}
	sum := Sum(shares)
	if math.Abs(sum-total) > Tolerance {
		return &MismatchError{Sum: sum, Total: total}
	}
	return nil
}
