package split

import "math"

// Manual validates caller-supplied shares against the expense total and the
// group's member set, and returns them normalized.
//
// Validation order is part of the contract: share shape first, then the sum
// tolerance, then membership. A caller who sends a malformed entry hears
// about that before being told the sum is off.
func Manual(total float64, shares []Share, memberIDs []int64) ([]Share, error) {
	if total <= 0 {
		return nil, ErrNonPositiveTotal
	}
	if len(shares) == 0 {
		return nil, ErrInvalidShare
	}

	seen := make(map[int64]bool, len(shares))
	for _, sh := range shares {
		if sh.UserID <= 0 || sh.Amount < 0 {
			return nil, ErrInvalidShare
		}
		if seen[sh.UserID] {
			return nil, ErrInvalidShare
		}
		seen[sh.UserID] = true
	}

	sum := Sum(shares)
	if math.Abs(sum-total) > Tolerance {
		return nil, &MismatchError{Sum: sum, Total: total}
	}

	members := make(map[int64]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}
	for _, sh := range shares {
		if !members[sh.UserID] {
			return nil, &NonMemberError{UserID: sh.UserID}
		}
	}

	out := make([]Share, len(shares))
	copy(out, shares)
	return out, nil
}
