package split

// Equal divides the total evenly across the given member IDs.
//
// The division is exact: no rounding step is applied, so the per-member
// amount may carry a floating remainder. Consumers compare sums within
// Tolerance rather than expecting whole cents.
func Equal(total float64, memberIDs []int64) ([]Share, error) {
	if total <= 0 {
		return nil, ErrNonPositiveTotal
	}
	if len(memberIDs) == 0 {
		return nil, ErrNoMembers
	}

	amount := total / float64(len(memberIDs))
	shares := make([]Share, len(memberIDs))
	for i, id := range memberIDs {
		shares[i] = Share{UserID: id, Amount: amount}
	}
	return shares, nil
}
