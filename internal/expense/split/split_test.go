package split

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name      string
		total     float64
		memberIDs []int64
		wantErr   error
		wantEach  float64
	}{
		{
			name:      "three members split evenly",
			total:     30,
			memberIDs: []int64{1, 2, 3},
			wantEach:  10,
		},
		{
			name:      "single member gets the whole total",
			total:     12.5,
			memberIDs: []int64{7},
			wantEach:  12.5,
		},
		{
			name:      "no members",
			total:     30,
			memberIDs: nil,
			wantErr:   ErrNoMembers,
		},
		{
			name:      "zero total",
			total:     0,
			memberIDs: []int64{1, 2},
			wantErr:   ErrNonPositiveTotal,
		},
		{
			name:      "negative total",
			total:     -5,
			memberIDs: []int64{1, 2},
			wantErr:   ErrNonPositiveTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Equal(tt.total, tt.memberIDs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, shares, len(tt.memberIDs))
			for i, sh := range shares {
				assert.Equal(t, tt.memberIDs[i], sh.UserID)
				assert.InDelta(t, tt.wantEach, sh.Amount, 1e-9)
			}
		})
	}
}

func TestEqualKeepsFloatingRemainder(t *testing.T) {
	// 100 / 3 does not divide cleanly. No rounding is applied per share;
	// the sum must still land within Tolerance of the total.
	shares, err := Equal(100, []int64{1, 2, 3})
	require.NoError(t, err)

	assert.InDelta(t, 100.0/3.0, shares[0].Amount, 1e-12)
	assert.LessOrEqual(t, math.Abs(Sum(shares)-100), Tolerance)
}

func TestManual(t *testing.T) {
	members := []int64{1, 2, 3}

	tests := []struct {
		name    string
		total   float64
		shares  []Share
		wantErr error
	}{
		{
			name:   "amounts sum to total",
			total:  25,
			shares: []Share{{UserID: 1, Amount: 10}, {UserID: 2, Amount: 15}},
		},
		{
			name:   "sum off by less than tolerance",
			total:  25,
			shares: []Share{{UserID: 1, Amount: 10}, {UserID: 2, Amount: 14.995}},
		},
		{
			name:   "zero amount share is allowed",
			total:  25,
			shares: []Share{{UserID: 1, Amount: 25}, {UserID: 2, Amount: 0}},
		},
		{
			name:    "zero total",
			total:   0,
			shares:  []Share{{UserID: 1, Amount: 0}},
			wantErr: ErrNonPositiveTotal,
		},
		{
			name:    "no shares",
			total:   25,
			shares:  nil,
			wantErr: ErrInvalidShare,
		},
		{
			name:    "negative amount",
			total:   25,
			shares:  []Share{{UserID: 1, Amount: 30}, {UserID: 2, Amount: -5}},
			wantErr: ErrInvalidShare,
		},
		{
			name:    "missing user",
			total:   25,
			shares:  []Share{{UserID: 0, Amount: 25}},
			wantErr: ErrInvalidShare,
		},
		{
			name:    "duplicate user",
			total:   25,
			shares:  []Share{{UserID: 1, Amount: 10}, {UserID: 1, Amount: 15}},
			wantErr: ErrInvalidShare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Manual(tt.total, tt.shares, members)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.shares, got)
		})
	}
}

func TestManualSumMismatch(t *testing.T) {
	_, err := Manual(25, []Share{{UserID: 1, Amount: 10}, {UserID: 2, Amount: 10}}, []int64{1, 2})

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.InDelta(t, 20, mismatch.Sum, 1e-9)
	assert.InDelta(t, 25, mismatch.Total, 1e-9)
}

func TestManualNonMember(t *testing.T) {
	// Validation order: the sum check runs before membership, so a
	// mismatched sum wins even when a non-member is present.
	_, err := Manual(25, []Share{{UserID: 1, Amount: 10}, {UserID: 99, Amount: 10}}, []int64{1, 2})
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))

	_, err = Manual(25, []Share{{UserID: 1, Amount: 10}, {UserID: 99, Amount: 15}}, []int64{1, 2})
	var nonMember *NonMemberError
	require.True(t, errors.As(err, &nonMember))
	assert.Equal(t, int64(99), nonMember.UserID)
}

func TestManualDoesNotAliasInput(t *testing.T) {
	in := []Share{{UserID: 1, Amount: 10}, {UserID: 2, Amount: 15}}
	got, err := Manual(25, in, []int64{1, 2})
	require.NoError(t, err)

	got[0].Amount = 999
	assert.Equal(t, 10.0, in[0].Amount)
}

func TestValidateShares(t *testing.T) {
	assert.NoError(t, ValidateShares(20, []Share{{UserID: 1, Amount: 10}, {UserID: 2, Amount: 10}}))
	assert.NoError(t, ValidateShares(20, nil))

	err := ValidateShares(20, []Share{{UserID: 1, Amount: 10}})
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.InDelta(t, 10, mismatch.Sum, 1e-9)
}
