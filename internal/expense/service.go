package expense

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/porpartes/porpartes/internal/expense/split"
	"github.com/porpartes/porpartes/internal/group"
	"github.com/porpartes/porpartes/internal/user"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupGone           = errors.New("the group this expense belongs to no longer exists")
	ErrPayerNotFound       = errors.New("payer not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrPayerNotMember      = errors.New("the payer must be a member of the group")
	ErrNotAuthorized       = errors.New("only the payer or an administrator can modify this expense")
	ErrAdminOnly           = errors.New("only an administrator can list all expenses")
	ErrParticipantNotFound = errors.New("participant not found in the expense shares")
	ErrNameRequired        = errors.New("expense name is required")
	ErrInvalidSplitType    = errors.New("split type must be EQUAL or MANUAL")
)

// Store persists expenses along with their shares
type Store interface {
	Create(ctx context.Context, e *Expense) (*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	Update(ctx context.Context, e *Expense) (*Expense, error)
	Delete(ctx context.Context, id int64) error
	ListByGroup(ctx context.Context, groupID int64) ([]*Expense, error)
	ListByGroups(ctx context.Context, groupIDs []int64) ([]*Expense, error)
	ListAll(ctx context.Context) ([]*Expense, error)
}

// GroupDirectory is the read-only view of groups the engine consults.
// Implementations return nil (no error) when the group does not exist.
type GroupDirectory interface {
	FindByID(ctx context.Context, id int64) (*group.Snapshot, error)
	FindByMember(ctx context.Context, userID int64) ([]*group.Snapshot, error)
}

// UserDirectory is the read-only view of users the engine consults.
// Implementations return nil (no error) when the user does not exist.
type UserDirectory interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// Service is the expense reconciliation engine: it creates, mutates and
// deletes expenses while keeping the share-sum invariant intact.
type Service struct {
	store  Store
	groups GroupDirectory
	users  UserDirectory
}

// NewService creates a new expense service with its collaborators injected
func NewService(store Store, groups GroupDirectory, users UserDirectory) *Service {
	return &Service{
		store:  store,
		groups: groups,
		users:  users,
	}
}

// Create validates and persists a new expense. EQUAL expenses are split
// across the group's current members; MANUAL expenses use the shares the
// caller supplied.
func (s *Service) Create(ctx context.Context, req *CreateExpenseRequest) (*Expense, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.Total <= 0 {
		return nil, split.ErrNonPositiveTotal
	}
	splitType := split.Type(req.SplitType)
	if !splitType.Valid() {
		return nil, ErrInvalidSplitType
	}

	g, err := s.groups.FindByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	payer, err := s.users.FindByID(ctx, req.PayerID)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		return nil, ErrPayerNotFound
	}
	if !g.HasMember(req.PayerID) {
		return nil, ErrPayerNotMember
	}

	var shares []split.Share
	switch splitType {
	case split.TypeEqual:
		shares, err = split.Equal(req.Total, g.MemberIDs)
	case split.TypeManual:
		shares, err = split.Manual(req.Total, req.Shares, g.MemberIDs)
	}
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	e := &Expense{
		GroupID:   req.GroupID,
		PayerID:   req.PayerID,
		Name:      strings.TrimSpace(req.Name),
		Total:     req.Total,
		Date:      date,
		SplitType: splitType,
		Shares:    shareDetails(shares),
	}

	if err := split.ValidateShares(e.Total, splitShares(e.Shares)); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, e)
}

// Update mutates an expense. A request carrying RemoveParticipantID drops
// that participant's share and shrinks the total by the same amount;
// anything else is a general field update. Payer and group are immutable.
func (s *Service) Update(ctx context.Context, id, actorID int64, req *UpdateExpenseRequest) (*Expense, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	if err := s.authorize(ctx, e, actorID); err != nil {
		return nil, err
	}

	if req.RemoveParticipantID != nil {
		if err := removeParticipant(e, *req.RemoveParticipantID); err != nil {
			return nil, err
		}
		// The total shrank by exactly the removed share, so the sum
		// invariant holds by construction and is not re-checked. The
		// remaining shares are not rebalanced: an EQUAL expense may no
		// longer be equal after a removal.
		return s.store.Update(ctx, e)
	}

	if err := s.applyFieldUpdate(ctx, e, req); err != nil {
		return nil, err
	}

	if err := split.ValidateShares(e.Total, splitShares(e.Shares)); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, e)
}

// removeParticipant drops one share and reduces the total by its amount,
// never below zero
func removeParticipant(e *Expense, participantID int64) error {
	idx := -1
	for i, d := range e.Shares {
		if d.UserID == participantID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrParticipantNotFound
	}

	e.Total -= e.Shares[idx].Amount
	if e.Total < 0 {
		e.Total = 0
	}
	e.Shares = append(e.Shares[:idx], e.Shares[idx+1:]...)
	return nil
}

func (s *Service) applyFieldUpdate(ctx context.Context, e *Expense, req *UpdateExpenseRequest) error {
	totalChanged := false
	if req.Total != nil {
		if *req.Total <= 0 {
			return split.ErrNonPositiveTotal
		}
		e.Total = *req.Total
		totalChanged = true
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		e.Date = *req.Date
	}

	switch {
	case req.SplitType != nil:
		// Changing the split type re-runs the full creation-time
		// validation path against the possibly-updated total.
		splitType := split.Type(*req.SplitType)
		if !splitType.Valid() {
			return ErrInvalidSplitType
		}

		g, err := s.currentGroup(ctx, e)
		if err != nil {
			return err
		}

		var shares []split.Share
		switch splitType {
		case split.TypeEqual:
			shares, err = split.Equal(e.Total, g.MemberIDs)
		case split.TypeManual:
			shares, err = split.Manual(e.Total, req.Shares, g.MemberIDs)
		}
		if err != nil {
			return err
		}

		e.SplitType = splitType
		e.Shares = shareDetails(shares)

	case totalChanged && e.SplitType == split.TypeEqual:
		// A bare total change on an EQUAL expense recomputes the split
		// against the group's current member list, not the list at
		// creation time.
		g, err := s.currentGroup(ctx, e)
		if err != nil {
			return err
		}
		shares, err := split.Equal(e.Total, g.MemberIDs)
		if err != nil {
			return err
		}
		e.Shares = shareDetails(shares)
	}

	return nil
}

func (s *Service) currentGroup(ctx context.Context, e *Expense) (*group.Snapshot, error) {
	g, err := s.groups.FindByID(ctx, e.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupGone
	}
	return g, nil
}

// Delete permanently removes an expense
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrExpenseNotFound
	}

	if err := s.authorize(ctx, e, actorID); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

// authorize allows the payer, or any administrator
func (s *Service) authorize(ctx context.Context, e *Expense, actorID int64) error {
	if e.PayerID == actorID {
		return nil
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor != nil && actor.IsAdmin {
		return nil
	}
	return ErrNotAuthorized
}

// GetByID retrieves a single expense with its shares
func (s *Service) GetByID(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// ListByGroup retrieves a group's expenses, most recent first
func (s *Service) ListByGroup(ctx context.Context, groupID int64) ([]*Expense, error) {
	g, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	return s.store.ListByGroup(ctx, groupID)
}

// ListByUser retrieves the expenses of every group the user belongs to,
// most recent first
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Expense, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	groups, err := s.groups.FindByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return []*Expense{}, nil
	}

	groupIDs := make([]int64, len(groups))
	for i, g := range groups {
		groupIDs[i] = g.ID
	}

	return s.store.ListByGroups(ctx, groupIDs)
}

// ListAll retrieves every expense in the system, most recent first.
// Restricted to administrators.
func (s *Service) ListAll(ctx context.Context, actorID int64) ([]*Expense, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !actor.IsAdmin {
		return nil, ErrAdminOnly
	}

	return s.store.ListAll(ctx)
}
