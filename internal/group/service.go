package group

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/porpartes/porpartes/internal/user"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrCreatorNotFound     = errors.New("creator not found")
	ErrNameRequired        = errors.New("group name is required")
	ErrNotCreator          = errors.New("only the group creator can do this")
	ErrHasExpenses         = errors.New("the group still has expenses; settle them before deleting the group")
	ErrMemberNotFound      = errors.New("the user is not a member of this group")
	ErrCannotRemoveSelf    = errors.New("a member cannot remove themselves through this operation")
	ErrCannotRemoveCreator = errors.New("the creator cannot be removed from the group")
)

// ExpenseCounter reports how many expenses a group has. Group deletion is
// refused while any remain.
type ExpenseCounter interface {
	CountByGroup(ctx context.Context, groupID int64) (int, error)
}

// InvitationSender fans out pending invitations when a group is created
// with invite_user_ids
type InvitationSender interface {
	Invite(ctx context.Context, inviterID, inviteeID, groupID int64) error
}

// UserFinder looks up users; nil means the user does not exist
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// Service handles group business logic
type Service struct {
	repo     *Repository
	expenses ExpenseCounter
	invites  InvitationSender
	users    UserFinder
}

// NewService creates a new group service with its collaborators injected
func NewService(repo *Repository, expenses ExpenseCounter, invites InvitationSender, users UserFinder) *Service {
	return &Service{
		repo:     repo,
		expenses: expenses,
		invites:  invites,
		users:    users,
	}
}

// Create creates a group with the creator as sole member and sends pending
// invitations to the requested users
func (s *Service) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	creator, err := s.users.FindByID(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, ErrCreatorNotFound
	}

	g, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	// Invitation failures do not fail group creation; each one is logged
	// and skipped.
	for _, inviteeID := range req.InviteUserIDs {
		if inviteeID == req.CreatorID {
			continue
		}
		if err := s.invites.Invite(ctx, req.CreatorID, inviteeID, g.ID); err != nil {
			slog.Warn("failed to invite user to new group",
				"group_id", g.ID, "invitee_id", inviteeID, "error", err)
		}
	}

	return g, nil
}

// GetByID retrieves a group with its members
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// ListByMember retrieves the groups a user belongs to
func (s *Service) ListByMember(ctx context.Context, userID int64) ([]*Group, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	return s.repo.ListByMember(ctx, userID)
}

// Update modifies a group's name or currency. Creator only.
func (s *Service) Update(ctx context.Context, id, actorID int64, req *UpdateGroupRequest) (*Group, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	if g.CreatorID != actorID {
		return nil, ErrNotCreator
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrGroupNotFound
	}
	return updated, nil
}

// Delete removes a group. Creator only; refused while the group still has
// expenses.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGroupNotFound
	}
	if g.CreatorID != actorID {
		return ErrNotCreator
	}

	count, err := s.expenses.CountByGroup(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasExpenses
	}

	return s.repo.Delete(ctx, id)
}

// RemoveMember removes a member from a group. Creator only; the creator
// cannot be removed and cannot use this to remove themselves.
func (s *Service) RemoveMember(ctx context.Context, groupID, memberID, actorID int64) (*Group, error) {
	if actorID == memberID {
		return nil, ErrCannotRemoveSelf
	}

	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	if g.CreatorID != actorID {
		return nil, ErrNotCreator
	}
	if g.CreatorID == memberID {
		return nil, ErrCannotRemoveCreator
	}

	if err := s.repo.RemoveMember(ctx, groupID, memberID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, groupID)
}
