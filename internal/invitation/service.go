package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/porpartes/porpartes/internal/group"
	"github.com/porpartes/porpartes/internal/user"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotMember          = errors.New("inviter is not a member of the group")
	ErrAlreadyMember      = errors.New("user is already a member of the group")
	ErrAlreadyInvited     = errors.New("user already has a pending invitation to this group")
	ErrNotInvitee         = errors.New("only the invited user can respond to an invitation")
	ErrNotPending         = errors.New("invitation is no longer pending")
	ErrUnknownAction      = errors.New("action must be accept or reject")
)

// GroupDirectory looks up group snapshots; nil means the group does not exist
type GroupDirectory interface {
	FindByID(ctx context.Context, id int64) (*group.Snapshot, error)
}

// GroupJoiner enrolls a user into a group when an invitation is accepted
type GroupJoiner interface {
	AddMember(ctx context.Context, groupID, userID int64) error
}

// UserFinder looks up users; nil means the user does not exist
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// Service handles invitation business logic
type Service struct {
	repo   *Repository
	groups GroupDirectory
	joiner GroupJoiner
	users  UserFinder
}

// NewService creates a new invitation service
func NewService(repo *Repository, groups GroupDirectory, joiner GroupJoiner, users UserFinder) *Service {
	return &Service{repo: repo, groups: groups, joiner: joiner, users: users}
}

// Create validates and records a new pending invitation
func (s *Service) Create(ctx context.Context, req *CreateInvitationRequest) (*Invitation, error) {
	g, err := s.groups.FindByID(ctx, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("finding group: %w", err)
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	if !g.HasMember(req.InviterID) {
		return nil, ErrNotMember
	}

	invitee, err := s.users.FindByID(ctx, req.InviteeID)
	if err != nil {
		return nil, fmt.Errorf("finding invitee: %w", err)
	}
	if invitee == nil {
		return nil, ErrUserNotFound
	}
	if g.HasMember(req.InviteeID) {
		return nil, ErrAlreadyMember
	}

	pending, err := s.repo.FindPending(ctx, req.InviteeID, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("checking pending invitation: %w", err)
	}
	if pending != nil {
		return nil, ErrAlreadyInvited
	}

	return s.repo.Create(ctx, req.GroupID, req.InviterID, req.InviteeID)
}

// Invite records a pending invitation from inviter to invitee for a group.
// Used by group creation to fan out invite_user_ids.
func (s *Service) Invite(ctx context.Context, inviterID, inviteeID, groupID int64) error {
	_, err := s.Create(ctx, &CreateInvitationRequest{
		GroupID:   groupID,
		InviterID: inviterID,
		InviteeID: inviteeID,
	})
	return err
}

// Respond accepts or rejects an invitation. Only the invitee may respond,
// and only while the invitation is pending. Accepting enrolls the invitee
// in the group; rejecting removes the invitation and returns nil.
func (s *Service) Respond(ctx context.Context, id, actorID int64, action string) (*Invitation, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting invitation: %w", err)
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	if inv.InviteeID != actorID {
		return nil, ErrNotInvitee
	}
	if inv.Status != StatusPending {
		return nil, ErrNotPending
	}

	switch action {
	case "accept":
		return s.accept(ctx, inv)
	case "reject":
		if err := s.repo.Delete(ctx, inv.ID); err != nil {
			return nil, fmt.Errorf("deleting invitation: %w", err)
		}
		return nil, nil
	default:
		return nil, ErrUnknownAction
	}
}

func (s *Service) accept(ctx context.Context, inv *Invitation) (*Invitation, error) {
	if err := s.repo.UpdateStatus(ctx, inv.ID, StatusAccepted); err != nil {
		return nil, fmt.Errorf("updating invitation: %w", err)
	}

	if err := s.joiner.AddMember(ctx, inv.GroupID, inv.InviteeID); err != nil {
		// Enrollment failed; put the invitation back so the user can retry.
		if revertErr := s.repo.UpdateStatus(ctx, inv.ID, StatusPending); revertErr != nil {
			slog.Error("failed to revert invitation after enrollment error",
				"invitation_id", inv.ID, "error", revertErr)
		}
		return nil, fmt.Errorf("adding member: %w", err)
	}

	inv.Status = StatusAccepted
	return inv, nil
}

// ListByInvitee returns the pending invitations addressed to a user
func (s *Service) ListByInvitee(ctx context.Context, inviteeID int64) ([]*Invitation, error) {
	u, err := s.users.FindByID(ctx, inviteeID)
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return s.repo.ListPendingByInvitee(ctx, inviteeID)
}

// ListByGroup returns the pending invitations for a group
func (s *Service) ListByGroup(ctx context.Context, groupID int64) ([]*Invitation, error) {
	g, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("finding group: %w", err)
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.ListPendingByGroup(ctx, groupID)
}
