package friendship

import (
	"context"
	"errors"

	"github.com/porpartes/porpartes/internal/user"
)

// Common errors
var (
	ErrRequestNotFound = errors.New("friend request not found")
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends  = errors.New("users are already friends")
	ErrAlreadyPending  = errors.New("a pending friend request already exists between these users")
	ErrNotRecipient    = errors.New("only the recipient can respond to this request")
	ErrNotRequester    = errors.New("only the requester can cancel this request")
	ErrNotPending      = errors.New("this request has already been handled")
	ErrUnknownAction   = errors.New(`action must be "accept" or "reject"`)
	ErrUserNotFound    = errors.New("user not found")
)

// UserFinder looks up users; nil means the user does not exist
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// Service handles friend request business logic
type Service struct {
	repo  *Repository
	users UserFinder
}

// NewService creates a new friendship service
func NewService(repo *Repository, users UserFinder) *Service {
	return &Service{repo: repo, users: users}
}

// Send creates a pending friend request between two distinct existing
// users, refusing duplicates in either direction
func (s *Service) Send(ctx context.Context, req *SendRequest) (*FriendRequest, error) {
	if req.RequesterID == req.RecipientID {
		return nil, ErrSelfRequest
	}

	for _, id := range []int64{req.RequesterID, req.RecipientID} {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, ErrUserNotFound
		}
	}

	accepted, err := s.repo.FindBetween(ctx, req.RequesterID, req.RecipientID, StatusAccepted)
	if err != nil {
		return nil, err
	}
	if accepted != nil {
		return nil, ErrAlreadyFriends
	}

	pending, err := s.repo.FindBetween(ctx, req.RequesterID, req.RecipientID, StatusPending)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrAlreadyPending
	}

	return s.repo.Create(ctx, req.RequesterID, req.RecipientID)
}

// Respond accepts or rejects a pending friend request. Recipient only.
// Rejection removes the request so it can be sent again later.
func (s *Service) Respond(ctx context.Context, id, actorID int64, action string) (*FriendRequest, error) {
	if action != "accept" && action != "reject" {
		return nil, ErrUnknownAction
	}

	fr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fr == nil {
		return nil, ErrRequestNotFound
	}
	if fr.RecipientID != actorID {
		return nil, ErrNotRecipient
	}
	if fr.Status != StatusPending {
		return nil, ErrNotPending
	}

	if action == "accept" {
		return s.repo.UpdateStatus(ctx, id, StatusAccepted)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return nil, nil
}

// Cancel lets the requester withdraw a pending request
func (s *Service) Cancel(ctx context.Context, id, actorID int64) error {
	fr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if fr == nil {
		return ErrRequestNotFound
	}
	if fr.RequesterID != actorID {
		return ErrNotRequester
	}
	if fr.Status != StatusPending {
		return ErrNotPending
	}

	return s.repo.Delete(ctx, id)
}

// ListReceived retrieves a user's incoming pending requests
func (s *Service) ListReceived(ctx context.Context, userID int64) ([]*FriendRequest, error) {
	return s.repo.ListPendingByRecipient(ctx, userID)
}

// ListSent retrieves a user's outgoing pending requests
func (s *Service) ListSent(ctx context.Context, userID int64) ([]*FriendRequest, error) {
	return s.repo.ListPendingByRequester(ctx, userID)
}

// ListFriends retrieves a user's accepted friends
func (s *Service) ListFriends(ctx context.Context, userID int64) ([]*Friend, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return s.repo.ListFriends(ctx, userID)
}
