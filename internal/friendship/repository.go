package friendship

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles friend request data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new friendship repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const requestColumns = `
	fr.id, fr.requester_id, fr.recipient_id, fr.status, fr.created_at, fr.updated_at,
	req.name, req.email, rec.name, rec.email
`

const requestJoins = `
	FROM friend_requests fr
	JOIN users req ON fr.requester_id = req.id
	JOIN users rec ON fr.recipient_id = rec.id
`

// Create inserts a new pending friend request
func (r *Repository) Create(ctx context.Context, requesterID, recipientID int64) (*FriendRequest, error) {
	query := `
		INSERT INTO friend_requests (requester_id, recipient_id, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, requesterID, recipientID, StatusPending).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a friend request, or nil when absent
func (r *Repository) GetByID(ctx context.Context, id int64) (*FriendRequest, error) {
	query := `SELECT ` + requestColumns + requestJoins + ` WHERE fr.id = $1`

	fr := &FriendRequest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&fr.ID, &fr.RequesterID, &fr.RecipientID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt,
		&fr.RequesterName, &fr.RequesterEmail, &fr.RecipientName, &fr.RecipientEmail,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}
	return fr, nil
}

// FindBetween retrieves a request with the given status between two users,
// in either direction, or nil when none exists
func (r *Repository) FindBetween(ctx context.Context, userA, userB int64, status Status) (*FriendRequest, error) {
	query := `SELECT ` + requestColumns + requestJoins + `
		WHERE fr.status = $3
		  AND ((fr.requester_id = $1 AND fr.recipient_id = $2)
		    OR (fr.requester_id = $2 AND fr.recipient_id = $1))
		LIMIT 1`

	fr := &FriendRequest{}
	err := r.db.QueryRowContext(ctx, query, userA, userB, status).Scan(
		&fr.ID, &fr.RequesterID, &fr.RecipientID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt,
		&fr.RequesterName, &fr.RequesterEmail, &fr.RecipientName, &fr.RecipientEmail,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return fr, nil
}

// ListPendingByRecipient retrieves incoming pending requests, newest first
func (r *Repository) ListPendingByRecipient(ctx context.Context, userID int64) ([]*FriendRequest, error) {
	query := `SELECT ` + requestColumns + requestJoins + `
		WHERE fr.recipient_id = $1 AND fr.status = $2
		ORDER BY fr.created_at DESC`
	return r.list(ctx, query, userID, StatusPending)
}

// ListPendingByRequester retrieves outgoing pending requests, newest first
func (r *Repository) ListPendingByRequester(ctx context.Context, userID int64) ([]*FriendRequest, error) {
	query := `SELECT ` + requestColumns + requestJoins + `
		WHERE fr.requester_id = $1 AND fr.status = $2
		ORDER BY fr.created_at DESC`
	return r.list(ctx, query, userID, StatusPending)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]*FriendRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	requests := []*FriendRequest{}
	for rows.Next() {
		fr := &FriendRequest{}
		if err := rows.Scan(
			&fr.ID, &fr.RequesterID, &fr.RecipientID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt,
			&fr.RequesterName, &fr.RequesterEmail, &fr.RecipientName, &fr.RecipientEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		requests = append(requests, fr)
	}
	return requests, rows.Err()
}

// UpdateStatus transitions a friend request's status
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) (*FriendRequest, error) {
	query := `UPDATE friend_requests SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return nil, fmt.Errorf("failed to update friend request: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a friend request
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM friend_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// ListFriends derives a user's friends from accepted requests in either
// direction
func (r *Repository) ListFriends(ctx context.Context, userID int64) ([]*Friend, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM friend_requests fr
		JOIN users u ON u.id = CASE
			WHEN fr.requester_id = $1 THEN fr.recipient_id
			ELSE fr.requester_id
		END
		WHERE fr.status = $2
		  AND (fr.requester_id = $1 OR fr.recipient_id = $1)
		ORDER BY u.name
	`

	rows, err := r.db.QueryContext(ctx, query, userID, StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []*Friend{}
	for rows.Next() {
		f := &Friend{}
		if err := rows.Scan(&f.UserID, &f.Name, &f.Email); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}
