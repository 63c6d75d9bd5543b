package invitation

import (
	"context"
	"database/sql"
)

// Repository handles database operations for group invitations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new invitation repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const (
	invitationColumns = `i.id, i.group_id, i.inviter_id, i.invitee_id, i.status, i.created_at,
		g.name, inviter.name, invitee.name`
	invitationJoins = `FROM group_invitations i
		JOIN groups g ON g.id = i.group_id
		JOIN users inviter ON inviter.id = i.inviter_id
		JOIN users invitee ON invitee.id = i.invitee_id`
)

// Create inserts a new pending invitation
func (r *Repository) Create(ctx context.Context, groupID, inviterID, inviteeID int64) (*Invitation, error) {
	inv := &Invitation{
		GroupID:   groupID,
		InviterID: inviterID,
		InviteeID: inviteeID,
		Status:    StatusPending,
	}

	query := `
		INSERT INTO group_invitations (group_id, inviter_id, invitee_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, groupID, inviterID, inviteeID, StatusPending).
		Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// GetByID retrieves an invitation by ID, or nil if it does not exist
func (r *Repository) GetByID(ctx context.Context, id int64) (*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` ` + invitationJoins + ` WHERE i.id = $1`

	inv := &Invitation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.GroupID, &inv.InviterID, &inv.InviteeID, &inv.Status, &inv.CreatedAt,
		&inv.GroupName, &inv.InviterName, &inv.InviteeName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// FindPending returns the pending invitation for a user to a group, or nil
// if none exists
func (r *Repository) FindPending(ctx context.Context, inviteeID, groupID int64) (*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` ` + invitationJoins + `
		WHERE i.invitee_id = $1 AND i.group_id = $2 AND i.status = $3
		LIMIT 1`

	inv := &Invitation{}
	err := r.db.QueryRowContext(ctx, query, inviteeID, groupID, StatusPending).Scan(
		&inv.ID, &inv.GroupID, &inv.InviterID, &inv.InviteeID, &inv.Status, &inv.CreatedAt,
		&inv.GroupName, &inv.InviterName, &inv.InviteeName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// ListPendingByInvitee retrieves all pending invitations addressed to a user
func (r *Repository) ListPendingByInvitee(ctx context.Context, inviteeID int64) ([]*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` ` + invitationJoins + `
		WHERE i.invitee_id = $1 AND i.status = $2
		ORDER BY i.created_at DESC`

	return r.list(ctx, query, inviteeID, StatusPending)
}

// ListPendingByGroup retrieves all pending invitations for a group
func (r *Repository) ListPendingByGroup(ctx context.Context, groupID int64) ([]*Invitation, error) {
	query := `SELECT ` + invitationColumns + ` ` + invitationJoins + `
		WHERE i.group_id = $1 AND i.status = $2
		ORDER BY i.created_at DESC`

	return r.list(ctx, query, groupID, StatusPending)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Invitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		inv := &Invitation{}
		err := rows.Scan(
			&inv.ID, &inv.GroupID, &inv.InviterID, &inv.InviteeID, &inv.Status, &inv.CreatedAt,
			&inv.GroupName, &inv.InviterName, &inv.InviteeName,
		)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

// UpdateStatus sets the status of an invitation
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	result, err := r.db.ExecContext(ctx, `UPDATE group_invitations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrInvitationNotFound
	}

	return nil
}

// Delete removes an invitation
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM group_invitations WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrInvitationNotFound
	}

	return nil
}
