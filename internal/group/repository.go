package group

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles group and membership data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a group and enrolls the creator as its first member
func (r *Repository) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	query := `
		INSERT INTO groups (name, creator_id, currency)
		VALUES ($1, $2, UPPER($3))
		RETURNING id
	`
	var id int64
	if err := tx.QueryRowContext(ctx, query, req.Name, req.CreatorID, currency).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`,
		id, req.CreatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enroll creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a group with its members
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT g.id, g.name, g.creator_id, g.currency, g.created_at, g.updated_at, u.name
		FROM groups g
		JOIN users u ON g.creator_id = u.id
		WHERE g.id = $1
	`

	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.CreatorID, &g.Currency, &g.CreatedAt, &g.UpdatedAt, &g.CreatorName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if g.Members, err = r.members(ctx, id); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *Repository) members(ctx context.Context, groupID int64) ([]*Member, error) {
	query := `
		SELECT gm.user_id, u.name, u.email, gm.joined_at
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListByMember retrieves every group the user belongs to, most recently
// updated first
func (r *Repository) ListByMember(ctx context.Context, userID int64) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.creator_id, g.currency, g.created_at, g.updated_at, u.name
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		JOIN users u ON g.creator_id = u.id
		WHERE gm.user_id = $1
		ORDER BY g.updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*Group{}
	for rows.Next() {
		g := &Group{}
		if err := rows.Scan(
			&g.ID, &g.Name, &g.CreatorID, &g.Currency, &g.CreatedAt, &g.UpdatedAt, &g.CreatorName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		if g.Members, err = r.members(ctx, g.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// Update modifies a group's name and currency
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    currency = UPPER(COALESCE($3, currency)),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, req.Name, req.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// Delete removes a group. Memberships and pending invitations go with it
// via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// AddMember adds a user to a group. Adding an existing member is a no-op.
func (r *Repository) AddMember(ctx context.Context, groupID, userID int64) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `UPDATE groups SET updated_at = NOW() WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}
	return nil
}

// RemoveMember removes a user from a group
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	_, err = r.db.ExecContext(ctx, `UPDATE groups SET updated_at = NOW() WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}
	return nil
}

// FindByID returns the snapshot view the expense engine consults, or nil
// when the group does not exist
func (r *Repository) FindByID(ctx context.Context, id int64) (*Snapshot, error) {
	query := `SELECT id, name, currency FROM groups WHERE id = $1`

	s := &Snapshot{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Currency)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group snapshot: %w", err)
	}

	if s.MemberIDs, err = r.memberIDs(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}

// FindByMember returns snapshots of every group the user belongs to
func (r *Repository) FindByMember(ctx context.Context, userID int64) ([]*Snapshot, error) {
	query := `
		SELECT g.id, g.name, g.currency
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find groups by member: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		s := &Snapshot{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan group snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range snapshots {
		if s.MemberIDs, err = r.memberIDs(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

func (r *Repository) memberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY joined_at`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
