package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles expense and share data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const expenseColumns = `
	e.id, e.group_id, e.payer_id, e.name, e.total, e.expense_date, e.split_type, e.created_at, e.updated_at,
	u.name, g.name, g.currency
`

const expenseJoins = `
	FROM expenses e
	JOIN users u ON e.payer_id = u.id
	JOIN groups g ON e.group_id = g.id
`

// Create inserts an expense and its shares in one transaction
func (r *Repository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, payer_id, name, total, expense_date, split_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err = tx.QueryRowContext(ctx, query,
		e.GroupID, e.PayerID, e.Name, e.Total, e.Date, e.SplitType,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if err := insertShares(ctx, tx, id, e.Shares); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update rewrites an expense's fields and replaces its shares in one transaction
func (r *Repository) Update(ctx context.Context, e *Expense) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE expenses
		SET name = $2, total = $3, expense_date = $4, split_type = $5, updated_at = NOW()
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query, e.ID, e.Name, e.Total, e.Date, e.SplitType)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, ErrExpenseNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_id = $1`, e.ID); err != nil {
		return nil, fmt.Errorf("failed to clear shares: %w", err)
	}
	if err := insertShares(ctx, tx, e.ID, e.Shares); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense update: %w", err)
	}

	return r.GetByID(ctx, e.ID)
}

func insertShares(ctx context.Context, tx *sql.Tx, expenseID int64, shares []ShareDetail) error {
	for _, sh := range shares {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_shares (expense_id, user_id, amount) VALUES ($1, $2, $3)`,
			expenseID, sh.UserID, sh.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share for user %d: %w", sh.UserID, err)
		}
	}
	return nil
}

// GetByID retrieves an expense with its shares, denormalized with payer,
// group and participant names
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `SELECT ` + expenseColumns + expenseJoins + ` WHERE e.id = $1`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.GroupID, &e.PayerID, &e.Name, &e.Total, &e.Date, &e.SplitType,
		&e.CreatedAt, &e.UpdatedAt,
		&e.PayerName, &e.GroupName, &e.Currency,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if e.Shares, err = r.sharesByExpense(ctx, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repository) sharesByExpense(ctx context.Context, expenseID int64) ([]ShareDetail, error) {
	query := `
		SELECT s.user_id, s.amount, u.name
		FROM expense_shares s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []ShareDetail
	for rows.Next() {
		var sh ShareDetail
		if err := rows.Scan(&sh.UserID, &sh.Amount, &sh.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

// Delete removes an expense and its shares
func (r *Repository) Delete(ctx context.Context, id int64) error {
	// Shares first (foreign key constraint)
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// ListByGroup retrieves a group's expenses ordered by date descending
func (r *Repository) ListByGroup(ctx context.Context, groupID int64) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + expenseJoins + `
		WHERE e.group_id = $1
		ORDER BY e.expense_date DESC`

	return r.list(ctx, query, groupID)
}

// ListByGroups retrieves the expenses of several groups ordered by date descending
func (r *Repository) ListByGroups(ctx context.Context, groupIDs []int64) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + expenseJoins + `
		WHERE e.group_id = ANY($1)
		ORDER BY e.expense_date DESC`

	return r.list(ctx, query, pq.Array(groupIDs))
}

// ListAll retrieves every expense ordered by date descending
func (r *Repository) ListAll(ctx context.Context) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + expenseJoins + ` ORDER BY e.expense_date DESC`

	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*Expense{}
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID, &e.GroupID, &e.PayerID, &e.Name, &e.Total, &e.Date, &e.SplitType,
			&e.CreatedAt, &e.UpdatedAt,
			&e.PayerName, &e.GroupName, &e.Currency,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range expenses {
		if e.Shares, err = r.sharesByExpense(ctx, e.ID); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// CountByGroup returns how many expenses a group has. Used by the group
// feature to refuse deleting a group that still has expenses.
func (r *Repository) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE group_id = $1`, groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}
