package paymentrepo

import (
	"context"
	"database/sql"
	"time"

	"carrental/model"
)

type Repo interface {
	Insert(ctx context.Context, p *model.Payment) error
	GetOwned(ctx context.Context, userID, id int64) (*model.Payment, error)
	GetByRentalOwned(ctx context.Context, userID, rentalID int64) (*model.Payment, error)
	ListForUser(ctx context.Context, userID int64) ([]model.Payment, error)
	Update(ctx context.Context, p *model.Payment) (bool, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)

	// RentalOwner returns the owning user of a rental; sql.ErrNoRows when the
	// rental does not exist.
	RentalOwner(ctx context.Context, rentalID int64) (int64, error)

	MarkCompletedBySession(ctx context.Context, sessionID string) (*model.Payment, error)
	ExpireStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const cols = `id, rental_id, user_id, amount, method, status, checkout_session_id, created_at`

func (r *repo) Insert(ctx context.Context, p *model.Payment) error {
	const q = `
INSERT INTO payments (rental_id, user_id, amount, method, status, checkout_session_id)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		p.RentalID, p.UserID, p.Amount, p.Method, p.Status, p.CheckoutSessionID,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repo) GetOwned(ctx context.Context, userID, id int64) (*model.Payment, error) {
	q := `SELECT ` + cols + ` FROM payments WHERE id=$1 AND user_id=$2`
	return scanOne(r.db.QueryRowContext(ctx, q, id, userID))
}

func (r *repo) GetByRentalOwned(ctx context.Context, userID, rentalID int64) (*model.Payment, error) {
	q := `SELECT ` + cols + ` FROM payments WHERE rental_id=$1 AND user_id=$2`
	return scanOne(r.db.QueryRowContext(ctx, q, rentalID, userID))
}

func (r *repo) ListForUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	q := `SELECT ` + cols + ` FROM payments WHERE user_id=$1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.RentalID, &p.UserID, &p.Amount, &p.Method, &p.Status, &p.CheckoutSessionID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, p *model.Payment) (bool, error) {
	const q = `
UPDATE payments
SET amount=$3, method=$4, status=$5
WHERE id=$1 AND user_id=$2`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.UserID, p.Amount, p.Method, p.Status)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) RentalOwner(ctx context.Context, rentalID int64) (int64, error) {
	var uid int64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM rentals WHERE id=$1`, rentalID).Scan(&uid)
	return uid, err
}

func (r *repo) MarkCompletedBySession(ctx context.Context, sessionID string) (*model.Payment, error) {
	q := `
UPDATE payments
SET status='completed'
WHERE checkout_session_id=$1
RETURNING ` + cols
	return scanOne(r.db.QueryRowContext(ctx, q, sessionID))
}

func (r *repo) ExpireStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	const q = `
UPDATE payments
SET status='failed'
WHERE status='pending' AND checkout_session_id IS NOT NULL AND created_at < $1`
	res, err := r.db.ExecContext(ctx, q, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanOne(row *sql.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.RentalID, &p.UserID, &p.Amount, &p.Method, &p.Status, &p.CheckoutSessionID, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
