package rentalrepo

import (
	"context"
	"database/sql"

	"carrental/model"
)

type Repo interface {
	Insert(ctx context.Context, r *model.Rental) error
	GetForUser(ctx context.Context, userID, id int64) (*model.Rental, error)
	ListForUser(ctx context.Context, userID int64) ([]model.Rental, error)

	// GetOwnedForUpdate locks the row for the duration of tx; nil when the
	// rental is absent or belongs to another user.
	GetOwnedForUpdate(ctx context.Context, tx *sql.Tx, userID, id int64) (*model.Rental, error)
	Update(ctx context.Context, tx *sql.Tx, r *model.Rental) (bool, error)

	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const cols = `id, user_id, car_id, start_date::text, end_date::text, total_amount, status`

func (r *repo) Insert(ctx context.Context, m *model.Rental) error {
	const q = `
INSERT INTO rentals (user_id, car_id, start_date, end_date, total_amount, status)
VALUES ($1,$2,$3::date,$4::date,$5,$6)
RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		m.UserID, m.CarID, m.StartDate, m.EndDate, m.TotalAmount, m.Status,
	).Scan(&m.ID)
}

func (r *repo) GetForUser(ctx context.Context, userID, id int64) (*model.Rental, error) {
	q := `SELECT ` + cols + ` FROM rentals WHERE id=$1 AND user_id=$2`
	return scanOne(r.db.QueryRowContext(ctx, q, id, userID))
}

func (r *repo) ListForUser(ctx context.Context, userID int64) ([]model.Rental, error) {
	q := `SELECT ` + cols + ` FROM rentals WHERE user_id=$1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rental
	for rows.Next() {
		var m model.Rental
		if err := rows.Scan(&m.ID, &m.UserID, &m.CarID, &m.StartDate, &m.EndDate, &m.TotalAmount, &m.Status); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) GetOwnedForUpdate(ctx context.Context, tx *sql.Tx, userID, id int64) (*model.Rental, error) {
	q := `SELECT ` + cols + ` FROM rentals WHERE id=$1 AND user_id=$2 FOR UPDATE`
	return scanOne(tx.QueryRowContext(ctx, q, id, userID))
}

func (r *repo) Update(ctx context.Context, tx *sql.Tx, m *model.Rental) (bool, error) {
	const q = `
UPDATE rentals
SET car_id=$3, start_date=$4::date, end_date=$5::date, total_amount=$6, status=$7
WHERE id=$1 AND user_id=$2`
	res, err := tx.ExecContext(ctx, q,
		m.ID, m.UserID, m.CarID, m.StartDate, m.EndDate, m.TotalAmount, m.Status,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanOne(row *sql.Row) (*model.Rental, error) {
	var m model.Rental
	err := row.Scan(&m.ID, &m.UserID, &m.CarID, &m.StartDate, &m.EndDate, &m.TotalAmount, &m.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
