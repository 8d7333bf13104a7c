package carrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"carrental/model"
)

type Repo interface {
	Create(ctx context.Context, c *model.Car) error
	Get(ctx context.Context, id int64) (*model.Car, error)
	List(ctx context.Context, page, pageSize int) ([]model.Car, int64, error)
	Filter(ctx context.Context, f model.CarFilter) ([]model.Car, error)
	Update(ctx context.Context, c *model.Car) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, c *model.Car) error {
	const q = `
INSERT INTO cars (company, model, year, color, license_plate, price_per_day)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		c.Company, c.Model, c.Year, c.Color, c.LicensePlate, c.PricePerDay,
	).Scan(&c.ID)
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Car, error) {
	const q = `
SELECT id, company, model, year, color, license_plate, price_per_day
FROM cars
WHERE id=$1`
	var c model.Car
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Company, &c.Model, &c.Year, &c.Color, &c.LicensePlate, &c.PricePerDay,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, page, pageSize int) ([]model.Car, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT id, company, model, year, color, license_plate, price_per_day
FROM cars
ORDER BY id
LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanCars(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repo) Filter(ctx context.Context, f model.CarFilter) ([]model.Car, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Mark != nil {
		add("company = $%d", *f.Mark)
	}
	if f.Model != nil {
		add("model = $%d", *f.Model)
	}
	if f.Year != nil {
		add("year = $%d", *f.Year)
	}
	if f.Color != nil {
		add("color = $%d", *f.Color)
	}
	if f.MaxPrice != nil {
		add("price_per_day <= $%d", *f.MaxPrice)
	}

	q := `
SELECT id, company, model, year, color, license_plate, price_per_day
FROM cars`
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, " AND ")
	}
	q += "\nORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCars(rows)
}

func (r *repo) Update(ctx context.Context, c *model.Car) (bool, error) {
	const q = `
UPDATE cars
SET company=$2, model=$3, year=$4, color=$5, license_plate=$6, price_per_day=$7
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q,
		c.ID, c.Company, c.Model, c.Year, c.Color, c.LicensePlate, c.PricePerDay,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE id=$1)`, id).Scan(&ok)
	return ok, err
}

func scanCars(rows *sql.Rows) ([]model.Car, error) {
	var out []model.Car
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.ID, &c.Company, &c.Model, &c.Year, &c.Color, &c.LicensePlate, &c.PricePerDay); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
