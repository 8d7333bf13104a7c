package carsvc

import (
	"context"
	"errors"
	"strings"

	"carrental/model"
	carrepo "carrental/repository/car"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrNotFound   ErrCode = "NOT_FOUND"
	ErrPlateTaken ErrCode = "PLATE_TAKEN"
	ErrBadInput   ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Create(ctx context.Context, c *model.Car) error
	Get(ctx context.Context, id int64) (*model.Car, error)
	List(ctx context.Context, page, pageSize int) ([]model.Car, int64, error)
	Filter(ctx context.Context, f model.CarFilter) ([]model.Car, error)
	Update(ctx context.Context, c *model.Car) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, c *model.Car) error
	Get(ctx context.Context, id int64) (*model.Car, error)
	List(ctx context.Context, page, pageSize int) (*model.CarPage, error)
	Filter(ctx context.Context, f model.CarFilter) ([]model.Car, error)
	Update(ctx context.Context, c *model.Car) (*model.Car, error)
	Delete(ctx context.Context, id int64) error
}

var _ Repo = (carrepo.Repo)(nil)

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, c *model.Car) error {
	if err := validate(c); err != nil {
		return err
	}
	if err := s.r.Create(ctx, c); err != nil {
		if derr := mapPlateErr(err); derr != nil {
			return derr
		}
		return err
	}
	return nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Car, error) {
	c, err := s.r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, makeErr(ErrNotFound)
	}
	return c, nil
}

func (s *service) List(ctx context.Context, page, pageSize int) (*model.CarPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	data, total, err := s.r.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []model.Car{}
	}
	return &model.CarPage{Data: data, Total: total, Page: page, PageSize: pageSize}, nil
}

// Filter: an empty result is a valid response, never an error.
func (s *service) Filter(ctx context.Context, f model.CarFilter) ([]model.Car, error) {
	out, err := s.r.Filter(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Car{}
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, c *model.Car) (*model.Car, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	ok, err := s.r.Update(ctx, c)
	if err != nil {
		if derr := mapPlateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNotFound)
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func validate(c *model.Car) error {
	if c.Company == "" || c.Model == "" || c.LicensePlate == "" || c.PricePerDay < 0 {
		return makeErr(ErrBadInput)
	}
	return nil
}

func mapPlateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(strings.ToLower(pgErr.ConstraintName), "license_plate") {
			return makeErr(ErrPlateTaken)
		}
	}
	return nil
}
