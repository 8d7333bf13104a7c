package carsvc_test

import (
	"context"
	"errors"
	"testing"

	"carrental/model"
	carsvc "carrental/service/car"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type repoMock struct {
	createFn func(ctx context.Context, c *model.Car) error
	getFn    func(ctx context.Context, id int64) (*model.Car, error)
	listFn   func(ctx context.Context, page, pageSize int) ([]model.Car, int64, error)
	filterFn func(ctx context.Context, f model.CarFilter) ([]model.Car, error)
	updateFn func(ctx context.Context, c *model.Car) (bool, error)
	deleteFn func(ctx context.Context, id int64) (bool, error)
}

func (m *repoMock) Create(ctx context.Context, c *model.Car) error { return m.createFn(ctx, c) }
func (m *repoMock) Get(ctx context.Context, id int64) (*model.Car, error) {
	return m.getFn(ctx, id)
}
func (m *repoMock) List(ctx context.Context, page, pageSize int) ([]model.Car, int64, error) {
	return m.listFn(ctx, page, pageSize)
}
func (m *repoMock) Filter(ctx context.Context, f model.CarFilter) ([]model.Car, error) {
	return m.filterFn(ctx, f)
}
func (m *repoMock) Update(ctx context.Context, c *model.Car) (bool, error) {
	return m.updateFn(ctx, c)
}
func (m *repoMock) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteFn(ctx, id)
}

func validCar() *model.Car {
	return &model.Car{
		Company:      "Toyota",
		Model:        "Corolla",
		Year:         2021,
		Color:        "blue",
		LicensePlate: "AB-123-CD",
		PricePerDay:  45.50,
	}
}

func TestCreate_Validation(t *testing.T) {
	s := carsvc.New(&repoMock{})

	c := validCar()
	c.Company = ""
	if err := s.Create(context.Background(), c); carsvc.Code(err) != carsvc.ErrBadInput {
		t.Fatalf("expected BAD_INPUT for empty company, got %v", err)
	}

	c = validCar()
	c.PricePerDay = -1
	if err := s.Create(context.Background(), c); carsvc.Code(err) != carsvc.ErrBadInput {
		t.Fatalf("expected BAD_INPUT for negative price, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, c *model.Car) error {
			c.ID = 42
			return nil
		},
	}
	s := carsvc.New(m)
	c := validCar()
	if err := s.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != 42 {
		t.Fatalf("got id=%d; want 42", c.ID)
	}
}

func TestCreate_PlateConflict(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, c *model.Car) error {
			return &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "cars_license_plate_key",
			}
		},
	}
	s := carsvc.New(m)
	err := s.Create(context.Background(), validCar())
	if carsvc.Code(err) != carsvc.ErrPlateTaken {
		t.Fatalf("expected PLATE_TAKEN, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	m := &repoMock{
		getFn: func(ctx context.Context, id int64) (*model.Car, error) { return nil, nil },
	}
	s := carsvc.New(m)
	_, err := s.Get(context.Background(), 99)
	if carsvc.Code(err) != carsvc.ErrNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestList_Defaults(t *testing.T) {
	var gotPage, gotSize int
	m := &repoMock{
		listFn: func(ctx context.Context, page, pageSize int) ([]model.Car, int64, error) {
			gotPage, gotSize = page, pageSize
			return nil, 0, nil
		},
	}
	s := carsvc.New(m)
	out, err := s.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotPage != 1 || gotSize != 20 {
		t.Fatalf("got page=%d size=%d; want 1 20", gotPage, gotSize)
	}
	if out.Data == nil {
		t.Fatal("expected empty slice, not nil")
	}
}

func TestFilter_EmptyResultIsNotAnError(t *testing.T) {
	max := 20000.0
	m := &repoMock{
		filterFn: func(ctx context.Context, f model.CarFilter) ([]model.Car, error) {
			if f.MaxPrice == nil || *f.MaxPrice != max {
				return nil, errors.New("criterion not passed through")
			}
			return nil, nil
		},
	}
	s := carsvc.New(m)
	out, err := s.Filter(context.Background(), model.CarFilter{MaxPrice: &max})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty slice, got %v", out)
	}
}

func TestDelete_NotFound(t *testing.T) {
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}
	s := carsvc.New(m)
	if err := s.Delete(context.Background(), 5); carsvc.Code(err) != carsvc.ErrNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
