package rentalsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental/model"
	rentalrepo "carrental/repository/rental"
)

// errors used by controllers

type ErrCode string

const (
	ErrCarNotFound ErrCode = "CAR_NOT_FOUND"
	// ErrNotVisible covers both "no such rental" and "owned by someone else";
	// callers must not be able to tell them apart.
	ErrNotVisible     ErrCode = "NOT_VISIBLE"
	ErrBadDates       ErrCode = "BAD_DATES"
	ErrBadStatus      ErrCode = "BAD_STATUS"
	ErrBadTransition  ErrCode = "BAD_TRANSITION"
	ErrBadInput       ErrCode = "BAD_INPUT"
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

const dateLayout = "2006-01-02"

type CreateIn struct {
	CarID       int64
	StartDate   string
	EndDate     string
	TotalAmount float64
	Status      model.RentalStatus
}

type CarChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, userID int64, in CreateIn) (*model.Rental, error)
	Get(ctx context.Context, userID, id int64) (*model.Rental, error)
	List(ctx context.Context, userID int64) ([]model.Rental, error)
	Update(ctx context.Context, userID, id int64, in CreateIn) (*model.Rental, error)
	Delete(ctx context.Context, userID, id int64) error
}

type service struct {
	db     *sql.DB
	r      rentalrepo.Repo
	cars   CarChecker
	strict bool
}

// New builds the rental service. strict enables the status transition table;
// the default mirrors the legacy behavior where any status overwrites any other.
func New(db *sql.DB, r rentalrepo.Repo, cars CarChecker, strict bool) Service {
	return &service{db: db, r: r, cars: cars, strict: strict}
}

func (s *service) Create(ctx context.Context, userID int64, in CreateIn) (*model.Rental, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	exists, err := s.cars.Exists(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, makeErr(ErrCarNotFound)
	}

	m := &model.Rental{
		UserID:      userID,
		CarID:       in.CarID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		TotalAmount: in.TotalAmount,
		Status:      in.Status,
	}
	if err := s.r.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Get(ctx context.Context, userID, id int64) (*model.Rental, error) {
	m, err := s.r.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, makeErr(ErrNotVisible)
	}
	return m, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]model.Rental, error) {
	out, err := s.r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Rental{}
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID, id int64, in CreateIn) (*model.Rental, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	exists, err := s.cars.Exists(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, makeErr(ErrCarNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	old, err := s.r.GetOwnedForUpdate(ctx, tx, userID, id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		err = makeErr(ErrNotVisible)
		return nil, err
	}
	if s.strict && !CanTransition(old.Status, in.Status) {
		err = makeErr(ErrBadTransition)
		return nil, err
	}

	m := &model.Rental{
		ID:          id,
		UserID:      userID,
		CarID:       in.CarID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		TotalAmount: in.TotalAmount,
		Status:      in.Status,
	}
	if _, err = s.r.Update(ctx, tx, m); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete hard-deletes the rental. Payments are not cascaded: the journal row
// stays fetchable after the rental is gone.
func (s *service) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.r.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotVisible)
	}
	return nil
}

// CanTransition is the strict transition table: pending may move to either
// terminal state, terminal states are immutable. Same-status writes are allowed
// so full-record updates can touch other fields.
func CanTransition(from, to model.RentalStatus) bool {
	if from == to {
		return true
	}
	return !from.Terminal() && to.Valid()
}

func validate(in CreateIn) error {
	if in.CarID <= 0 || in.TotalAmount < 0 {
		return makeErr(ErrBadInput)
	}
	if !in.Status.Valid() {
		return makeErr(ErrBadStatus)
	}
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return makeErr(ErrBadDates)
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return makeErr(ErrBadDates)
	}
	if end.Before(start) {
		return makeErr(ErrBadDates)
	}
	return nil
}
