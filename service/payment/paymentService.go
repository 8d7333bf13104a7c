package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"carrental/model"
	checkoutrepo "carrental/repository/checkout"
	paymentrepo "carrental/repository/payment"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	// ErrNotVisible is the combined absent-or-not-owned signal; the two cases
	// are deliberately indistinguishable to the caller.
	ErrNotVisible        ErrCode = "NOT_VISIBLE"
	ErrRentalAlreadyPaid ErrCode = "RENTAL_ALREADY_PAID"
	ErrPaymentIncomplete ErrCode = "PAYMENT_INCOMPLETE"
	ErrBadInput          ErrCode = "BAD_INPUT"
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

type CreateIn struct {
	RentalID int64
	Amount   float64
	Method   model.PaymentMethod
	Status   model.PaymentStatus
}

type CheckoutIn struct {
	RentalID    int64
	Amount      float64
	Method      model.PaymentMethod
	CompanyName string
	ModelName   string
}

type CheckoutCreated struct {
	Payment     *model.Payment
	SessionID   string
	RedirectURL string
}

// Config is the checkout-side configuration the service needs.
type Config struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

type Service interface {
	Create(ctx context.Context, userID int64, in CreateIn) (*model.Payment, error)
	CreateWithCheckout(ctx context.Context, userID int64, in CheckoutIn) (*CheckoutCreated, error)
	Confirm(ctx context.Context, sessionID string) (*model.Payment, error)

	Get(ctx context.Context, userID, id int64) (*model.Payment, error)
	GetByRental(ctx context.Context, userID, rentalID int64) (*model.Payment, error)
	List(ctx context.Context, userID int64) ([]model.Payment, error)
	Update(ctx context.Context, userID, id int64, in CreateIn) (*model.Payment, error)
	Delete(ctx context.Context, userID, id int64) error
}

type service struct {
	r   paymentrepo.Repo
	x   checkoutrepo.Repo
	cfg Config
}

func New(r paymentrepo.Repo, x checkoutrepo.Repo, cfg Config) Service {
	return &service{r: r, x: x, cfg: cfg}
}

func (s *service) Create(ctx context.Context, userID int64, in CreateIn) (*model.Payment, error) {
	if in.Amount <= 0 || !in.Method.Valid() || !in.Status.Valid() {
		return nil, makeErr(ErrBadInput)
	}
	if err := s.checkRentalOwned(ctx, userID, in.RentalID); err != nil {
		return nil, err
	}

	p := &model.Payment{
		RentalID: in.RentalID,
		UserID:   userID,
		Amount:   in.Amount,
		Method:   in.Method,
		Status:   in.Status,
	}
	if err := s.r.Insert(ctx, p); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return p, nil
}

// CreateWithCheckout opens a hosted session first and persists the payment row
// only once the collaborator has accepted it, so a collaborator failure leaves
// no orphaned row. The row is written outside any transaction held across the
// network call.
func (s *service) CreateWithCheckout(ctx context.Context, userID int64, in CheckoutIn) (*CheckoutCreated, error) {
	if in.Amount <= 0 || !in.Method.Valid() {
		return nil, makeErr(ErrBadInput)
	}
	if err := s.checkRentalOwned(ctx, userID, in.RentalID); err != nil {
		return nil, err
	}

	sess, err := s.x.OpenSession(ctx, checkoutrepo.OpenSessionReq{
		AmountMinor: MinorUnits(in.Amount),
		Currency:    s.cfg.Currency,
		Description: fmt.Sprintf("Car rental: %s %s", in.CompanyName, in.ModelName),
		SuccessURL:  s.cfg.SuccessURL,
		CancelURL:   s.cfg.CancelURL,
		Metadata: map[string]string{
			"rental_id": strconv.FormatInt(in.RentalID, 10),
			"ref":       uuid.NewString(),
		},
	})
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		RentalID:          in.RentalID,
		UserID:            userID,
		Amount:            in.Amount,
		Method:            in.Method,
		Status:            model.PaymentPending,
		CheckoutSessionID: &sess.ID,
	}
	if err := s.r.Insert(ctx, p); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}

	return &CheckoutCreated{Payment: p, SessionID: sess.ID, RedirectURL: sess.RedirectURL}, nil
}

// Confirm reconciles a checkout session on the success redirect. A paid session
// marks the journal row completed; anything else changes nothing.
func (s *service) Confirm(ctx context.Context, sessionID string) (*model.Payment, error) {
	if sessionID == "" {
		return nil, makeErr(ErrBadInput)
	}
	sess, err := s.x.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.PaymentStatus != "paid" {
		return nil, makeErr(ErrPaymentIncomplete)
	}
	p, err := s.r.MarkCompletedBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, makeErr(ErrNotVisible)
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, userID, id int64) (*model.Payment, error) {
	p, err := s.r.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, makeErr(ErrNotVisible)
	}
	return p, nil
}

func (s *service) GetByRental(ctx context.Context, userID, rentalID int64) (*model.Payment, error) {
	p, err := s.r.GetByRentalOwned(ctx, userID, rentalID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, makeErr(ErrNotVisible)
	}
	return p, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]model.Payment, error) {
	out, err := s.r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Payment{}
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID, id int64, in CreateIn) (*model.Payment, error) {
	if in.Amount <= 0 || !in.Method.Valid() || !in.Status.Valid() {
		return nil, makeErr(ErrBadInput)
	}
	p := &model.Payment{ID: id, UserID: userID, Amount: in.Amount, Method: in.Method, Status: in.Status}
	ok, err := s.r.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNotVisible)
	}
	return s.Get(ctx, userID, id)
}

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

func (s *service) checkRentalOwned(ctx context.Context, userID, rentalID int64) error {
	owner, err := s.r.RentalOwner(ctx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotVisible)
		}
		return err
	}
	if owner != userID {
		return makeErr(ErrNotVisible)
	}
	return nil
}

// MinorUnits converts a major-unit amount to minor currency units (199.99 -> 19999).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(strings.ToLower(pgErr.ConstraintName), "rental_id") {
			return makeErr(ErrRentalAlreadyPaid)
		}
	}
	return nil
}
