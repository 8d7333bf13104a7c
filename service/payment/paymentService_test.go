package paymentsvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"carrental/model"
	checkoutrepo "carrental/repository/checkout"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	insertFn      func(ctx context.Context, p *model.Payment) error
	getOwnedFn    func(ctx context.Context, userID, id int64) (*model.Payment, error)
	byRentalFn    func(ctx context.Context, userID, rentalID int64) (*model.Payment, error)
	listFn        func(ctx context.Context, userID int64) ([]model.Payment, error)
	updateFn      func(ctx context.Context, p *model.Payment) (bool, error)
	deleteFn      func(ctx context.Context, userID, id int64) (bool, error)
	rentalOwnerFn func(ctx context.Context, rentalID int64) (int64, error)
	markFn        func(ctx context.Context, sessionID string) (*model.Payment, error)
	expireFn      func(ctx context.Context, olderThan time.Time) (int64, error)
}

func (m *mockRepo) Insert(ctx context.Context, p *model.Payment) error { return m.insertFn(ctx, p) }
func (m *mockRepo) GetOwned(ctx context.Context, userID, id int64) (*model.Payment, error) {
	return m.getOwnedFn(ctx, userID, id)
}
func (m *mockRepo) GetByRentalOwned(ctx context.Context, userID, rentalID int64) (*model.Payment, error) {
	return m.byRentalFn(ctx, userID, rentalID)
}
func (m *mockRepo) ListForUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	return m.listFn(ctx, userID)
}
func (m *mockRepo) Update(ctx context.Context, p *model.Payment) (bool, error) {
	return m.updateFn(ctx, p)
}
func (m *mockRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	return m.deleteFn(ctx, userID, id)
}
func (m *mockRepo) RentalOwner(ctx context.Context, rentalID int64) (int64, error) {
	return m.rentalOwnerFn(ctx, rentalID)
}
func (m *mockRepo) MarkCompletedBySession(ctx context.Context, sessionID string) (*model.Payment, error) {
	return m.markFn(ctx, sessionID)
}
func (m *mockRepo) ExpireStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	return m.expireFn(ctx, olderThan)
}

type mockCheckout struct {
	openFn func(ctx context.Context, req checkoutrepo.OpenSessionReq) (*checkoutrepo.Session, error)
	getFn  func(ctx context.Context, id string) (*checkoutrepo.Session, error)
}

func (m *mockCheckout) OpenSession(ctx context.Context, req checkoutrepo.OpenSessionReq) (*checkoutrepo.Session, error) {
	return m.openFn(ctx, req)
}
func (m *mockCheckout) GetSession(ctx context.Context, id string) (*checkoutrepo.Session, error) {
	return m.getFn(ctx, id)
}

func cfg() Config {
	return Config{
		Currency:   "usd",
		SuccessURL: "http://localhost:8080/v1/payments/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://localhost:8080/v1/payments/cancel",
	}
}

func ownedBy(uid int64) *mockRepo {
	return &mockRepo{
		rentalOwnerFn: func(ctx context.Context, rentalID int64) (int64, error) { return uid, nil },
		insertFn: func(ctx context.Context, p *model.Payment) error {
			p.ID = 1
			return nil
		},
	}
}

func TestMinorUnits(t *testing.T) {
	require.Equal(t, int64(19999), MinorUnits(199.99))
	require.Equal(t, int64(100), MinorUnits(1.00))
	require.Equal(t, int64(5), MinorUnits(0.05))
}

func TestCreate_Success(t *testing.T) {
	svc := New(ownedBy(7), &mockCheckout{}, cfg())

	p, err := svc.Create(context.Background(), 7, CreateIn{
		RentalID: 3,
		Amount:   250.75,
		Method:   model.MethodCreditCard,
		Status:   model.PaymentPending,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), p.RentalID)
	require.Equal(t, int64(7), p.UserID)
	require.Equal(t, 250.75, p.Amount)
}

func TestCreate_Validation(t *testing.T) {
	svc := New(&mockRepo{}, &mockCheckout{}, cfg())

	_, err := svc.Create(context.Background(), 7, CreateIn{
		RentalID: 3, Amount: 0, Method: model.MethodCash, Status: model.PaymentPending,
	})
	require.Equal(t, ErrBadInput, Code(err))

	_, err = svc.Create(context.Background(), 7, CreateIn{
		RentalID: 3, Amount: 10, Method: "wire", Status: model.PaymentPending,
	})
	require.Equal(t, ErrBadInput, Code(err))
}

// Absent rental and foreign rental produce the same combined signal.
func TestCreate_RentalNotVisible(t *testing.T) {
	absent := &mockRepo{
		rentalOwnerFn: func(ctx context.Context, rentalID int64) (int64, error) {
			return 0, sql.ErrNoRows
		},
	}
	svc := New(absent, &mockCheckout{}, cfg())
	_, err := svc.Create(context.Background(), 7, CreateIn{
		RentalID: 3, Amount: 10, Method: model.MethodCash, Status: model.PaymentPending,
	})
	require.Equal(t, ErrNotVisible, Code(err))

	svc = New(ownedBy(99), &mockCheckout{}, cfg())
	_, err = svc.Create(context.Background(), 7, CreateIn{
		RentalID: 3, Amount: 10, Method: model.MethodCash, Status: model.PaymentPending,
	})
	require.Equal(t, ErrNotVisible, Code(err))
}

func TestCreate_DuplicateRentalPayment(t *testing.T) {
	m := ownedBy(7)
	m.insertFn = func(ctx context.Context, p *model.Payment) error {
		return &pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "payments_rental_id_key",
		}
	}
	svc := New(m, &mockCheckout{}, cfg())
	_, err := svc.Create(context.Background(), 7, CreateIn{
		RentalID: 3, Amount: 10, Method: model.MethodCash, Status: model.PaymentPending,
	})
	require.Equal(t, ErrRentalAlreadyPaid, Code(err))
}

func TestCreateWithCheckout_MinorUnitsAndDescription(t *testing.T) {
	var got checkoutrepo.OpenSessionReq
	x := &mockCheckout{
		openFn: func(ctx context.Context, req checkoutrepo.OpenSessionReq) (*checkoutrepo.Session, error) {
			got = req
			return &checkoutrepo.Session{ID: "cs_test_1", RedirectURL: "https://checkout.example/cs_test_1"}, nil
		},
	}
	svc := New(ownedBy(7), x, cfg())

	out, err := svc.CreateWithCheckout(context.Background(), 7, CheckoutIn{
		RentalID:    3,
		Amount:      199.99,
		Method:      model.MethodCreditCard,
		CompanyName: "Toyota",
		ModelName:   "Corolla",
	})
	require.NoError(t, err)
	require.Equal(t, int64(19999), got.AmountMinor)
	require.Equal(t, "usd", got.Currency)
	require.Equal(t, "Car rental: Toyota Corolla", got.Description)
	require.Equal(t, "3", got.Metadata["rental_id"])
	require.Equal(t, "cs_test_1", out.SessionID)
	require.Equal(t, "https://checkout.example/cs_test_1", out.RedirectURL)
	require.NotNil(t, out.Payment.CheckoutSessionID)
	require.Equal(t, "cs_test_1", *out.Payment.CheckoutSessionID)
	require.Equal(t, model.PaymentPending, out.Payment.Status)
}

// A collaborator failure must leave no payment row behind.
func TestCreateWithCheckout_SessionFailureWritesNothing(t *testing.T) {
	inserted := false
	m := ownedBy(7)
	m.insertFn = func(ctx context.Context, p *model.Payment) error {
		inserted = true
		return nil
	}
	x := &mockCheckout{
		openFn: func(ctx context.Context, req checkoutrepo.OpenSessionReq) (*checkoutrepo.Session, error) {
			return nil, context.DeadlineExceeded
		},
	}
	svc := New(m, x, cfg())

	_, err := svc.CreateWithCheckout(context.Background(), 7, CheckoutIn{
		RentalID: 3, Amount: 10, Method: model.MethodCreditCard,
		CompanyName: "Toyota", ModelName: "Corolla",
	})
	require.Error(t, err)
	require.False(t, inserted)
}

func TestConfirm_Unpaid(t *testing.T) {
	x := &mockCheckout{
		getFn: func(ctx context.Context, id string) (*checkoutrepo.Session, error) {
			return &checkoutrepo.Session{ID: id, PaymentStatus: "unpaid"}, nil
		},
	}
	marked := false
	m := &mockRepo{
		markFn: func(ctx context.Context, sessionID string) (*model.Payment, error) {
			marked = true
			return nil, nil
		},
	}
	svc := New(m, x, cfg())

	_, err := svc.Confirm(context.Background(), "cs_test_1")
	require.Equal(t, ErrPaymentIncomplete, Code(err))
	require.False(t, marked)
}

func TestConfirm_Paid(t *testing.T) {
	x := &mockCheckout{
		getFn: func(ctx context.Context, id string) (*checkoutrepo.Session, error) {
			return &checkoutrepo.Session{ID: id, PaymentStatus: "paid"}, nil
		},
	}
	sid := "cs_test_1"
	m := &mockRepo{
		markFn: func(ctx context.Context, sessionID string) (*model.Payment, error) {
			require.Equal(t, sid, sessionID)
			return &model.Payment{ID: 1, Status: model.PaymentCompleted, CheckoutSessionID: &sid}, nil
		},
	}
	svc := New(m, x, cfg())

	p, err := svc.Confirm(context.Background(), sid)
	require.NoError(t, err)
	require.Equal(t, model.PaymentCompleted, p.Status)
}

func TestGet_ForeignPaymentMaskedAsNotFound(t *testing.T) {
	m := &mockRepo{
		getOwnedFn: func(ctx context.Context, userID, id int64) (*model.Payment, error) {
			return nil, nil
		},
	}
	svc := New(m, &mockCheckout{}, cfg())

	_, err := svc.Get(context.Background(), 1, 99)
	require.Equal(t, ErrNotVisible, Code(err))
}

func TestSweeper_CutoffFromMaxAge(t *testing.T) {
	var gotCutoff time.Time
	m := &mockRepo{
		expireFn: func(ctx context.Context, olderThan time.Time) (int64, error) {
			gotCutoff = olderThan
			return 2, nil
		},
	}
	sw := NewSweeper(m)

	n, err := sw.ExpireStale(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.WithinDuration(t, time.Now().UTC().Add(-24*time.Hour), gotCutoff, 5*time.Second)
}
