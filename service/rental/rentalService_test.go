package rentalsvc

import (
	"context"
	"database/sql"
	"testing"

	"carrental/model"

	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	insertFn     func(ctx context.Context, r *model.Rental) error
	getForUserFn func(ctx context.Context, userID, id int64) (*model.Rental, error)
	listFn       func(ctx context.Context, userID int64) ([]model.Rental, error)
	deleteFn     func(ctx context.Context, userID, id int64) (bool, error)
}

func (m *mockRepo) Insert(ctx context.Context, r *model.Rental) error { return m.insertFn(ctx, r) }
func (m *mockRepo) GetForUser(ctx context.Context, userID, id int64) (*model.Rental, error) {
	return m.getForUserFn(ctx, userID, id)
}
func (m *mockRepo) ListForUser(ctx context.Context, userID int64) ([]model.Rental, error) {
	return m.listFn(ctx, userID)
}
func (m *mockRepo) GetOwnedForUpdate(ctx context.Context, tx *sql.Tx, userID, id int64) (*model.Rental, error) {
	return nil, nil
}
func (m *mockRepo) Update(ctx context.Context, tx *sql.Tx, r *model.Rental) (bool, error) {
	return false, nil
}
func (m *mockRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	return m.deleteFn(ctx, userID, id)
}

type carsMock struct{ exists bool }

func (c carsMock) Exists(ctx context.Context, id int64) (bool, error) { return c.exists, nil }

func validIn() CreateIn {
	return CreateIn{
		CarID:       3,
		StartDate:   "2025-03-15",
		EndDate:     "2025-03-20",
		TotalAmount: 250.75,
		Status:      model.RentalPending,
	}
}

func TestCreate_Success(t *testing.T) {
	m := &mockRepo{
		insertFn: func(ctx context.Context, r *model.Rental) error {
			r.ID = 11
			return nil
		},
	}
	svc := New(nil, m, carsMock{exists: true}, false)

	out, err := svc.Create(context.Background(), 7, validIn())
	require.NoError(t, err)
	require.Equal(t, int64(11), out.ID)
	require.Equal(t, int64(7), out.UserID)
	require.Equal(t, "2025-03-15", out.StartDate)
	require.Equal(t, "2025-03-20", out.EndDate)
	require.Equal(t, 250.75, out.TotalAmount)
	require.Equal(t, model.RentalPending, out.Status)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	svc := New(nil, &mockRepo{}, carsMock{exists: true}, false)

	in := validIn()
	in.StartDate = "2025-03-20"
	in.EndDate = "2025-03-15"
	_, err := svc.Create(context.Background(), 7, in)
	require.Error(t, err)
	require.Equal(t, ErrBadDates, Code(err))
}

func TestCreate_SameDayIsAllowed(t *testing.T) {
	m := &mockRepo{
		insertFn: func(ctx context.Context, r *model.Rental) error { return nil },
	}
	svc := New(nil, m, carsMock{exists: true}, false)

	in := validIn()
	in.StartDate = "2025-03-15"
	in.EndDate = "2025-03-15"
	_, err := svc.Create(context.Background(), 7, in)
	require.NoError(t, err)
}

func TestCreate_BadStatus(t *testing.T) {
	svc := New(nil, &mockRepo{}, carsMock{exists: true}, false)

	in := validIn()
	in.Status = "returned"
	_, err := svc.Create(context.Background(), 7, in)
	require.Error(t, err)
	require.Equal(t, ErrBadStatus, Code(err))
}

func TestCreate_CarMissing(t *testing.T) {
	svc := New(nil, &mockRepo{}, carsMock{exists: false}, false)

	_, err := svc.Create(context.Background(), 7, validIn())
	require.Error(t, err)
	require.Equal(t, ErrCarNotFound, Code(err))
}

// Ownership is masked as absence: a rental owned by another user looks
// identical to one that does not exist.
func TestGet_ForeignRentalMaskedAsNotFound(t *testing.T) {
	m := &mockRepo{
		getForUserFn: func(ctx context.Context, userID, id int64) (*model.Rental, error) {
			// The owner-scoped query returns nothing for a foreign row.
			return nil, nil
		},
	}
	svc := New(nil, m, carsMock{exists: true}, false)

	_, err := svc.Get(context.Background(), 1, 99)
	require.Error(t, err)
	require.Equal(t, ErrNotVisible, Code(err))
}

func TestDelete_ForeignRentalMaskedAsNotFound(t *testing.T) {
	m := &mockRepo{
		deleteFn: func(ctx context.Context, userID, id int64) (bool, error) { return false, nil },
	}
	svc := New(nil, m, carsMock{exists: true}, false)

	err := svc.Delete(context.Background(), 1, 99)
	require.Error(t, err)
	require.Equal(t, ErrNotVisible, Code(err))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to model.RentalStatus
		want     bool
	}{
		{model.RentalPending, model.RentalCompleted, true},
		{model.RentalPending, model.RentalCancelled, true},
		{model.RentalPending, model.RentalPending, true},
		{model.RentalCompleted, model.RentalCompleted, true},
		{model.RentalCompleted, model.RentalPending, false},
		{model.RentalCompleted, model.RentalCancelled, false},
		{model.RentalCancelled, model.RentalPending, false},
		{model.RentalCancelled, model.RentalCompleted, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}
