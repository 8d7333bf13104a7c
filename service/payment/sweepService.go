package paymentsvc

import (
	"context"
	"time"

	paymentrepo "carrental/repository/payment"
)

// Sweeper fails pending checkout payments whose session was never confirmed.
// It bounds the orphan window left by abandoned hosted sessions.
type Sweeper interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

type sweeper struct {
	r paymentrepo.Repo
}

func NewSweeper(r paymentrepo.Repo) Sweeper { return &sweeper{r: r} }

func (s *sweeper) ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.r.ExpireStalePending(ctx, time.Now().UTC().Add(-maxAge))
}
