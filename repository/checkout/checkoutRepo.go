package checkoutrepo

import "context"

type OpenSessionReq struct {
	AmountMinor int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type Session struct {
	ID            string
	RedirectURL   string
	PaymentStatus string
	Metadata      map[string]string
}

type Repo interface {
	OpenSession(ctx context.Context, req OpenSessionReq) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
