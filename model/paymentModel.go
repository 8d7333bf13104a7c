package model

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodPaypal     PaymentMethod = "paypal"
	MethodCash       PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodPaypal, MethodCash:
		return true
	}
	return false
}

type Payment struct {
	ID                int64         `json:"id"`
	RentalID          int64         `json:"rental_id"`
	UserID            int64         `json:"user_id"`
	Amount            float64       `json:"amount"`
	Method            PaymentMethod `json:"method"`
	Status            PaymentStatus `json:"status"`
	CheckoutSessionID *string       `json:"checkout_session_id,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}
