package payment

type PaymentReq struct {
	RentalID int64   `json:"rental_id" validate:"required,gt=0"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Method   string  `json:"method" validate:"required,oneof=credit_card paypal cash"`
	Status   string  `json:"status" validate:"required,oneof=pending completed failed"`
}

type UpdatePaymentReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=credit_card paypal cash"`
	Status string  `json:"status" validate:"required,oneof=pending completed failed"`
}

type CheckoutReq struct {
	RentalID    int64   `json:"rental_id" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Method      string  `json:"method" validate:"required,oneof=credit_card paypal cash"`
	CompanyName string  `json:"company_name" validate:"required"`
	ModelName   string  `json:"model_name" validate:"required"`
}
