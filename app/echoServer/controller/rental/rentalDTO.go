package rental

type RentalReq struct {
	CarID       int64   `json:"car_id" validate:"required,gt=0"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	TotalAmount float64 `json:"total_amount" validate:"required,gte=0"`
	Status      string  `json:"status" validate:"required,oneof=pending completed cancelled"`
}
