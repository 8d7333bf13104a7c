package car

type CarReq struct {
	Company      string  `json:"company" validate:"required"`
	Model        string  `json:"model" validate:"required"`
	Year         int     `json:"year" validate:"required,gte=1900"`
	Color        string  `json:"color" validate:"required"`
	LicensePlate string  `json:"license_plate" validate:"required"`
	PricePerDay  float64 `json:"price_per_day" validate:"required,gte=0"`
}
