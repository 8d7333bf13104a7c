package model

type Car struct {
	ID           int64   `json:"id"`
	Company      string  `json:"company"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Color        string  `json:"color"`
	LicensePlate string  `json:"license_plate"`
	PricePerDay  float64 `json:"price_per_day"`
}

// CarPage is one page of the car listing, insertion order.
type CarPage struct {
	Data     []Car `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// CarFilter is conjunctive: every set criterion must match.
// Mark matches the company column; MaxPrice is an upper bound on price_per_day.
type CarFilter struct {
	Mark     *string
	Model    *string
	Year     *int
	Color    *string
	MaxPrice *float64
}

func (f CarFilter) Empty() bool {
	return f.Mark == nil && f.Model == nil && f.Year == nil && f.Color == nil && f.MaxPrice == nil
}
