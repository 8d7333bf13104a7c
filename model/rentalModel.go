package model

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

func (s RentalStatus) Valid() bool {
	switch s {
	case RentalPending, RentalCompleted, RentalCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s
// under the strict transition table.
func (s RentalStatus) Terminal() bool {
	return s == RentalCompleted || s == RentalCancelled
}

type Rental struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	CarID       int64        `json:"car_id"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	TotalAmount float64      `json:"total_amount"`
	Status      RentalStatus `json:"status"`
}
