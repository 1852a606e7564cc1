package domain

import "errors"

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrBillNotFound     = errors.New("bill not found")
	ErrInvalidQuantity  = errors.New("quantity must be greater than 0")
)

// InsufficientStockError reports a requested quantity exceeding the stock on
// hand, identifying the medicine by name.
type InsufficientStockError struct {
	MedicineName string
}

func (e *InsufficientStockError) Error() string {
	return "not enough stock for " + e.MedicineName
}
