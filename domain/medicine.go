package domain

// DateLayout is the format used for expiry and bill dates throughout the API.
const DateLayout = "2006-01-02"

type Medicine struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Description  string  `db:"description" json:"description,omitempty"`
	Price        float64 `db:"price" json:"price"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	ExpiryDate   string  `db:"expiry_date" json:"expiryDate,omitempty"`
	Manufacturer string  `db:"manufacturer" json:"manufacturer"`
}
