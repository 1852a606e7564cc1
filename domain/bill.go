package domain

type Bill struct {
	ID          int64      `db:"id" json:"id"`
	BillDate    string     `db:"bill_date" json:"billDate"`
	TotalAmount float64    `db:"total_amount" json:"totalAmount"`
	Items       []BillItem `db:"-" json:"items"`
}

// BillItem is serialized outward from its bill only; the bill_id back
// reference never appears in responses.
type BillItem struct {
	ID           int64     `db:"id" json:"id"`
	BillID       int64     `db:"bill_id" json:"-"`
	MedicineID   int64     `db:"medicine_id" json:"-"`
	Quantity     int64     `db:"quantity" json:"quantity"`
	PricePerUnit float64   `db:"price_per_unit" json:"pricePerUnit"`
	Medicine     *Medicine `db:"-" json:"medicine"`
}
