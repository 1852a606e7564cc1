package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"medimanager/m/domain"
)

// BillStore persists bills and their owned line items. Bills are immutable
// once saved.
type BillStore struct {
	db *sqlx.DB
}

func NewBillStore(db *sqlx.DB) *BillStore {
	return &BillStore{db: db}
}

// Save persists the bill and all of its items inside the caller's
// transaction, assigning ids as it goes.
func (s *BillStore) Save(ctx context.Context, tx *sqlx.Tx, bill *domain.Bill) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bills (bill_date, total_amount) VALUES (?, ?)`,
		bill.BillDate, bill.TotalAmount)
	if err != nil {
		return err
	}
	billID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	bill.ID = billID

	for i := range bill.Items {
		item := &bill.Items[i]
		item.BillID = billID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bill_items (bill_id, medicine_id, quantity, price_per_unit)
			 VALUES (?, ?, ?, ?)`,
			item.BillID, item.MedicineID, item.Quantity, item.PricePerUnit)
		if err != nil {
			return err
		}
		if item.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return nil
}

// List returns all bills with items and their medicines eagerly loaded.
func (s *BillStore) List(ctx context.Context) ([]domain.Bill, error) {
	bills := []domain.Bill{}
	err := s.db.SelectContext(ctx, &bills, `SELECT id, bill_date, total_amount FROM bills`)
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// GetByID returns the bill with the given id, items and medicines eagerly
// loaded, or domain.ErrBillNotFound.
func (s *BillStore) GetByID(ctx context.Context, id int64) (domain.Bill, error) {
	var bill domain.Bill
	err := s.db.GetContext(ctx, &bill,
		`SELECT id, bill_date, total_amount FROM bills WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bill{}, domain.ErrBillNotFound
	}
	if err != nil {
		return domain.Bill{}, err
	}
	bills := []domain.Bill{bill}
	if err := s.loadItems(ctx, bills); err != nil {
		return domain.Bill{}, err
	}
	return bills[0], nil
}

// loadItems attaches line items and referenced medicines to the given bills
// with two batched queries.
func (s *BillStore) loadItems(ctx context.Context, bills []domain.Bill) error {
	for i := range bills {
		bills[i].Items = []domain.BillItem{}
	}
	if len(bills) == 0 {
		return nil
	}

	billIDs := make([]int64, len(bills))
	for i, bill := range bills {
		billIDs[i] = bill.ID
	}

	query, args, err := sqlx.In(
		`SELECT id, bill_id, medicine_id, quantity, price_per_unit FROM bill_items
		 WHERE bill_id IN (?) ORDER BY id ASC`, billIDs)
	if err != nil {
		return err
	}
	items := []domain.BillItem{}
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	medicineIDs := make([]int64, 0, len(items))
	for _, item := range items {
		medicineIDs = append(medicineIDs, item.MedicineID)
	}
	query, args, err = sqlx.In(
		`SELECT `+medicineColumns+` FROM medicines WHERE id IN (?)`, medicineIDs)
	if err != nil {
		return err
	}
	medicines := []domain.Medicine{}
	if err := s.db.SelectContext(ctx, &medicines, s.db.Rebind(query), args...); err != nil {
		return err
	}
	medicineByID := make(map[int64]domain.Medicine, len(medicines))
	for _, m := range medicines {
		medicineByID[m.ID] = m
	}

	itemsByBill := make(map[int64][]domain.BillItem)
	for _, item := range items {
		// A deleted medicine leaves the item with a null reference.
		if m, ok := medicineByID[item.MedicineID]; ok {
			med := m
			item.Medicine = &med
		}
		itemsByBill[item.BillID] = append(itemsByBill[item.BillID], item)
	}
	for i := range bills {
		if owned := itemsByBill[bills[i].ID]; owned != nil {
			bills[i].Items = owned
		}
	}
	return nil
}
