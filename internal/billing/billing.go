// Package billing implements bill creation: the one multi-entity write in
// the system. A bill request is priced from the current catalog, decrements
// stock, and persists atomically; either every line item goes through or
// nothing does.
package billing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"medimanager/m/domain"
	"medimanager/m/internal/store"
)

// Service coordinates the bill-creation transaction.
type Service struct {
	db    *sqlx.DB
	bills *store.BillStore
}

func NewService(db *sqlx.DB, bills *store.BillStore) *Service {
	return &Service{db: db, bills: bills}
}

// CreateBill validates stock for every requested item in order, decrements
// inventory, snapshots each item's price from the catalog and persists the
// bill. Each input item carries a medicine reference and a quantity; ids,
// prices and the total are assigned here.
//
// All reads and writes run in a single transaction: a failing item rolls
// back every decrement made for the items before it.
func (s *Service) CreateBill(ctx context.Context, requested []domain.BillItem) (domain.Bill, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Bill{}, err
	}
	defer tx.Rollback()

	bill := domain.Bill{
		BillDate: time.Now().Format(domain.DateLayout),
		Items:    []domain.BillItem{},
	}

	var total float64
	for _, item := range requested {
		if item.Medicine == nil {
			return domain.Bill{}, domain.ErrMedicineNotFound
		}
		// A non-positive quantity would pass the stock check and increment
		// inventory through the decrement below.
		if item.Quantity <= 0 {
			return domain.Bill{}, domain.ErrInvalidQuantity
		}

		var med domain.Medicine
		err := tx.GetContext(ctx, &med,
			`SELECT id, name, description, price, quantity, expiry_date, manufacturer
			 FROM medicines WHERE id = ?`, item.Medicine.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Bill{}, domain.ErrMedicineNotFound
		}
		if err != nil {
			return domain.Bill{}, err
		}

		if med.Quantity < item.Quantity {
			return domain.Bill{}, &domain.InsufficientStockError{MedicineName: med.Name}
		}

		// Persisted immediately so a later duplicate reference to the same
		// medicine sees the reduced stock.
		if _, err := tx.ExecContext(ctx,
			`UPDATE medicines SET quantity = quantity - ? WHERE id = ?`,
			item.Quantity, med.ID); err != nil {
			return domain.Bill{}, err
		}
		med.Quantity -= item.Quantity

		bill.Items = append(bill.Items, domain.BillItem{
			MedicineID:   med.ID,
			Quantity:     item.Quantity,
			PricePerUnit: med.Price,
			Medicine:     &med,
		})
		total += med.Price * float64(item.Quantity)
	}

	bill.TotalAmount = total
	if err := s.bills.Save(ctx, tx, &bill); err != nil {
		return domain.Bill{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Bill{}, err
	}
	return bill, nil
}
