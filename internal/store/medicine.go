package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"medimanager/m/domain"
)

const medicineColumns = `id, name, description, price, quantity, expiry_date, manufacturer`

// MedicineStore persists the medicine catalog.
type MedicineStore struct {
	db *sqlx.DB
}

func NewMedicineStore(db *sqlx.DB) *MedicineStore {
	return &MedicineStore{db: db}
}

// Add inserts a new medicine and returns it with its assigned id.
func (s *MedicineStore) Add(ctx context.Context, m domain.Medicine) (domain.Medicine, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO medicines (name, description, price, quantity, expiry_date, manufacturer)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Name, m.Description, m.Price, m.Quantity, m.ExpiryDate, m.Manufacturer)
	if err != nil {
		return domain.Medicine{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Medicine{}, err
	}
	m.ID = id
	return m, nil
}

// Update overwrites all mutable fields of the medicine with the given id.
// Partial updates are not supported.
func (s *MedicineStore) Update(ctx context.Context, id int64, m domain.Medicine) (domain.Medicine, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE medicines SET name = ?, description = ?, price = ?, quantity = ?, expiry_date = ?, manufacturer = ?
		 WHERE id = ?`,
		m.Name, m.Description, m.Price, m.Quantity, m.ExpiryDate, m.Manufacturer, id)
	if err != nil {
		return domain.Medicine{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Medicine{}, err
	}
	if affected == 0 {
		return domain.Medicine{}, domain.ErrMedicineNotFound
	}
	m.ID = id
	return m, nil
}

// Delete removes the medicine with the given id. Deleting a missing id is
// not an error.
func (s *MedicineStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, id)
	return err
}

// List returns all medicines in storage order.
func (s *MedicineStore) List(ctx context.Context) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	err := s.db.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines`)
	return medicines, err
}

// SearchByName returns all medicines whose name contains the given substring,
// matched case-insensitively.
func (s *MedicineStore) SearchByName(ctx context.Context, name string) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	err := s.db.SelectContext(ctx, &medicines,
		`SELECT `+medicineColumns+` FROM medicines WHERE LOWER(name) LIKE '%' || LOWER(?) || '%'`, name)
	return medicines, err
}

// LowStock returns all medicines with quantity strictly below the threshold.
func (s *MedicineStore) LowStock(ctx context.Context, threshold int64) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	err := s.db.SelectContext(ctx, &medicines,
		`SELECT `+medicineColumns+` FROM medicines WHERE quantity < ?`, threshold)
	return medicines, err
}

// ExpiringSoon returns all medicines whose expiry date falls on or before
// today plus the given number of days. There is no lower bound, so rows that
// have already expired are included.
func (s *MedicineStore) ExpiringSoon(ctx context.Context, days int) ([]domain.Medicine, error) {
	cutoff := time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
	medicines := []domain.Medicine{}
	err := s.db.SelectContext(ctx, &medicines,
		`SELECT `+medicineColumns+` FROM medicines WHERE expiry_date <> '' AND expiry_date <= ?
		 ORDER BY expiry_date ASC`, cutoff)
	return medicines, err
}
