package store

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"medimanager/m/domain"
	"medimanager/m/internal/database"
	"medimanager/m/internal/migrations"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return db
}

func TestMedicineAddAndList(t *testing.T) {
	s := NewMedicineStore(newTestDB(t))
	ctx := context.Background()

	created, err := s.Add(ctx, domain.Medicine{
		Name:         "Paracetamol",
		Description:  "painkiller",
		Price:        10.0,
		Quantity:     5,
		ExpiryDate:   "2027-01-31",
		Manufacturer: "Acme Pharma",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, created, all[0])
}

func TestMedicineUpdateOverwritesAllFields(t *testing.T) {
	s := NewMedicineStore(newTestDB(t))
	ctx := context.Background()

	created, err := s.Add(ctx, domain.Medicine{Name: "Paracetamol", Price: 10, Quantity: 5})
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, domain.Medicine{
		Name:         "Paracetamol 500",
		Description:  "updated",
		Price:        12.5,
		Quantity:     8,
		ExpiryDate:   "2027-06-30",
		Manufacturer: "Acme Pharma",
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Paracetamol 500", updated.Name)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, updated, all[0])
}

func TestMedicineUpdateNotFound(t *testing.T) {
	s := NewMedicineStore(newTestDB(t))

	_, err := s.Update(context.Background(), 999, domain.Medicine{Name: "Ghost"})
	require.ErrorIs(t, err, domain.ErrMedicineNotFound)
}

func TestMedicineDeleteIsIdempotent(t *testing.T) {
	s := NewMedicineStore(newTestDB(t))
	ctx := context.Background()

	created, err := s.Add(ctx, domain.Medicine{Name: "Paracetamol"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))
	require.NoError(t, s.Delete(ctx, created.ID))
	require.NoError(t, s.Delete(ctx, 12345))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestSearchByNameIsCaseInsensitiveSubstring(t *testing.T) {
	s := NewMedicineStore(newTestDB(t))
	ctx := context.Background()

	_, err := s.Add(ctx, domain.Medicine{Name: "Paracetamol"})
	require.NoError(t, err)
	_, err = s.Add(ctx, domain.Medicine{Name: "Ibuprofen"})
	require.NoError(t, err)

	for _, query := range []string{"para", "PARA", "acet", "Paracetamol"} {
		matches, err := s.SearchByName(ctx, query)
		require.NoError(t, err, query)
		require.Len(t, matches, 1, query)
		require.Equal(t, "Paracetamol", matches[0].Name, query)
	}

	matches, err := s.SearchByName(ctx, "aspirin")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestLowStockIsStrictlyBelowThreshold(t *testing.T) {
	s := NewMedicineStore(newTestDB(t))
	ctx := context.Background()

	_, err := s.Add(ctx, domain.Medicine{Name: "Empty", Quantity: 0})
	require.NoError(t, err)
	_, err = s.Add(ctx, domain.Medicine{Name: "Low", Quantity: 4})
	require.NoError(t, err)
	_, err = s.Add(ctx, domain.Medicine{Name: "AtThreshold", Quantity: 5})
	require.NoError(t, err)
	_, err = s.Add(ctx, domain.Medicine{Name: "Plenty", Quantity: 50})
	require.NoError(t, err)

	low, err := s.LowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 2)
	names := []string{low[0].Name, low[1].Name}
	require.ElementsMatch(t, []string{"Empty", "Low"}, names)

	low, err = s.LowStock(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, low)

	low, err = s.LowStock(ctx, -3)
	require.NoError(t, err)
	require.Empty(t, low)
}

func TestExpiringSoonIncludesAlreadyExpired(t *testing.T) {
	s := NewMedicineStore(newTestDB(t))
	ctx := context.Background()

	day := func(offset int) string {
		return time.Now().AddDate(0, 0, offset).Format(domain.DateLayout)
	}

	_, err := s.Add(ctx, domain.Medicine{Name: "Expired", ExpiryDate: day(-10)})
	require.NoError(t, err)
	_, err = s.Add(ctx, domain.Medicine{Name: "SoonToExpire", ExpiryDate: day(10)})
	require.NoError(t, err)
	_, err = s.Add(ctx, domain.Medicine{Name: "FarOut", ExpiryDate: day(90)})
	require.NoError(t, err)
	_, err = s.Add(ctx, domain.Medicine{Name: "NoExpiry"})
	require.NoError(t, err)

	expiring, err := s.ExpiringSoon(ctx, 30)
	require.NoError(t, err)
	require.Len(t, expiring, 2)
	require.Equal(t, "Expired", expiring[0].Name)
	require.Equal(t, "SoonToExpire", expiring[1].Name)

	// With a zero window only the already-expired row qualifies.
	expiring, err = s.ExpiringSoon(ctx, 0)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	require.Equal(t, "Expired", expiring[0].Name)
}
