package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medimanager/m/domain"
	"medimanager/m/internal/database"
	"medimanager/m/internal/migrations"
)

func TestLoadMedicinesSkipsBadRows(t *testing.T) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	csvPath := filepath.Join(t.TempDir(), "medicines.csv")
	content := "name,description,price,quantity,expiry_date,manufacturer\n" +
		"Paracetamol,painkiller,10.5,100,2027-01-31,Acme Pharma\n" +
		"Broken,oops,not-a-price,3,2027-01-31,Acme Pharma\n" +
		",missing name,1,1,2027-01-31,Acme Pharma\n" +
		"Ibuprofen,,4.25,40,,Beta Labs\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	LoadMedicines(db, csvPath, zap.NewNop())

	medicines := []domain.Medicine{}
	require.NoError(t, db.Select(&medicines, `SELECT id, name, description, price, quantity, expiry_date, manufacturer FROM medicines`))
	require.Len(t, medicines, 2)
	require.Equal(t, "Paracetamol", medicines[0].Name)
	require.Equal(t, 10.5, medicines[0].Price)
	require.Equal(t, int64(100), medicines[0].Quantity)
	require.Equal(t, "Ibuprofen", medicines[1].Name)
}

func TestLoadMedicinesDoesNotReseedPopulatedCatalog(t *testing.T) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	csvPath := filepath.Join(t.TempDir(), "medicines.csv")
	content := "name,description,price,quantity,expiry_date,manufacturer\n" +
		"Paracetamol,painkiller,10.5,100,2027-01-31,Acme Pharma\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	LoadMedicines(db, csvPath, zap.NewNop())
	LoadMedicines(db, csvPath, zap.NewNop())

	var count int64
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM medicines`))
	require.EqualValues(t, 1, count)
}

func TestLoadMedicinesMissingFileIsNotFatal(t *testing.T) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	LoadMedicines(db, "/nonexistent/medicines.csv", zap.NewNop())

	var count int64
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM medicines`))
	require.Zero(t, count)
}
