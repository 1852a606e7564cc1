package seed

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LoadMedicines ingests a catalog CSV into the medicines table. Expected
// columns: name, description, price, quantity, expiry_date, manufacturer.
// Rows that fail to parse are skipped with a log line. Medicines carry no
// natural key, so seeding only runs against an empty catalog; restarts do
// not duplicate it.
func LoadMedicines(db *sqlx.DB, csvPath string, logger *zap.Logger) {
	var existing int64
	if err := db.Get(&existing, `SELECT COUNT(*) FROM medicines`); err != nil {
		logger.Warn("unable to inspect medicine catalog", zap.Error(err))
		return
	}
	if existing > 0 {
		logger.Info("medicine catalog already seeded", zap.Int64("rows", existing))
		return
	}

	file, err := os.Open(csvPath)
	if err != nil {
		logger.Warn("unable to load medicine catalog", zap.String("path", csvPath), zap.Error(err))
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		logger.Warn("unable to read medicine header", zap.Error(err))
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		logger.Warn("unable to start medicine transaction", zap.Error(err))
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO medicines (name, description, price, quantity, expiry_date, manufacturer) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		logger.Warn("unable to prepare medicine insert", zap.Error(err))
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("unable to read medicine row", zap.Error(err))
			continue
		}
		if len(record) < 6 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		description := strings.TrimSpace(record[1])
		price, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			logger.Warn("skipping medicine with bad price", zap.String("name", name))
			continue
		}
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		if err != nil {
			logger.Warn("skipping medicine with bad quantity", zap.String("name", name))
			continue
		}
		expiry := strings.TrimSpace(record[4])
		manufacturer := strings.TrimSpace(record[5])

		if _, err := stmt.Exec(name, description, price, quantity, expiry, manufacturer); err != nil {
			logger.Warn("unable to insert medicine", zap.String("name", name), zap.Error(err))
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Warn("unable to commit medicine seed", zap.Error(err))
	} else {
		logger.Info("seeded medicine catalog", zap.Int("rows", rows))
	}
}
