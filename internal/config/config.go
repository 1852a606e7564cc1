package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	DatabaseDSN string
	HTTPPort    string
	AlertHour   int
	MedicineCSV string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "file:medimanager.db?_pragma=foreign_keys(1)"
	}

	alertHour := 9
	if raw := os.Getenv("ALERT_HOUR"); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil || hour < 0 || hour > 23 {
			log.Printf("invalid ALERT_HOUR value %q, defaulting to 9", raw)
		} else {
			alertHour = hour
		}
	}

	return Config{
		DatabaseDSN: dsn,
		HTTPPort:    port,
		AlertHour:   alertHour,
		MedicineCSV: os.Getenv("MEDICINE_CSV"),
	}
}
