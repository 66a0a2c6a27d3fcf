package db

import "gorm.io/gorm"

// EnsureSchema creates schema if it is missing.
func EnsureSchema(d *gorm.DB, schema string) error {
	return annotate(d.Exec("CREATE SCHEMA IF NOT EXISTS " + QuoteTable(schema)).Error)
}
