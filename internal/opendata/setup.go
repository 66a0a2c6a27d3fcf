package opendata

import (
	"github.com/EmpoweredVote/EV-OpenData/internal/db"
	"gorm.io/gorm"
)

// Migrate creates the opendata schema and its tables.
func Migrate(d *gorm.DB) error {
	if err := db.EnsureSchema(d, Schema); err != nil {
		return err
	}
	return d.AutoMigrate(&District{}, &LivingPlace{}, &Station{})
}
