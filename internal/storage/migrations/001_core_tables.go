package migrations

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// migration001Up creates the tables from the domain models
func migration001Up(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// migration001Down drops the tables in reverse creation order
func migration001Down(db *gorm.DB) error {
	tables := Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(tables[i])).Error; err != nil {
			return err
		}
	}
	return nil
}
