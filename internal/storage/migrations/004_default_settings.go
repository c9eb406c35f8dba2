package migrations

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/settings"
)

// migration004Up seeds the singleton settings rows
func migration004Up(db *gorm.DB) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(settings.DefaultEventSettings()).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(settings.DefaultManualSettings()).Error
}

func migration004Down(db *gorm.DB) error {
	if err := db.Where("id = ?", common.SingletonID).Delete(&settings.EventSettings{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", common.SingletonID).Delete(&settings.ManualSettings{}).Error
}
