package migrations

import "gorm.io/gorm"

var indexes = []struct {
	name string
	ddl  string
}{
	{"idx_invitees_category", "CREATE INDEX IF NOT EXISTS idx_invitees_category ON invitees (category)"},
	{"idx_rsvps_attending_created", "CREATE INDEX IF NOT EXISTS idx_rsvps_attending_created ON rsvps (is_attending, created_at)"},
	{"idx_rsvps_created_at", "CREATE INDEX IF NOT EXISTS idx_rsvps_created_at ON rsvps (created_at)"},
	{"idx_gifts_price", "CREATE INDEX IF NOT EXISTS idx_gifts_price ON gifts (price)"},
	{"idx_manual_images_type_order", "CREATE INDEX IF NOT EXISTS idx_manual_images_type_order ON manual_images (type, order_index)"},
}

// migration002Up creates the lookup indexes used by the admin views
func migration002Up(db *gorm.DB) error {
	for _, idx := range indexes {
		if err := db.Exec(idx.ddl).Error; err != nil {
			return err
		}
	}
	return nil
}

func migration002Down(db *gorm.DB) error {
	for _, idx := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + idx.name).Error; err != nil {
			return err
		}
	}
	return nil
}
