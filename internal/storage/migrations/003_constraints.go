package migrations

import "gorm.io/gorm"

// SQLite cannot add constraints to an existing table, so these only
// apply on PostgreSQL. The domain Validate methods enforce the same rules.
var constraints = []struct {
	table string
	name  string
	check string
}{
	{"invitees", "chk_invitees_guest_limit", "CHECK (guest_limit >= 1)"},
	{"rsvps", "chk_rsvps_number_of_guests", "CHECK (number_of_guests >= 0)"},
	{"rsvps", "chk_rsvps_declined_no_guests", "CHECK (is_attending OR number_of_guests = 0)"},
	{"rsvps", "chk_rsvps_source", "CHECK (source IN ('form', 'admin', 'import'))"},
	{"gifts", "chk_gifts_price", "CHECK (price >= 0)"},
	{"manual_images", "chk_manual_images_type", "CHECK (type IN ('madrinhas', 'padrinhos'))"},
}

// migration003Up adds check constraints and the invitee foreign key
func migration003Up(db *gorm.DB) error {
	if !isPostgres(db) {
		return nil
	}

	for _, c := range constraints {
		if err := db.Exec("ALTER TABLE " + c.table + " ADD CONSTRAINT " + c.name + " " + c.check).Error; err != nil {
			return err
		}
	}

	return db.Exec(`
        ALTER TABLE rsvps
        ADD CONSTRAINT fk_rsvps_invitee
        FOREIGN KEY (invitee_id) REFERENCES invitees (id) ON DELETE SET NULL
    `).Error
}

func migration003Down(db *gorm.DB) error {
	if !isPostgres(db) {
		return nil
	}

	if err := db.Exec("ALTER TABLE rsvps DROP CONSTRAINT IF EXISTS fk_rsvps_invitee").Error; err != nil {
		return err
	}
	for _, c := range constraints {
		if err := db.Exec("ALTER TABLE " + c.table + " DROP CONSTRAINT IF EXISTS " + c.name).Error; err != nil {
			return err
		}
	}
	return nil
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
