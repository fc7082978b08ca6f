package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GatewaySetting is one persisted runtime option of the gateway, stored as a
// name/value pair. The typed view over these rows lives in internal/settings.
type GatewaySetting struct {
	// Name is the unique option name.
	Name string `gorm:"primaryKey;type:varchar(64)" json:"name"`

	// Value is the string-encoded option value.
	Value string `gorm:"type:text" json:"value"`

	// UpdatedAt is when the option was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (GatewaySetting) TableName() string {
	return "gateway_settings"
}

// Get retrieves a setting by name. The boolean reports whether the row
// exists; an absent setting is not an error.
func (s *GatewaySetting) Get(db *gorm.DB, name string) (bool, error) {
	err := db.First(s, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error getting setting %q: %w", name, err)
	}
	return true, nil
}

// Upsert creates the setting or overwrites its value.
func (s *GatewaySetting) Upsert(db *gorm.DB) error {
	return db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(s).
		Error
}

// CreateIfAbsent inserts the setting only when no row with the same name
// exists yet. Concurrent first writers are resolved by the storage engine's
// conflict handling. It returns true when this call created the row.
func (s *GatewaySetting) CreateIfAbsent(db *gorm.DB) (bool, error) {
	res := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(s)
	if res.Error != nil {
		return false, fmt.Errorf("error creating setting %q: %w", s.Name, res.Error)
	}
	return res.RowsAffected > 0, nil
}
