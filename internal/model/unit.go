package model

import "time"

// Unit represents a reference equipment model (not a physical machine).
// The natural key is (manufacturer, model, model_type, machine_type);
// a Unit is created once and never mutated afterwards.
type Unit struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	MachineType  string    `gorm:"size:128;not null;uniqueIndex:idx_units_natural_key" json:"machineType"`
	Manufacturer string    `gorm:"size:128;not null;uniqueIndex:idx_units_natural_key" json:"manufacturer"`
	Model        string    `gorm:"size:128;not null;uniqueIndex:idx_units_natural_key" json:"model"`
	ModelType    string    `gorm:"size:128;not null;uniqueIndex:idx_units_natural_key" json:"modelType"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Instances []UnitInstance `gorm:"foreignKey:UnitID" json:"-"`
}
