package model

import "time"

// UnitInstance is one physical piece of equipment: a serial number under a
// Unit. The serial number is unique within its Unit. OrganizationID holds the
// customer registry's canonical record id and is empty while the instance is
// unowned; it is the only field this pipeline mutates after creation.
type UnitInstance struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	UnitID         string    `gorm:"size:36;not null;uniqueIndex:idx_instances_unit_serial" json:"unitId"`
	SerialNo       string    `gorm:"size:128;not null;uniqueIndex:idx_instances_unit_serial" json:"serialNo"`
	OrganizationID string    `gorm:"size:64" json:"organizationId"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Unit Unit `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
