package model

import "time"

// OperationalData is one telemetry reading for a UnitInstance at a GPS
// timestamp. (instance_id, gps_time) is the idempotency key: re-importing the
// same reading overwrites every measured attribute, last write wins.
type OperationalData struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	InstanceID      string    `gorm:"size:36;not null;uniqueIndex:idx_operational_data_instance_gps_time" json:"instanceId"`
	GPSTime         time.Time `gorm:"not null;uniqueIndex:idx_operational_data_instance_gps_time" json:"gpsTime"`
	WorkHours       float64   `gorm:"not null" json:"workHours"`
	ActualWorkHours float64   `gorm:"not null" json:"actualWorkHours"`
	FuelUsage       float64   `gorm:"not null" json:"fuelUsage"`
	Latitude        float64   `gorm:"not null" json:"latitude"`
	Longitude       float64   `gorm:"not null" json:"longitude"`
	SMR             float64   `gorm:"not null" json:"smr"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Instance UnitInstance `gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE" json:"-"`
}
