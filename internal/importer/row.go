// Package importer implements the telemetry import reconciliation pipeline:
// validating spreadsheet rows, resolving them against reference units and
// physical unit instances, syncing customer data with the external registry,
// and upserting idempotent operational readings.
package importer

import (
	"time"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

// RawRow is one untyped spreadsheet record as posted to the import endpoint.
// Every field is a pointer so the validator can tell absent/null values apart
// from zero values.
type RawRow struct {
	MachineType            *string  `json:"machineType"`
	Manufacturer           *string  `json:"manufacturer"`
	Model                  *string  `json:"model"`
	ModelType              *string  `json:"modelType"`
	SerialNo               *string  `json:"serialNo"`
	CustomerName           *string  `json:"customerName"`
	CustomerOrganizationID *string  `json:"customerOrganizationId"`
	CustomerIndustry       *string  `json:"customerIndustry"`
	SubGroup               *string  `json:"subGroup"`
	Location               *string  `json:"location"`
	Latitude               *float64 `json:"latitude"`
	Longitude              *float64 `json:"longitude"`
	TransmitTime           *string  `json:"transmitTime"`
	GPSTime                *string  `json:"gpsTime"`
	SMRHours               *float64 `json:"smrHours"`
	WorkingHours           *float64 `json:"workingHours"`
	ActualWorkingHours     *float64 `json:"actualWorkingHours"`
	FuelConsumed           *float64 `json:"fuelConsumed"`
}

// ImportRow is a validated, normalized import record. It is immutable once
// produced by the validator. The nullable measurements stay pointers: a row
// with any of them missing still contributes unit and instance data but is
// excluded from operational-data creation.
type ImportRow struct {
	MachineType            string
	Manufacturer           string
	Model                  string
	ModelType              string
	SerialNo               string
	CustomerName           string
	CustomerOrganizationID string
	CustomerIndustry       string
	CustomerSubGroup       string
	Location               string
	Latitude               *float64
	Longitude              *float64
	TransmitTime           time.Time
	GPSTime                time.Time
	SMRHours               float64
	WorkingHours           *float64
	ActualWorkingHours     *float64
	FuelConsumed           *float64
}

// UnitKey derives the natural key of the row's reference unit.
func (r ImportRow) UnitKey() store.UnitKey {
	return store.UnitKey{
		Manufacturer: r.Manufacturer,
		Model:        r.Model,
		ModelType:    r.ModelType,
		MachineType:  r.MachineType,
	}
}
