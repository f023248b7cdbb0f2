package importer

import (
	"strings"
	"time"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/parse"
)

// ValidateRows validates every raw row independently against the import
// schema. If any row fails, the whole batch is rejected: the returned
// ValidationError carries one slot per row so the caller can report every
// failure at once.
func ValidateRows(raws []RawRow) ([]ImportRow, *ValidationError) {
	rows := make([]ImportRow, 0, len(raws))
	slots := make([]RowErrors, len(raws))
	failed := false

	for i, raw := range raws {
		row, errs := validateRow(raw)
		if errs != nil {
			slots[i] = errs
			failed = true
			continue
		}
		rows = append(rows, row)
	}

	if failed {
		return nil, &ValidationError{Rows: slots}
	}
	return rows, nil
}

func validateRow(raw RawRow) (ImportRow, RowErrors) {
	var errs RowErrors
	var row ImportRow

	row.MachineType = requireString(&errs, "machineType", raw.MachineType, "Machine type must not be empty")
	row.Manufacturer = requireString(&errs, "manufacturer", raw.Manufacturer, "Manufacturer must not be empty")
	row.Model = requireString(&errs, "model", raw.Model, "Model must not be empty")
	row.ModelType = requireString(&errs, "modelType", raw.ModelType, "Model type must not be empty")
	row.SerialNo = requireString(&errs, "serialNo", raw.SerialNo, "Serial number must not be empty")
	row.CustomerName = requireString(&errs, "customerName", raw.CustomerName, "Customer name must not be empty")
	row.CustomerOrganizationID = requireString(&errs, "customerOrganizationId", raw.CustomerOrganizationID, "Customer organization ID must not be empty")
	row.Location = requireString(&errs, "location", raw.Location, "Location must not be empty")

	// Optional descriptive fields.
	if raw.CustomerIndustry != nil {
		row.CustomerIndustry = strings.TrimSpace(*raw.CustomerIndustry)
	}
	if raw.SubGroup != nil {
		row.CustomerSubGroup = strings.TrimSpace(*raw.SubGroup)
	}

	row.TransmitTime = requireTimestamp(&errs, "transmitTime", raw.TransmitTime, "Transmit time")
	row.GPSTime = requireTimestamp(&errs, "gpsTime", raw.GPSTime, "GPS time")

	if raw.SMRHours == nil {
		errs.add("smrHours", "SMR hours must not be empty")
	} else if *raw.SMRHours < 0 {
		errs.add("smrHours", "SMR hours must be a positive number")
	} else {
		row.SMRHours = *raw.SMRHours
	}

	row.Latitude = boundedNullable(&errs, "latitude", raw.Latitude, -90, 90, "Latitude must be between -90 and 90")
	row.Longitude = boundedNullable(&errs, "longitude", raw.Longitude, -180, 180, "Longitude must be between -180 and 180")
	row.WorkingHours = nonNegativeNullable(&errs, "workingHours", raw.WorkingHours, "Working hours must be a positive number")
	row.ActualWorkingHours = nonNegativeNullable(&errs, "actualWorkingHours", raw.ActualWorkingHours, "Actual working hours must be a positive number")
	row.FuelConsumed = nonNegativeNullable(&errs, "fuelConsumed", raw.FuelConsumed, "Fuel consumed must be a positive number")

	if errs != nil {
		return ImportRow{}, errs
	}
	return row, nil
}

func requireString(errs *RowErrors, field string, value *string, message string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		errs.add(field, message)
		return ""
	}
	return strings.TrimSpace(*value)
}

func requireTimestamp(errs *RowErrors, field string, value *string, label string) time.Time {
	if value == nil || strings.TrimSpace(*value) == "" {
		errs.add(field, label+" must not be empty")
		return time.Time{}
	}
	t, err := parse.Timestamp(*value)
	if err != nil {
		errs.add(field, label+" must be a valid date string")
		return time.Time{}
	}
	return t
}

func boundedNullable(errs *RowErrors, field string, value *float64, min, max float64, message string) *float64 {
	if value == nil {
		return nil
	}
	if *value < min || *value > max {
		errs.add(field, message)
		return nil
	}
	return value
}

func nonNegativeNullable(errs *RowErrors, field string, value *float64, message string) *float64 {
	if value == nil {
		return nil
	}
	if *value < 0 {
		errs.add(field, message)
		return nil
	}
	return value
}
