package importer

import (
	"log"
	"time"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/model"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

// readingKey is the idempotency key of one telemetry reading.
type readingKey struct {
	InstanceID string
	GPSTime    time.Time
}

// buildOperationalData maps rows to upsertable readings. A row is dropped,
// not fatally, when its unit or instance did not resolve or when any measured
// attribute is null (no partial readings). Duplicate (instance, gpsTime) keys
// within the batch reduce last-seen-wins before the upsert, so the batch order
// decides, not upsert completion order. The second return value is the number
// of dropped rows.
func buildOperationalData(rows []ImportRow, units map[store.UnitKey]*model.Unit, instances map[instanceKey]*model.UnitInstance) ([]model.OperationalData, int) {
	keys, reps := reduceRows(rows, keepLast, func(r ImportRow) (readingKey, bool) {
		unit := units[r.UnitKey()]
		if unit == nil {
			return readingKey{}, false
		}
		instance := instances[instanceKey{UnitID: unit.ID, SerialNo: r.SerialNo}]
		if instance == nil {
			return readingKey{}, false
		}
		if r.Latitude == nil || r.Longitude == nil ||
			r.WorkingHours == nil || r.ActualWorkingHours == nil || r.FuelConsumed == nil {
			log.Printf("skipping reading for serial %s at %s: incomplete measurements", r.SerialNo, r.GPSTime.Format(time.RFC3339))
			return readingKey{}, false
		}
		return readingKey{InstanceID: instance.ID, GPSTime: r.GPSTime}, true
	})

	records := make([]model.OperationalData, 0, len(keys))
	for _, key := range keys {
		row := reps[key]
		records = append(records, model.OperationalData{
			InstanceID:      key.InstanceID,
			GPSTime:         key.GPSTime,
			WorkHours:       *row.WorkingHours,
			ActualWorkHours: *row.ActualWorkingHours,
			FuelUsage:       *row.FuelConsumed,
			Latitude:        *row.Latitude,
			Longitude:       *row.Longitude,
			SMR:             row.SMRHours,
		})
	}
	return records, len(rows) - len(records)
}
