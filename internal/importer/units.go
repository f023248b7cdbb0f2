package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/model"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

// resolveUnits reduces the batch to its distinct unit natural keys
// (first-seen row supplies the attribute values) and resolves each key to an
// existing or newly created Unit.
//
// Create-vs-create races with concurrent imports surface as a duplicate-key
// error; the resolver recovers by re-reading the winner. Any other failure
// aborts the batch.
func resolveUnits(ctx context.Context, tx store.Store, rows []ImportRow) (map[store.UnitKey]*model.Unit, int, error) {
	keys, reps := reduceRows(rows, keepFirst, func(r ImportRow) (store.UnitKey, bool) {
		return r.UnitKey(), true
	})

	units := make(map[store.UnitKey]*model.Unit, len(keys))
	createdCount := 0
	for _, key := range keys {
		unit, created, err := resolveUnit(ctx, tx, key, reps[key])
		if err != nil {
			return nil, 0, err
		}
		if created {
			createdCount++
		}
		units[key] = unit
	}
	return units, createdCount, nil
}

func resolveUnit(ctx context.Context, tx store.Store, key store.UnitKey, rep ImportRow) (*model.Unit, bool, error) {
	unit, err := tx.FindUnitByKey(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up unit %v: %w", key, err)
	}
	if unit != nil {
		return unit, false, nil
	}

	created := &model.Unit{
		MachineType:  rep.MachineType,
		Manufacturer: rep.Manufacturer,
		Model:        rep.Model,
		ModelType:    rep.ModelType,
	}
	err = tx.CreateUnit(ctx, created)
	if err == nil {
		return created, true, nil
	}
	if !store.IsDuplicateKey(err) {
		return nil, false, fmt.Errorf("failed to create unit %v: %w", key, err)
	}

	// Lost a create race; the winning row is the result.
	log.Printf("unit %v already created concurrently, re-reading", key)
	unit, err = tx.FindUnitByKey(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-read unit %v after conflict: %w", key, err)
	}
	if unit == nil {
		return nil, false, fmt.Errorf("unit %v missing after duplicate-key conflict", key)
	}
	return unit, false, nil
}
