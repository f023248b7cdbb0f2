package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/model"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

// instanceKey identifies a physical unit instance within a batch.
type instanceKey struct {
	UnitID   string
	SerialNo string
}

// resolveInstances walks the batch in row order and resolves each (unit,
// serial) pair to an existing or newly created UnitInstance, reassigning the
// owning customer when a row's resolved organization differs from the stored
// one. Processing in row order makes ownership last-seen-wins within the
// batch.
//
// orgIDs maps a row's customer organization id to the registry's canonical
// record id; an unmatched organization leaves the instance unowned.
func resolveInstances(ctx context.Context, tx store.Store, rows []ImportRow, units map[store.UnitKey]*model.Unit, orgIDs map[string]string) (map[instanceKey]*model.UnitInstance, int, error) {
	instances := make(map[instanceKey]*model.UnitInstance)
	createdCount := 0

	for _, row := range rows {
		unit := units[row.UnitKey()]
		if unit == nil {
			log.Printf("skipping instance for serial %s: unit not resolved", row.SerialNo)
			continue
		}

		owner := orgIDs[row.CustomerOrganizationID]
		key := instanceKey{UnitID: unit.ID, SerialNo: row.SerialNo}

		if instance, seen := instances[key]; seen {
			// Same pair again later in the batch: only the owner may change.
			if instance.OrganizationID != owner {
				if err := tx.UpdateInstanceOwner(ctx, instance.ID, owner); err != nil {
					return nil, 0, fmt.Errorf("failed to reassign instance %s owner: %w", instance.ID, err)
				}
				instance.OrganizationID = owner
			}
			continue
		}

		instance, created, err := resolveInstance(ctx, tx, key, owner)
		if err != nil {
			return nil, 0, err
		}
		if created {
			createdCount++
		}
		instances[key] = instance
	}
	return instances, createdCount, nil
}

func resolveInstance(ctx context.Context, tx store.Store, key instanceKey, owner string) (*model.UnitInstance, bool, error) {
	instance, err := tx.FindInstance(ctx, key.UnitID, key.SerialNo)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up instance (%s, %s): %w", key.UnitID, key.SerialNo, err)
	}

	created := false
	if instance == nil {
		instance, created, err = createInstance(ctx, tx, key, owner)
		if err != nil {
			return nil, false, err
		}
	}

	if instance.OrganizationID != owner {
		if err := tx.UpdateInstanceOwner(ctx, instance.ID, owner); err != nil {
			return nil, false, fmt.Errorf("failed to reassign instance %s owner: %w", instance.ID, err)
		}
		instance.OrganizationID = owner
	}
	return instance, created, nil
}

func createInstance(ctx context.Context, tx store.Store, key instanceKey, owner string) (*model.UnitInstance, bool, error) {
	created := &model.UnitInstance{
		UnitID:         key.UnitID,
		SerialNo:       key.SerialNo,
		OrganizationID: owner,
	}
	err := tx.CreateInstance(ctx, created)
	if err == nil {
		return created, true, nil
	}
	if !store.IsDuplicateKey(err) {
		return nil, false, fmt.Errorf("failed to create instance (%s, %s): %w", key.UnitID, key.SerialNo, err)
	}

	// Same re-read policy as unit resolution.
	log.Printf("instance (%s, %s) already created concurrently, re-reading", key.UnitID, key.SerialNo)
	instance, err := tx.FindInstance(ctx, key.UnitID, key.SerialNo)
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-read instance (%s, %s) after conflict: %w", key.UnitID, key.SerialNo, err)
	}
	if instance == nil {
		return nil, false, fmt.Errorf("instance (%s, %s) missing after duplicate-key conflict", key.UnitID, key.SerialNo)
	}
	return instance, false, nil
}
