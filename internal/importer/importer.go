package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/metrics"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/model"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/registry"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

// CustomerRegistry is the external registry boundary the importer depends on.
type CustomerRegistry interface {
	StoreCustomers(ctx context.Context, token string, customers []registry.Customer) error
	ListCustomers(ctx context.Context, token string) ([]registry.CustomerRecord, error)
}

// Importer runs the import reconciliation pipeline.
type Importer struct {
	store    store.Store
	registry CustomerRegistry
}

// New creates an Importer over the given persistence and registry boundaries.
func New(s store.Store, r CustomerRegistry) *Importer {
	return &Importer{store: s, registry: r}
}

// Result summarizes one committed import.
type Result struct {
	Units            []model.Unit            `json:"units"`
	Instances        []model.UnitInstance    `json:"instances"`
	OperationalData  []model.OperationalData `json:"operationalData"`
	RowCount         int                     `json:"rowCount"`
	SkippedRows      int                     `json:"skippedRows"`
	UnitsCreated     int                     `json:"unitsCreated"`
	InstancesCreated int                     `json:"instancesCreated"`
}

// Run executes the pipeline for one batch: validate, sync customers with the
// external registry, then resolve units, resolve instances and upsert
// operational data inside a single transaction.
//
// The registry call is a deliberate two-phase boundary: it happens before the
// local transaction opens, so a registry failure persists nothing locally, and
// a local rollback cannot undo the registry upsert (which is idempotent on
// organization id). token is the bearer token of the originating request,
// forwarded to the registry.
func (imp *Importer) Run(ctx context.Context, token string, raws []RawRow) (*Result, error) {
	start := time.Now()
	result, err := imp.run(ctx, token, raws)
	metrics.ObserveImport(resultLabel(err), time.Since(start))
	return result, err
}

func (imp *Importer) run(ctx context.Context, token string, raws []RawRow) (*Result, error) {
	rows, verr := ValidateRows(raws)
	if verr != nil {
		return nil, verr
	}

	orgIDs, err := imp.syncCustomers(ctx, token, rows)
	if err != nil {
		return nil, err
	}

	result := &Result{RowCount: len(rows)}
	err = imp.store.WithTransaction(ctx, func(tx store.Store) error {
		units, unitsCreated, err := resolveUnits(ctx, tx, rows)
		if err != nil {
			return err
		}

		instances, instancesCreated, err := resolveInstances(ctx, tx, rows, units, orgIDs)
		if err != nil {
			return err
		}

		records, skipped, err := upsertOperationalData(ctx, tx, rows, units, instances)
		if err != nil {
			return err
		}

		result.Units = orderedUnits(rows, units)
		result.Instances = orderedInstances(rows, units, instances)
		result.OperationalData = records
		result.SkippedRows = skipped
		result.UnitsCreated = unitsCreated
		result.InstancesCreated = instancesCreated
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveRecords(result.RowCount, result.SkippedRows,
		result.UnitsCreated, result.InstancesCreated, len(result.OperationalData))
	return result, nil
}

// syncCustomers deduplicates the batch's customer data, pushes it to the
// registry, and maps each row-supplied organization id to the registry's
// canonical record id. Organization ids absent from the registry's list are
// simply missing from the map; their instances are created unowned.
func (imp *Importer) syncCustomers(ctx context.Context, token string, rows []ImportRow) (map[string]string, error) {
	customers := dedupeCustomers(rows)

	if err := imp.registry.StoreCustomers(ctx, token, customers); err != nil {
		return nil, fmt.Errorf("customer sync failed: %w", err)
	}

	records, err := imp.registry.ListCustomers(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("customer sync failed: %w", err)
	}

	orgIDs := make(map[string]string, len(records))
	for _, record := range records {
		orgIDs[record.OrganizationID] = record.ID
	}
	return orgIDs, nil
}

func upsertOperationalData(ctx context.Context, tx store.Store, rows []ImportRow, units map[store.UnitKey]*model.Unit, instances map[instanceKey]*model.UnitInstance) ([]model.OperationalData, int, error) {
	records, skipped := buildOperationalData(rows, units, instances)
	if err := tx.UpsertOperationalData(ctx, records); err != nil {
		return nil, 0, fmt.Errorf("failed to upsert operational data: %w", err)
	}
	return records, skipped, nil
}

func orderedUnits(rows []ImportRow, units map[store.UnitKey]*model.Unit) []model.Unit {
	keys, _ := reduceRows(rows, keepFirst, func(r ImportRow) (store.UnitKey, bool) {
		_, ok := units[r.UnitKey()]
		return r.UnitKey(), ok
	})

	out := make([]model.Unit, 0, len(keys))
	for _, key := range keys {
		out = append(out, *units[key])
	}
	return out
}

func orderedInstances(rows []ImportRow, units map[store.UnitKey]*model.Unit, instances map[instanceKey]*model.UnitInstance) []model.UnitInstance {
	keys, _ := reduceRows(rows, keepFirst, func(r ImportRow) (instanceKey, bool) {
		unit := units[r.UnitKey()]
		if unit == nil {
			return instanceKey{}, false
		}
		key := instanceKey{UnitID: unit.ID, SerialNo: r.SerialNo}
		_, ok := instances[key]
		return key, ok
	})

	out := make([]model.UnitInstance, 0, len(keys))
	for _, key := range keys {
		out = append(out, *instances[key])
	}
	return out
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case isValidationError(err):
		return metrics.ResultValidation
	case isUpstreamError(err):
		return metrics.ResultUpstream
	default:
		return metrics.ResultInternal
	}
}

func isValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func isUpstreamError(err error) bool {
	var uerr *registry.UpstreamError
	return errors.As(err, &uerr)
}
