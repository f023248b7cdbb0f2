package importer

import "github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/registry"

// keepPolicy controls which row wins when several rows in a batch reduce to
// the same key. Batch position decides, never completion order of any
// concurrent sub-operation.
type keepPolicy int

const (
	keepFirst keepPolicy = iota
	keepLast
)

// reduceRows groups rows by key in input order. The returned keys preserve
// first-appearance order; the representative row per key is chosen by policy.
// keyFn may reject a row by returning ok=false, which drops it from the
// reduction without affecting the rest of the batch.
func reduceRows[K comparable](rows []ImportRow, policy keepPolicy, keyFn func(ImportRow) (K, bool)) ([]K, map[K]ImportRow) {
	keys := make([]K, 0, len(rows))
	reps := make(map[K]ImportRow, len(rows))

	for _, row := range rows {
		key, ok := keyFn(row)
		if !ok {
			continue
		}
		if _, seen := reps[key]; !seen {
			keys = append(keys, key)
			reps[key] = row
			continue
		}
		if policy == keepLast {
			reps[key] = row
		}
	}
	return keys, reps
}

// dedupeCustomers reduces the batch to one customer per organization id,
// first-seen row wins for name/industry/subgroup.
func dedupeCustomers(rows []ImportRow) []registry.Customer {
	keys, reps := reduceRows(rows, keepFirst, func(r ImportRow) (string, bool) {
		return r.CustomerOrganizationID, true
	})

	customers := make([]registry.Customer, 0, len(keys))
	for _, orgID := range keys {
		rep := reps[orgID]
		customers = append(customers, registry.Customer{
			OrganizationID: rep.CustomerOrganizationID,
			Name:           rep.CustomerName,
			Industry:       rep.CustomerIndustry,
			SubGroup:       rep.CustomerSubGroup,
		})
	}
	return customers
}
