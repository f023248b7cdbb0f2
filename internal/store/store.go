package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/model"
)

// UnitKey is the natural key of a reference Unit. It exists only for the
// duration of an import; it is never persisted as its own entity.
type UnitKey struct {
	Manufacturer string
	Model        string
	ModelType    string
	MachineType  string
}

// Store defines the interface for all database operations. All writes made
// through a store obtained from WithTransaction commit or roll back together.
type Store interface {
	DB() *gorm.DB

	// WithTransaction runs fn with a store scoped to a single transaction.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error

	FindUnitByKey(ctx context.Context, key UnitKey) (*model.Unit, error)
	CreateUnit(ctx context.Context, unit *model.Unit) error

	FindInstance(ctx context.Context, unitID, serialNo string) (*model.UnitInstance, error)
	CreateInstance(ctx context.Context, instance *model.UnitInstance) error
	UpdateInstanceOwner(ctx context.Context, instanceID, organizationID string) error

	UpsertOperationalData(ctx context.Context, records []model.OperationalData) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// WithTransaction wraps fn in a single database transaction. The transaction
// owns one connection, so the store handed to fn must not be used
// concurrently.
func (s *gormStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// IsDuplicateKey reports whether err is a unique-constraint violation. This is
// the conflict signal of the lookup-then-create race policy: callers re-read
// by natural key instead of failing.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// FindUnitByKey looks up a Unit by its natural key. A missing unit is not an
// error; it returns (nil, nil).
func (s *gormStore) FindUnitByKey(ctx context.Context, key UnitKey) (*model.Unit, error) {
	var unit model.Unit
	err := s.db.WithContext(ctx).
		Where("manufacturer = ? AND model = ? AND model_type = ? AND machine_type = ?",
			key.Manufacturer, key.Model, key.ModelType, key.MachineType).
		First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// CreateUnit inserts a new Unit, generating its id when unset.
func (s *gormStore) CreateUnit(ctx context.Context, unit *model.Unit) error {
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(unit).Error
}

// FindInstance looks up a UnitInstance by (unit id, serial number). A missing
// instance returns (nil, nil).
func (s *gormStore) FindInstance(ctx context.Context, unitID, serialNo string) (*model.UnitInstance, error) {
	var instance model.UnitInstance
	err := s.db.WithContext(ctx).
		Where("unit_id = ? AND serial_no = ?", unitID, serialNo).
		First(&instance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// CreateInstance inserts a new UnitInstance, generating its id when unset.
func (s *gormStore) CreateInstance(ctx context.Context, instance *model.UnitInstance) error {
	if instance.ID == "" {
		instance.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(instance).Error
}

// UpdateInstanceOwner reassigns an instance's owning customer organization.
func (s *gormStore) UpdateInstanceOwner(ctx context.Context, instanceID, organizationID string) error {
	return s.db.WithContext(ctx).
		Model(&model.UnitInstance{}).
		Where("id = ?", instanceID).
		Updates(map[string]any{
			"organization_id": organizationID,
			"updated_at":      time.Now().UTC(),
		}).Error
}

// UpsertOperationalData batch-upserts readings keyed by (instance_id,
// gps_time). On conflict every measured attribute is overwritten; the natural
// key and created_at are left alone.
func (s *gormStore) UpsertOperationalData(ctx context.Context, records []model.OperationalData) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "instance_id"}, {Name: "gps_time"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"work_hours", "actual_work_hours", "fuel_usage",
			"latitude", "longitude", "smr", "updated_at",
		}),
	}).Create(&records).Error
}
