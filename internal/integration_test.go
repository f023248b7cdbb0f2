package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/config"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/api"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/importer"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/model"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/registry"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

// fakeRegistryServer emulates the external customer registry: POST /data/store
// upserts by organization id, GET /data lists canonical records.
type fakeRegistryServer struct {
	mu       map[string]registry.CustomerRecord
	order    []string
	failWith int // when non-zero, every request returns this status
}

func newFakeRegistryServer() *fakeRegistryServer {
	return &fakeRegistryServer{mu: make(map[string]registry.CustomerRecord)}
}

func (f *fakeRegistryServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.failWith != 0 {
			w.WriteHeader(f.failWith)
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/data/store":
			var customers []registry.Customer
			if err := json.NewDecoder(r.Body).Decode(&customers); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			for _, c := range customers {
				if _, ok := f.mu[c.OrganizationID]; !ok {
					f.order = append(f.order, c.OrganizationID)
					f.mu[c.OrganizationID] = registry.CustomerRecord{
						ID:             fmt.Sprintf("cust-%d", len(f.order)),
						OrganizationID: c.OrganizationID,
						Name:           c.Name,
						Industry:       c.Industry,
						SubGroup:       c.SubGroup,
					}
				}
			}
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodGet && r.URL.Path == "/data":
			records := make([]registry.CustomerRecord, 0, len(f.order))
			for _, orgID := range f.order {
				records = append(records, f.mu[orgID])
			}
			json.NewEncoder(w).Encode(map[string]any{"data": records})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB, *fakeRegistryServer) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(&model.Unit{}, &model.UnitInstance{}, &model.OperationalData{}))

	fakeRegistry := newFakeRegistryServer()
	registryServer := httptest.NewServer(fakeRegistry.handler())
	t.Cleanup(registryServer.Close)

	registryClient := registry.NewClient(&config.RegistryConfig{
		BaseURL:       registryServer.URL,
		ServiceSecret: "secret",
	})

	appStore := store.NewGormStore(testDB)
	imp := importer.New(appStore, registryClient)

	serverCfg := &config.ServerConfig{
		Port:            8080,
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	}
	router := api.NewRouter(serverCfg, appStore, imp)
	return router, testDB, fakeRegistry
}

func importRowJSON(overrides map[string]any) map[string]any {
	row := map[string]any{
		"machineType":            "Excavator",
		"manufacturer":           "Cat",
		"model":                  "320",
		"modelType":              "GC",
		"serialNo":               "SN1",
		"customerName":           "Acme Mining",
		"customerOrganizationId": "org1",
		"customerIndustry":       "Mining",
		"subGroup":               "Coal",
		"location":               "Site A",
		"latitude":               1.0,
		"longitude":              2.0,
		"transmitTime":           "2024-01-01T00:00:00Z",
		"gpsTime":                "2024-01-01T00:00:00Z",
		"smrHours":               100.0,
		"workingHours":           10.0,
		"actualWorkingHours":     9.0,
		"fuelConsumed":           5.0,
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func postImport(t *testing.T, router *gin.Engine, rows []map[string]any) *httptest.ResponseRecorder {
	body, err := json.Marshal(rows)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/imports", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestImportLifecycle drives the full pipeline over HTTP: a successful
// import, an idempotent re-import with an updated fuel figure, and the
// summary read over the persisted data.
func TestImportLifecycle(t *testing.T) {
	router, testDB, _ := setupTestServer(t)

	// First import.
	rec := postImport(t, router, []map[string]any{importRowJSON(nil)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Message string          `json:"message"`
		Data    importer.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Data stored successfully", resp.Message)
	assert.Equal(t, 1, resp.Data.UnitsCreated)
	assert.Equal(t, 1, resp.Data.InstancesCreated)
	require.Len(t, resp.Data.OperationalData, 1)
	assert.Equal(t, "cust-1", resp.Data.Instances[0].OrganizationID)

	// Re-import the same reading with a new fuel figure.
	rec = postImport(t, router, []map[string]any{importRowJSON(map[string]any{"fuelConsumed": 7.0})})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var units, instances, readings int64
	testDB.Model(&model.Unit{}).Count(&units)
	testDB.Model(&model.UnitInstance{}).Count(&instances)
	testDB.Model(&model.OperationalData{}).Count(&readings)
	assert.Equal(t, int64(1), units)
	assert.Equal(t, int64(1), instances)
	assert.Equal(t, int64(1), readings)

	var stored model.OperationalData
	require.NoError(t, testDB.First(&stored).Error)
	assert.Equal(t, 7.0, stored.FuelUsage)

	// Summary over the persisted data.
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	sumRec := httptest.NewRecorder()
	router.ServeHTTP(sumRec, req)
	require.Equal(t, http.StatusOK, sumRec.Code)

	var sumResp struct {
		Data api.SummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sumRec.Body.Bytes(), &sumResp))
	assert.Equal(t, int64(1), sumResp.Data.TotalUnits)
	assert.Equal(t, int64(1), sumResp.Data.TotalInstances)
	assert.Equal(t, int64(1), sumResp.Data.TotalReadings)
	require.NotNil(t, sumResp.Data.TotalFuelConsumption)
	assert.Equal(t, 7.0, *sumResp.Data.TotalFuelConsumption)
}

func TestImportValidationFailure(t *testing.T) {
	router, testDB, fakeRegistry := setupTestServer(t)

	rows := []map[string]any{
		importRowJSON(nil),
		importRowJSON(map[string]any{"serialNo": "SN2"}),
		importRowJSON(map[string]any{"serialNo": "SN3"}),
		importRowJSON(map[string]any{"serialNo": "SN4"}),
		importRowJSON(map[string]any{"serialNo": "SN5"}),
		importRowJSON(map[string]any{"latitude": 95.0}),
	}

	rec := postImport(t, router, rows)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Message string            `json:"message"`
		Errors  []json.RawMessage `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation error", resp.Message)
	require.Len(t, resp.Errors, 6)
	for i := 0; i < 5; i++ {
		assert.Equal(t, "null", string(resp.Errors[i]))
	}
	assert.NotEqual(t, "null", string(resp.Errors[5]))

	// Nothing persisted, registry never called.
	var units int64
	testDB.Model(&model.Unit{}).Count(&units)
	assert.Equal(t, int64(0), units)
	assert.Empty(t, fakeRegistry.order)
}

func TestImportUpstreamFailure(t *testing.T) {
	router, testDB, fakeRegistry := setupTestServer(t)
	fakeRegistry.failWith = http.StatusInternalServerError

	rec := postImport(t, router, []map[string]any{importRowJSON(nil)})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var units, instances, readings int64
	testDB.Model(&model.Unit{}).Count(&units)
	testDB.Model(&model.UnitInstance{}).Count(&instances)
	testDB.Model(&model.OperationalData{}).Count(&readings)
	assert.Equal(t, int64(0), units)
	assert.Equal(t, int64(0), instances)
	assert.Equal(t, int64(0), readings)
}

func TestImportEmptyBatch(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rec := postImport(t, router, []map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
