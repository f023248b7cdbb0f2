package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/model"
)

// SummaryResponse is the fleet-wide aggregate over persisted telemetry.
type SummaryResponse struct {
	TotalUnits           int64    `json:"totalUnits"`
	TotalInstances       int64    `json:"totalInstances"`
	TotalReadings        int64    `json:"totalReadings"`
	TotalWorkHours       *float64 `json:"totalWorkHours"`
	TotalFuelConsumption *float64 `json:"totalFuelConsumption"`
}

// GetSummary handles the GET /api/summary request.
func GetSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var resp SummaryResponse

		counts := []struct {
			model any
			dst   *int64
		}{
			{&model.Unit{}, &resp.TotalUnits},
			{&model.UnitInstance{}, &resp.TotalInstances},
			{&model.OperationalData{}, &resp.TotalReadings},
		}
		for _, count := range counts {
			if err := db.Model(count.model).Count(count.dst).Error; err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to aggregate fleet data"})
				return
			}
		}

		var sums struct {
			TotalWorkHours       *float64
			TotalFuelConsumption *float64
		}
		if err := db.
			Model(&model.OperationalData{}).
			Select("SUM(actual_work_hours) as total_work_hours, SUM(fuel_usage) as total_fuel_consumption").
			Scan(&sums).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to aggregate fleet data"})
			return
		}
		resp.TotalWorkHours = sums.TotalWorkHours
		resp.TotalFuelConsumption = sums.TotalFuelConsumption

		c.JSON(http.StatusOK, gin.H{
			"message": "Fetched fleet summary successfully",
			"data":    resp,
		})
	}
}
