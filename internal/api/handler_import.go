package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/importer"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/registry"
)

// StoreImport handles POST /api/imports: a batch of parsed spreadsheet rows.
// The rows arrive pre-parsed; spreadsheet handling lives in the upload
// collaborator, not here.
func (h *Handler) StoreImport(c *gin.Context) {
	var raws []importer.RawRow
	if err := c.ShouldBindJSON(&raws); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
		return
	}
	if len(raws) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Import batch must not be empty"})
		return
	}

	result, err := h.importer.Run(c.Request.Context(), bearerToken(c), raws)
	if err != nil {
		var verr *importer.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Validation error",
				"errors":  verr.Rows,
			})
			return
		}

		var uerr *registry.UpstreamError
		if errors.As(err, &uerr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"message": "Customer registry unavailable",
				"error":   uerr.Error(),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data stored successfully",
		"data":    result,
	})
}

// bearerToken extracts the caller's bearer token for pass-through to the
// customer registry. Authentication itself is enforced upstream.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return ""
}
