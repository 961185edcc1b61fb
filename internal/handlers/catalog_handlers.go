package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hr-portal/app-employee-data/internal/models"
)

// GetCatalogs godoc
// @Summary List permitted enumeration values
// @Description Returns every value accepted for blood type, marital status, relationship, vehicle type, housing type, acquisition type and education level.
// @Tags catalogs
// @Produce json
// @Success 200 {object} models.Catalog "Permitted values"
// @Router /catalogs [get]
func GetCatalogs(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCatalog())
}
