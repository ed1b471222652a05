package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/tablebook/internal/service"
	"github.com/kirinyoku/tablebook/internal/service/admin"
)

// @Summary  Create table
// @Tags     admin
// @Param    id  path  string  true  "Restaurant ID (uuid)"
// @Param    req body  CreateTableRequest true "payload"
// @Success  201 {object} domain.Table
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "number already used"
// @Router   /admin/restaurants/{id}/tables [post]
func handleCreateTable(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req CreateTableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		t, err := svcs.Admin.CreateTable(c.Request.Context(), admin.CreateTableRequest{
			RestaurantID: restaurantID,
			Number:       req.Number,
			Capacity:     req.Capacity,
			Zone:         req.Zone,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

// @Summary  Toggle table maintenance
// @Tags     admin
// @Param    id  path  string  true  "Table ID (uuid)"
// @Param    req body  MaintenanceRequest true "payload"
// @Success  200 {object} domain.Table
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "table is occupied"
// @Router   /admin/tables/{id}/maintenance [post]
func handleSetMaintenance(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req MaintenanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		t, err := svcs.Admin.SetMaintenance(c.Request.Context(), id, *req.Enabled)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}
