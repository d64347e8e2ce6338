package handlers

import (
	"net/http"

	"smartpark/models"
	"smartpark/services/parking"
	"smartpark/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FloorHandler serves floor availability and admin floor management.
type FloorHandler struct {
	Service parking.Service
	Logger  *zap.Logger
}

func NewFloorHandler(svc parking.Service, logger *zap.Logger) *FloorHandler {
	return &FloorHandler{Service: svc, Logger: logger}
}

// ListFloors returns availability snapshots for every floor.
func (h *FloorHandler) ListFloors(c *gin.Context) {
	floors, err := h.Service.ListFloors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"floors": floors})
}

// GetAvailability returns the availability snapshot for one floor.
func (h *FloorHandler) GetAvailability(c *gin.Context) {
	snap, err := h.Service.FloorAvailability(c.Request.Context(), c.Param("floorID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type createFloorRequest struct {
	Name            string `json:"name" binding:"required"`
	NormalSpots     int    `json:"normalSpots" binding:"required"`
	DisabilitySpots int    `json:"disabilitySpots"`
}

// CreateFloor registers a new parking floor (admin only).
func (h *FloorHandler) CreateFloor(c *gin.Context) {
	var req createFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	floor := &models.Floor{
		Name:            req.Name,
		NormalSpots:     req.NormalSpots,
		DisabilitySpots: req.DisabilitySpots,
		IsActive:        true,
	}
	if err := h.Service.CreateFloor(c.Request.Context(), floor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"floor": floor})
}

type updateFloorRequest struct {
	Name            string `json:"name"`
	NormalSpots     int    `json:"normalSpots" binding:"required"`
	DisabilitySpots int    `json:"disabilitySpots"`
}

// UpdateFloor changes a floor's name and capacities (admin only).
func (h *FloorHandler) UpdateFloor(c *gin.Context) {
	var req updateFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	floor, err := h.Service.UpdateFloor(c.Request.Context(), c.Param("floorID"), req.Name, req.NormalSpots, req.DisabilitySpots)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"floor": floor})
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActive opens or closes a floor for new bookings (admin only).
func (h *FloorHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := h.Service.SetFloorActive(c.Request.Context(), c.Param("floorID"), *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
