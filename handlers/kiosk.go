package handlers

import (
	"net/http"

	"smartpark/models"
	"smartpark/services/parking"
	"smartpark/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KioskHandler serves the gate kiosks: entry scan, exit scan and payment
// completion. Kiosks post the raw scanned payload string; normalization of
// legacy payload shapes happens here at the boundary.
type KioskHandler struct {
	Service parking.Service
	Logger  *zap.Logger
}

func NewKioskHandler(svc parking.Service, logger *zap.Logger) *KioskHandler {
	return &KioskHandler{Service: svc, Logger: logger}
}

type scanRequest struct {
	Payload string `json:"payload" binding:"required"`
}

func (h *KioskHandler) parseScan(c *gin.Context) (*models.ScanPayload, bool) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return nil, false
	}
	payload, err := models.ParseScanPayload([]byte(req.Payload))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unreadable pass", err.Error())
		return nil, false
	}
	return payload, true
}

// EntryScan handles a QR scan at the entry gate.
func (h *KioskHandler) EntryScan(c *gin.Context) {
	payload, ok := h.parseScan(c)
	if !ok {
		return
	}
	result, err := h.Service.EntryScan(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExitScan handles a QR scan at the exit gate.
func (h *KioskHandler) ExitScan(c *gin.Context) {
	payload, ok := h.parseScan(c)
	if !ok {
		return
	}
	result, err := h.Service.ExitScan(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type completeExitRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Outcome   string `json:"outcome" binding:"required"`
}

// CompleteExit reports the external payment channel's outcome for a pending
// exit. Any outcome other than paid settles the fee as a due; the vehicle
// leaves either way.
func (h *KioskHandler) CompleteExit(c *gin.Context) {
	var req completeExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	outcome := parking.ExitOutcome(req.Outcome)
	if outcome != parking.OutcomePaid {
		outcome = parking.OutcomeDue
	}

	result, err := h.Service.CompleteExit(c.Request.Context(), req.BookingID, outcome)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
