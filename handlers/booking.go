package handlers

import (
	"encoding/base64"
	"net/http"

	"smartpark/middleware"
	"smartpark/services/parking"
	"smartpark/services/qr"
	"smartpark/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the reservation endpoints.
type BookingHandler struct {
	Service parking.Service
	Encoder qr.Encoder
	Logger  *zap.Logger
}

func NewBookingHandler(svc parking.Service, encoder qr.Encoder, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Encoder: encoder, Logger: logger}
}

// CreateBooking reserves a spot for the authenticated user.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req parking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	booking, err := h.Service.CreateBooking(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	payload, err := parking.QRPayload(booking.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"booking": booking, "qrPayload": payload}
	h.attachQRImage(resp, payload)
	c.JSON(http.StatusCreated, resp)
}

// GetBooking fetches one booking with its QR payload.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.Service.GetBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if booking.UserID != middleware.GetUserID(c) && c.GetString("role") != "admin" {
		utils.JSONError(c, http.StatusNotFound, "Not found", "booking not found")
		return
	}

	payload, err := parking.QRPayload(booking.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"booking": booking, "qrPayload": payload}
	h.attachQRImage(resp, payload)
	c.JSON(http.StatusOK, resp)
}

// ListBookings returns the authenticated user's booking history.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Service.ListUserBookings(c.Request.Context(), middleware.GetUserID(c), 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CancelBooking cancels the user's own pending booking.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	if err := h.Service.CancelBooking(c.Request.Context(), middleware.GetUserID(c), c.Param("bookingID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// ExtendBooking pushes an active booking's expected exit one hour forward.
func (h *BookingHandler) ExtendBooking(c *gin.Context) {
	booking, err := h.Service.ExtendBooking(c.Request.Context(), middleware.GetUserID(c), c.Param("bookingID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *BookingHandler) attachQRImage(resp gin.H, payload string) {
	if h.Encoder == nil {
		return
	}
	img, err := h.Encoder.Encode(payload)
	if err != nil {
		h.Logger.Warn("QR image encoding failed", zap.Error(err))
		return
	}
	resp["qrImage"] = base64.StdEncoding.EncodeToString(img)
}
