package handlers

import (
	"errors"
	"net/http"

	txnRepo "smartpark/database/repository/transaction"
	userRepo "smartpark/database/repository/user"
	"smartpark/middleware"
	"smartpark/services/parking"
	"smartpark/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletHandler serves balance, recharge and dues endpoints.
type WalletHandler struct {
	Service parking.Service
	Users   userRepo.Repository
	Txns    txnRepo.Repository
	Logger  *zap.Logger
}

func NewWalletHandler(svc parking.Service, users userRepo.Repository, txns txnRepo.Repository, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{Service: svc, Users: users, Txns: txns, Logger: logger}
}

// GetWallet returns the authenticated user's balances.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	user, err := h.Users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Not found", "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet":    user.Wallet,
		"dueAmount": user.DueAmount,
	})
}

type rechargeRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// Recharge credits the authenticated user's wallet.
func (h *WalletHandler) Recharge(c *gin.Context) {
	var req rechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	txn, err := h.Service.RechargeWallet(c.Request.Context(), middleware.GetUserID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

type clearDuesRequest struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount" binding:"required"`
	Waived bool    `json:"waived"`
}

// ClearDues reduces outstanding dues. Users clear their own dues; admins may
// clear any user's and mark the clearance as a waive-off.
func (h *WalletHandler) ClearDues(c *gin.Context) {
	var req clearDuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	waived := false
	if c.GetString("role") == "admin" {
		if req.UserID != "" {
			userID = req.UserID
		}
		waived = req.Waived
	}

	txn, err := h.Service.ClearDues(c.Request.Context(), userID, req.Amount, waived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// ListTransactions returns the authenticated user's ledger history.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	txns, err := h.Txns.ListByUser(c.Request.Context(), middleware.GetUserID(c), 100)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// GetTransaction returns a single ledger entry. Users see only their own;
// admins see any (kiosk receipts carry the entry id as the channel ref).
func (h *WalletHandler) GetTransaction(c *gin.Context) {
	txn, err := h.Txns.GetByID(c.Request.Context(), c.Param("txnID"))
	if err != nil {
		if errors.Is(err, txnRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Not found", "transaction not found")
			return
		}
		respondError(c, err)
		return
	}
	if txn.UserID != middleware.GetUserID(c) && c.GetString("role") != "admin" {
		utils.JSONError(c, http.StatusNotFound, "Not found", "transaction not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}
