package handlers

import (
	"errors"
	"net/http"

	userRepo "smartpark/database/repository/user"
	"smartpark/middleware"
	"smartpark/models"
	"smartpark/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the local user record: the wallet/dues holder keyed by
// the identity provider's subject. Authentication itself is external; the
// record here exists so balances have somewhere to live.
type UserHandler struct {
	Users  userRepo.Repository
	Logger *zap.Logger
}

func NewUserHandler(users userRepo.Repository, logger *zap.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

type registerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// Register creates the local record for a first-time user. Idempotent: a
// repeat call returns the existing record.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if existing, err := h.Users.GetByID(c.Request.Context(), userID); err == nil {
		c.JSON(http.StatusOK, gin.H{"user": existing})
		return
	} else if !errors.Is(err, userRepo.ErrNotFound) {
		respondError(c, err)
		return
	}

	if _, err := h.Users.GetByEmail(c.Request.Context(), req.Email); err == nil {
		utils.JSONError(c, http.StatusConflict, "Email in use", "another account already uses this email")
		return
	} else if !errors.Is(err, userRepo.ErrNotFound) {
		respondError(c, err)
		return
	}

	user := &models.User{
		ID:    userID,
		Name:  req.Name,
		Email: req.Email,
		Role:  c.GetString("role"),
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	h.Logger.Info("user registered", zap.String("userId", userID))
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetProfile returns the authenticated user's record.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.Users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Not found", "user not registered")
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	FCMToken string `json:"fcmToken"`
}

// UpdateProfile changes the user's display name and push token.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Not found", "user not registered")
			return
		}
		respondError(c, err)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.FCMToken != "" {
		user.FCMToken = req.FCMToken
	}
	if err := h.Users.Update(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
