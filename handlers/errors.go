package handlers

import (
	"errors"
	"net/http"

	"smartpark/services/parking"
	"smartpark/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP responses. Transition conflicts
// surface the booking's actual state so the kiosk can reconcile.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *parking.ValidationError
		notFoundErr   *parking.NotFoundError
		transitionErr *parking.InvalidTransitionError
		capacityErr   *parking.CapacityExceededError
		duplicateErr  *parking.DuplicateActiveBookingError
		duesErr       *parking.OutstandingDuesError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", validationErr.Error())
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "Not found", notFoundErr.Error())
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"message":       "Invalid booking state",
			"details":       transitionErr.Error(),
			"currentStatus": transitionErr.Current,
		})
	case errors.As(err, &capacityErr):
		utils.JSONError(c, http.StatusConflict, "No spots available", capacityErr.Error())
	case errors.As(err, &duplicateErr):
		utils.JSONError(c, http.StatusConflict, "Active booking exists", duplicateErr.Error())
	case errors.As(err, &duesErr):
		utils.JSONError(c, http.StatusConflict, "Outstanding dues", duesErr.Error())
	case errors.Is(err, parking.ErrFloorBusy):
		utils.JSONError(c, http.StatusServiceUnavailable, "Floor busy", "another booking is being admitted, retry shortly")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
