// File: services/parking/settlement.go
package parking

import (
	"context"
	"errors"
	"fmt"
	"time"

	settlementRepo "smartpark/database/repository/settlement"
	userRepo "smartpark/database/repository/user"
	"smartpark/models"
	"smartpark/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExitScan settles an active booking at the gate. The fee is computed from
// the actual entry/exit pair; when the wallet covers it the booking completes
// in one atomic settlement, otherwise a payment window opens for the external
// channel.
func (s *DefaultParkingService) ExitScan(ctx context.Context, payload *models.ScanPayload) (*models.ExitResult, error) {
	if payload.Type != models.ScanTypeBooking {
		return nil, &ValidationError{Field: "payload", Reason: "exit gate expects a booking pass"}
	}

	booking, err := s.resolveBooking(ctx, payload.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.StatusPending && s.lazyExpire(ctx, booking) {
		return nil, &InvalidTransitionError{BookingID: booking.BookingID, Current: models.StatusExpired, Attempted: "exit"}
	}
	if booking.Status != models.StatusActive || booking.EntryTime == nil {
		return nil, &InvalidTransitionError{BookingID: booking.BookingID, Current: booking.Status, Attempted: "exit"}
	}

	now := time.Now()
	fee, err := CalculateFee(*booking.EntryTime, now)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.GetByID(ctx, booking.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: booking.UserID}
		}
		return nil, err
	}

	_, err = s.Ledger.SettleWallet(ctx, booking, fee.TotalAmount, now)
	switch {
	case err == nil:
		s.cancelReminder(ctx, booking.BookingID)
		s.notify(ctx, booking.UserID, notification.TemplateExitReceipt, map[string]string{
			"bookingId": booking.BookingID,
			"amount":    fmt.Sprintf("%.2f", fee.TotalAmount),
			"method":    string(models.MethodWallet),
		})
		s.Logger.Info("exit settled from wallet",
			zap.String("bookingId", booking.BookingID),
			zap.Float64("amount", fee.TotalAmount))
		return &models.ExitResult{
			BookingID:     booking.BookingID,
			Status:        models.ExitOutcomeCompleted,
			PaymentStatus: models.PaymentPaid,
			Method:        models.MethodWallet,
			Amount:        fee.TotalAmount,
		}, nil

	case errors.Is(err, settlementRepo.ErrInsufficientFunds):
		// Not a failure: route to the external payment channel for the
		// duration of the kiosk payment window.
		pending := &PendingExit{
			Ref:       uuid.New().String(),
			BookingID: booking.BookingID,
			Amount:    fee.TotalAmount,
			Shortfall: fee.TotalAmount - user.Wallet,
			ScannedAt: now,
		}
		if err := s.Window.Open(ctx, pending); err != nil {
			return nil, err
		}
		s.recordChannelAttempt(ctx, booking, pending, now)
		s.Logger.Info("exit awaiting external payment",
			zap.String("bookingId", booking.BookingID),
			zap.Float64("amount", fee.TotalAmount),
			zap.Float64("shortfall", pending.Shortfall))
		return &models.ExitResult{
			BookingID:         booking.BookingID,
			Status:            models.ExitOutcomePendingPayment,
			PaymentStatus:     models.PaymentPending,
			Amount:            fee.TotalAmount,
			Shortfall:         pending.Shortfall,
			PaymentChannelRef: pending.Ref,
		}, nil

	case errors.Is(err, settlementRepo.ErrStatusConflict):
		return nil, s.transitionConflict(ctx, booking.BookingID, "exit")

	default:
		return nil, err
	}
}

// CompleteExit closes a pending payment window. A paid outcome inside the
// window settles via the external channel; any other outcome, or a lapsed
// window, accrues the fee as a due. The booking always closes: physical
// egress is never blocked by a payment failure.
func (s *DefaultParkingService) CompleteExit(ctx context.Context, bookingID string, outcome ExitOutcome) (*models.ExitResult, error) {
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.StatusCompleted {
		// The kiosk retried a completion that already landed.
		return &models.ExitResult{
			BookingID:     booking.BookingID,
			Status:        models.ExitOutcomeCompleted,
			PaymentStatus: booking.PaymentStatus,
			Method:        booking.PaymentMethod,
			Amount:        booking.ActualAmount,
		}, nil
	}
	if booking.Status != models.StatusActive || booking.EntryTime == nil {
		return nil, &InvalidTransitionError{BookingID: booking.BookingID, Current: booking.Status, Attempted: "complete exit"}
	}

	pending, err := s.Window.Get(ctx, booking.BookingID)
	if err != nil {
		return nil, err
	}

	var amount float64
	var exitTime time.Time
	if pending != nil {
		amount = pending.Amount
		exitTime = pending.ScannedAt
	} else {
		// The window lapsed; bill through to now and settle as a due.
		exitTime = time.Now()
		fee, err := CalculateFee(*booking.EntryTime, exitTime)
		if err != nil {
			return nil, err
		}
		amount = fee.TotalAmount
	}

	result := &models.ExitResult{
		BookingID: booking.BookingID,
		Status:    models.ExitOutcomeCompleted,
		Amount:    amount,
	}

	if outcome == OutcomePaid && pending != nil {
		if _, err := s.Ledger.SettleUPI(ctx, booking, amount, exitTime, pending.Ref); err != nil {
			if errors.Is(err, settlementRepo.ErrStatusConflict) {
				return nil, s.transitionConflict(ctx, booking.BookingID, "complete exit")
			}
			return nil, err
		}
		result.PaymentStatus = models.PaymentPaid
		result.Method = models.MethodUPI
		s.notify(ctx, booking.UserID, notification.TemplateExitReceipt, map[string]string{
			"bookingId": booking.BookingID,
			"amount":    fmt.Sprintf("%.2f", amount),
			"method":    string(models.MethodUPI),
		})
	} else {
		if _, err := s.Ledger.SettleDue(ctx, booking, amount, exitTime); err != nil {
			if errors.Is(err, settlementRepo.ErrStatusConflict) {
				return nil, s.transitionConflict(ctx, booking.BookingID, "complete exit")
			}
			return nil, err
		}
		result.PaymentStatus = models.PaymentDue
		result.Method = models.MethodNone
		s.notify(ctx, booking.UserID, notification.TemplateDueAccrued, map[string]string{
			"bookingId": booking.BookingID,
			"amount":    fmt.Sprintf("%.2f", amount),
		})
	}

	s.cancelReminder(ctx, booking.BookingID)
	if err := s.Window.Close(ctx, booking.BookingID); err != nil {
		s.Logger.Debug("failed to close payment window", zap.String("bookingId", booking.BookingID), zap.Error(err))
	}

	s.Logger.Info("exit completed",
		zap.String("bookingId", booking.BookingID),
		zap.String("paymentStatus", string(result.PaymentStatus)),
		zap.Float64("amount", amount))

	return result, nil
}

// recordChannelAttempt writes the pending ledger entry for an exit routed to
// the external payment channel, keyed by the channel ref shown to the kiosk.
// Settlement at completion resolves it to completed or failed; a write failure
// here is logged, the completion-time entry is the authoritative record.
func (s *DefaultParkingService) recordChannelAttempt(ctx context.Context, booking *models.Booking, pending *PendingExit, now time.Time) {
	if s.Txns == nil {
		return
	}
	entry := &models.Transaction{
		ID:          pending.Ref,
		UserID:      booking.UserID,
		BookingID:   booking.BookingID,
		Amount:      pending.Amount,
		Type:        models.TxnPayment,
		Status:      models.TxnPending,
		Description: fmt.Sprintf("Parking fee for booking %s awaiting UPI payment", booking.BookingID),
		CreatedAt:   now,
	}
	if err := s.Txns.Create(ctx, entry); err != nil {
		s.Logger.Warn("failed to record pending channel payment",
			zap.String("bookingId", booking.BookingID),
			zap.String("channelRef", pending.Ref),
			zap.Error(err))
	}
}

// RechargeWallet credits the user's wallet and records the deposit.
func (s *DefaultParkingService) RechargeWallet(ctx context.Context, userID string, amount float64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	txn, err := s.Ledger.CreditWallet(ctx, userID, amount, "Wallet recharge")
	if err != nil {
		return nil, err
	}
	s.Logger.Info("wallet recharged", zap.String("userId", userID), zap.Float64("amount", amount))
	return txn, nil
}

// ClearDues reduces the user's outstanding dues, never below zero.
func (s *DefaultParkingService) ClearDues(ctx context.Context, userID string, amount float64, waived bool) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	description := "Dues collection"
	if waived {
		description = "Dues waived off"
	}
	txn, err := s.Ledger.ClearDues(ctx, userID, amount, waived, description)
	if err != nil {
		if errors.Is(err, settlementRepo.ErrExceedsDue) {
			return nil, &ValidationError{Field: "amount", Reason: "exceeds outstanding dues"}
		}
		return nil, err
	}
	s.Logger.Info("dues cleared",
		zap.String("userId", userID),
		zap.Float64("amount", amount),
		zap.Bool("waived", waived))
	return txn, nil
}
