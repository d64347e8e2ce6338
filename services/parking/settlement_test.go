package parking

import (
	"context"
	"testing"
	"time"

	"smartpark/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Entry 265 minutes ago yields 15 overage minutes past the grace window, so
// the fee lands mid-block at 40 + 10 = 50 with no boundary flakiness.
func overstayEntry() time.Time {
	return time.Now().Add(-265 * time.Minute)
}

const overstayFee = 50.0

func TestExitScanSettlesFromWallet(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 100, 0)
	activeBooking(fx, "SP-EXIT0001", "u1", overstayEntry())
	fx.reminders.scheduled["SP-EXIT0001"] = time.Now()

	result, err := fx.svc.ExitScan(context.Background(), scanFor("SP-EXIT0001"))
	require.NoError(t, err)

	assert.Equal(t, models.ExitOutcomeCompleted, result.Status)
	assert.Equal(t, models.PaymentPaid, result.PaymentStatus)
	assert.Equal(t, models.MethodWallet, result.Method)
	assert.Equal(t, overstayFee, result.Amount)

	stored := fx.bookings.bookings["SP-EXIT0001"]
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, overstayFee, stored.ActualAmount)
	require.NotNil(t, stored.ExitTime)

	assert.Equal(t, 50.0, fx.users.users["u1"].Wallet)
	assert.Zero(t, fx.users.users["u1"].DueAmount)

	payments := fx.ledger.entriesOfType(models.TxnPayment)
	require.Len(t, payments, 1)
	assert.Equal(t, overstayFee, payments[0].Amount)
	assert.Equal(t, "SP-EXIT0001", payments[0].BookingID)

	// Early exit drops the pending reminder.
	assert.Contains(t, fx.reminders.cancelled, "SP-EXIT0001")
}

func TestExitScanInsufficientWalletOpensPaymentWindow(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 10, 0)
	activeBooking(fx, "SP-EXIT0002", "u1", overstayEntry())

	result, err := fx.svc.ExitScan(context.Background(), scanFor("SP-EXIT0002"))
	require.NoError(t, err)

	assert.Equal(t, models.ExitOutcomePendingPayment, result.Status)
	assert.Equal(t, models.PaymentPending, result.PaymentStatus)
	assert.Equal(t, overstayFee, result.Amount)
	assert.Equal(t, 40.0, result.Shortfall)
	assert.NotEmpty(t, result.PaymentChannelRef)

	// The insufficient-funds branch touches no balance and closes nothing.
	assert.Equal(t, models.StatusActive, fx.bookings.bookings["SP-EXIT0002"].Status)
	assert.Equal(t, 10.0, fx.users.users["u1"].Wallet)

	// The attempted channel payment is on the ledger as pending, keyed by the
	// ref shown to the kiosk.
	payments := fx.ledger.entriesOfType(models.TxnPayment)
	require.Len(t, payments, 1)
	assert.Equal(t, result.PaymentChannelRef, payments[0].ID)
	assert.Equal(t, models.TxnPending, payments[0].Status)
	assert.Equal(t, overstayFee, payments[0].Amount)

	pending, err := fx.window.Get(context.Background(), "SP-EXIT0002")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, overstayFee, pending.Amount)
}

func TestExitScanRejectsPendingBooking(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 100, 0)
	pendingBooking(fx, "SP-EXIT0003", "u1")

	_, err := fx.svc.ExitScan(context.Background(), scanFor("SP-EXIT0003"))
	var trans *InvalidTransitionError
	require.ErrorAs(t, err, &trans)
	assert.Equal(t, models.StatusPending, trans.Current)
}

func TestCompleteExitPaidSettlesViaExternalChannel(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 10, 0)
	activeBooking(fx, "SP-EXIT0004", "u1", overstayEntry())

	_, err := fx.svc.ExitScan(context.Background(), scanFor("SP-EXIT0004"))
	require.NoError(t, err)

	result, err := fx.svc.CompleteExit(context.Background(), "SP-EXIT0004", OutcomePaid)
	require.NoError(t, err)

	assert.Equal(t, models.ExitOutcomeCompleted, result.Status)
	assert.Equal(t, models.PaymentPaid, result.PaymentStatus)
	assert.Equal(t, models.MethodUPI, result.Method)
	assert.Equal(t, overstayFee, result.Amount)

	// The external payment touches neither wallet nor dues.
	assert.Equal(t, 10.0, fx.users.users["u1"].Wallet)
	assert.Zero(t, fx.users.users["u1"].DueAmount)
	assert.Equal(t, models.StatusCompleted, fx.bookings.bookings["SP-EXIT0004"].Status)

	// The window closed with the completion, and the pending channel entry
	// resolved to completed rather than a second payment row appearing.
	pending, err := fx.window.Get(context.Background(), "SP-EXIT0004")
	require.NoError(t, err)
	assert.Nil(t, pending)

	payments := fx.ledger.entriesOfType(models.TxnPayment)
	require.Len(t, payments, 1)
	assert.Equal(t, models.TxnCompleted, payments[0].Status)
	assert.Equal(t, overstayFee, payments[0].Amount)
}

func TestCompleteExitUnpaidAccruesDue(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 10, 0)
	activeBooking(fx, "SP-EXIT0005", "u1", overstayEntry())

	_, err := fx.svc.ExitScan(context.Background(), scanFor("SP-EXIT0005"))
	require.NoError(t, err)

	result, err := fx.svc.CompleteExit(context.Background(), "SP-EXIT0005", OutcomeDue)
	require.NoError(t, err)

	// The vehicle leaves regardless; the fee becomes a due.
	assert.Equal(t, models.ExitOutcomeCompleted, result.Status)
	assert.Equal(t, models.PaymentDue, result.PaymentStatus)
	assert.Equal(t, models.MethodNone, result.Method)

	assert.Equal(t, 10.0, fx.users.users["u1"].Wallet)
	assert.Equal(t, overstayFee, fx.users.users["u1"].DueAmount)
	assert.Equal(t, models.StatusCompleted, fx.bookings.bookings["SP-EXIT0005"].Status)

	fines := fx.ledger.entriesOfType(models.TxnFine)
	require.Len(t, fines, 1)
	assert.Equal(t, overstayFee, fines[0].Amount)

	// The channel payment that never arrived is closed out as failed.
	payments := fx.ledger.entriesOfType(models.TxnPayment)
	require.Len(t, payments, 1)
	assert.Equal(t, models.TxnFailed, payments[0].Status)
}

func TestCompleteExitLapsedWindowFallsBackToDue(t *testing.T) {
	// The payment window expired before the kiosk reported. Even a paid
	// outcome cannot be trusted then; the fee is rebilled to now and accrued
	// as a due.
	fx := newFixture()
	fx.addUser("u1", 10, 0)
	activeBooking(fx, "SP-EXIT0006", "u1", overstayEntry())

	result, err := fx.svc.CompleteExit(context.Background(), "SP-EXIT0006", OutcomePaid)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentDue, result.PaymentStatus)
	assert.Equal(t, models.MethodNone, result.Method)
	assert.Equal(t, overstayFee, fx.users.users["u1"].DueAmount)
}

func TestCompleteExitIdempotentOnCompletedBooking(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 100, 0)
	activeBooking(fx, "SP-EXIT0007", "u1", overstayEntry())

	first, err := fx.svc.ExitScan(context.Background(), scanFor("SP-EXIT0007"))
	require.NoError(t, err)
	require.Equal(t, models.ExitOutcomeCompleted, first.Status)

	// A kiosk retry after the wallet settlement must not double-charge.
	again, err := fx.svc.CompleteExit(context.Background(), "SP-EXIT0007", OutcomePaid)
	require.NoError(t, err)
	assert.Equal(t, models.ExitOutcomeCompleted, again.Status)
	assert.Equal(t, models.PaymentPaid, again.PaymentStatus)
	assert.Equal(t, models.MethodWallet, again.Method)
	assert.Equal(t, overstayFee, again.Amount)

	assert.Equal(t, 50.0, fx.users.users["u1"].Wallet)
	assert.Len(t, fx.ledger.entriesOfType(models.TxnPayment), 1)
}

func TestExitScanSettlesWhenCollaboratorsDown(t *testing.T) {
	// A dead push gateway or reminder queue must never block a paid exit.
	fx := newFixture()
	fx.svc.Notifier = failingNotifier{}
	fx.svc.Reminders = failingReminders{}
	fx.addUser("u1", 100, 0)
	activeBooking(fx, "SP-EXIT0008", "u1", overstayEntry())

	result, err := fx.svc.ExitScan(context.Background(), scanFor("SP-EXIT0008"))
	require.NoError(t, err)
	assert.Equal(t, models.ExitOutcomeCompleted, result.Status)

	assert.Equal(t, models.StatusCompleted, fx.bookings.bookings["SP-EXIT0008"].Status)
	assert.Equal(t, 50.0, fx.users.users["u1"].Wallet)
	require.Len(t, fx.ledger.entriesOfType(models.TxnPayment), 1)
}

func TestCompleteExitSettlesWhenCollaboratorsDown(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 10, 0)
	activeBooking(fx, "SP-EXIT0009", "u1", overstayEntry())

	_, err := fx.svc.ExitScan(context.Background(), scanFor("SP-EXIT0009"))
	require.NoError(t, err)

	fx.svc.Notifier = failingNotifier{}
	fx.svc.Reminders = failingReminders{}

	result, err := fx.svc.CompleteExit(context.Background(), "SP-EXIT0009", OutcomeDue)
	require.NoError(t, err)
	assert.Equal(t, models.ExitOutcomeCompleted, result.Status)
	assert.Equal(t, overstayFee, fx.users.users["u1"].DueAmount)
}

func TestRechargeWallet(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 20, 0)

	txn, err := fx.svc.RechargeWallet(context.Background(), "u1", 80)
	require.NoError(t, err)
	assert.Equal(t, models.TxnDeposit, txn.Type)
	assert.Equal(t, 80.0, txn.Amount)
	assert.Equal(t, 100.0, fx.users.users["u1"].Wallet)

	_, err = fx.svc.RechargeWallet(context.Background(), "u1", 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = fx.svc.RechargeWallet(context.Background(), "u1", -5)
	require.ErrorAs(t, err, &verr)
}

func TestClearDues(t *testing.T) {
	fx := newFixture()
	fx.addUser("u1", 0, 50)

	txn, err := fx.svc.ClearDues(context.Background(), "u1", 30, false)
	require.NoError(t, err)
	assert.Equal(t, models.TxnDueClearance, txn.Type)
	assert.False(t, txn.Waived)
	assert.Equal(t, 20.0, fx.users.users["u1"].DueAmount)

	// Dues never go negative.
	_, err = fx.svc.ClearDues(context.Background(), "u1", 25, false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 20.0, fx.users.users["u1"].DueAmount)

	// An admin waive-off records the write-off flag.
	txn, err = fx.svc.ClearDues(context.Background(), "u1", 20, true)
	require.NoError(t, err)
	assert.True(t, txn.Waived)
	assert.Zero(t, fx.users.users["u1"].DueAmount)
}
