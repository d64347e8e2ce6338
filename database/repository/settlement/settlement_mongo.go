package settlementRepo

import (
	"context"
	"fmt"
	"time"

	"smartpark/config"
	"smartpark/database"
	"smartpark/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSettlementRepo implements Repository over the users, bookings and
// transactions collections.
type MongoSettlementRepo struct {
	userColl    *mongo.Collection
	bookingColl *mongo.Collection
	txnColl     *mongo.Collection
}

// NewMongoSettlementRepo creates a new instance of Repository using MongoDB.
func NewMongoSettlementRepo() Repository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoSettlementRepo{
		userColl:    db.Collection("users"),
		bookingColl: db.Collection("bookings"),
		txnColl:     db.Collection("transactions"),
	}
}

// runTxn executes fn inside a mongo session transaction.
func (repo *MongoSettlementRepo) runTxn(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.userColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// completeBooking flips an active booking to completed inside the settlement
// transaction. The status filter is the compare-and-swap guard.
func (repo *MongoSettlementRepo) completeBooking(
	sc mongo.SessionContext,
	bookingID string,
	amount float64,
	exitTime time.Time,
	payStatus models.PaymentStatus,
	method models.PaymentMethod,
) error {
	filter := bson.M{"booking_id": bookingID, "status": models.StatusActive}
	update := bson.M{"$set": bson.M{
		"status":         models.StatusCompleted,
		"exit_time":      exitTime,
		"actual_amount":  amount,
		"payment_status": payStatus,
		"payment_method": method,
	}}
	res, err := repo.bookingColl.UpdateOne(sc, filter, update)
	if err != nil {
		return fmt.Errorf("complete booking failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}

func newLedgerEntry(userID, bookingID string, amount float64, txnType models.TransactionType, description string) *models.Transaction {
	return &models.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		BookingID:   bookingID,
		Amount:      amount,
		Type:        txnType,
		Status:      models.TxnCompleted,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// SettleWallet debits the wallet and completes the booking as one atomic unit.
// The guarded $inc (wallet >= amount in the filter) makes concurrent debits of
// the same balance serialize on the document instead of losing updates.
func (repo *MongoSettlementRepo) SettleWallet(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time) (*models.Transaction, error) {
	entry := newLedgerEntry(booking.UserID, booking.BookingID, amount, models.TxnPayment,
		fmt.Sprintf("Parking fee for booking %s (wallet)", booking.BookingID))

	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		filter := bson.M{"id": booking.UserID, "wallet": bson.M{"$gte": amount}}
		update := bson.M{"$inc": bson.M{"wallet": -amount}}
		res, err := repo.userColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("wallet debit failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrInsufficientFunds
		}

		if _, err := repo.txnColl.InsertOne(sc, entry); err != nil {
			return fmt.Errorf("insert ledger entry failed: %w", err)
		}

		return repo.completeBooking(sc, booking.BookingID, amount, exitTime, models.PaymentPaid, models.MethodWallet)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SettleUPI completes the booking as paid via the external channel. The
// pending ledger entry written at the exit scan becomes the payment record:
// it flips to completed inside the same transaction that closes the booking.
func (repo *MongoSettlementRepo) SettleUPI(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time, channelRef string) (*models.Transaction, error) {
	entry := newLedgerEntry(booking.UserID, booking.BookingID, amount, models.TxnPayment,
		fmt.Sprintf("Parking fee for booking %s (upi)", booking.BookingID))
	entry.ID = channelRef

	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		filter := bson.M{"id": channelRef, "status": models.TxnPending}
		update := bson.M{"$set": bson.M{"status": models.TxnCompleted, "amount": amount}}
		res, err := repo.txnColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("resolve pending ledger entry failed: %w", err)
		}
		if res.MatchedCount == 0 {
			// The scan-time entry never landed; record the payment fresh.
			if _, err := repo.txnColl.InsertOne(sc, entry); err != nil {
				return fmt.Errorf("insert ledger entry failed: %w", err)
			}
		}
		return repo.completeBooking(sc, booking.BookingID, amount, exitTime, models.PaymentPaid, models.MethodUPI)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SettleDue accrues the unpaid fee as a debt and still closes the booking.
func (repo *MongoSettlementRepo) SettleDue(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time) (*models.Transaction, error) {
	entry := newLedgerEntry(booking.UserID, booking.BookingID, amount, models.TxnFine,
		fmt.Sprintf("Unpaid parking fee for booking %s accrued as due", booking.BookingID))

	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		// A channel payment that never arrived leaves its pending entry
		// behind; close it out as failed.
		attemptFilter := bson.M{"booking_id": booking.BookingID, "status": models.TxnPending, "type": models.TxnPayment}
		if _, err := repo.txnColl.UpdateOne(sc, attemptFilter, bson.M{"$set": bson.M{"status": models.TxnFailed}}); err != nil {
			return fmt.Errorf("fail pending ledger entry failed: %w", err)
		}

		filter := bson.M{"id": booking.UserID}
		update := bson.M{"$inc": bson.M{"due_amount": amount}}
		res, err := repo.userColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("due accrual failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("due accrual failed: user %s not found", booking.UserID)
		}

		if _, err := repo.txnColl.InsertOne(sc, entry); err != nil {
			return fmt.Errorf("insert ledger entry failed: %w", err)
		}

		return repo.completeBooking(sc, booking.BookingID, amount, exitTime, models.PaymentDue, models.MethodNone)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ClearDues reduces the user's outstanding dues, never below zero.
func (repo *MongoSettlementRepo) ClearDues(ctx context.Context, userID string, amount float64, waived bool, description string) (*models.Transaction, error) {
	entry := newLedgerEntry(userID, "", amount, models.TxnDueClearance, description)
	entry.Waived = waived

	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		filter := bson.M{"id": userID, "due_amount": bson.M{"$gte": amount}}
		update := bson.M{"$inc": bson.M{"due_amount": -amount}}
		res, err := repo.userColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("dues clearance failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrExceedsDue
		}

		if _, err := repo.txnColl.InsertOne(sc, entry); err != nil {
			return fmt.Errorf("insert ledger entry failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreditWallet tops up the wallet and records the deposit.
func (repo *MongoSettlementRepo) CreditWallet(ctx context.Context, userID string, amount float64, description string) (*models.Transaction, error) {
	entry := newLedgerEntry(userID, "", amount, models.TxnDeposit, description)

	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := repo.userColl.UpdateOne(sc, bson.M{"id": userID}, bson.M{"$inc": bson.M{"wallet": amount}})
		if err != nil {
			return fmt.Errorf("wallet credit failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("wallet credit failed: user %s not found", userID)
		}

		if _, err := repo.txnColl.InsertOne(sc, entry); err != nil {
			return fmt.Errorf("insert ledger entry failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
