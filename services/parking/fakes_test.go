package parking

import (
	"context"
	"errors"
	"time"

	bookingRepo "smartpark/database/repository/booking"
	floorRepo "smartpark/database/repository/floor"
	settlementRepo "smartpark/database/repository/settlement"
	txnRepo "smartpark/database/repository/transaction"
	userRepo "smartpark/database/repository/user"
	"smartpark/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// In-memory fakes of the repository interfaces. Transitions go through the
// same compare-and-swap contract as the mongo implementations.

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) put(b models.Booking) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	r.bookings[b.BookingID] = &b
}

func clone(b *models.Booking) *models.Booking {
	cp := *b
	return &cp
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	for _, e := range r.bookings {
		if e.UserID == b.UserID && e.Status.IsOpen() {
			return bookingRepo.ErrOpenBookingExists
		}
	}
	b.ID = primitive.NewObjectID()
	r.put(*b)
	return nil
}

func (r *fakeBookingRepo) GetByBookingID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return clone(b), nil
}

func (r *fakeBookingRepo) GetByObjectID(ctx context.Context, hexID string) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.ID.Hex() == hexID {
			return clone(b), nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *fakeBookingRepo) FindOpenByUser(ctx context.Context, userID string) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.UserID == userID && b.Status.IsOpen() {
			return clone(b), nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountOpenOnFloor(ctx context.Context, floorID string) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.FloorID == floorID && b.Status.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) CountOpenOnFloorBySpotType(ctx context.Context, floorID string, spotType models.SpotType) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.FloorID == floorID && b.SpotType == spotType && b.Status.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) MarkActive(ctx context.Context, id string, entryTime, expectedExit time.Time) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != models.StatusPending {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = models.StatusActive
	b.EntryTime = &entryTime
	b.ExpectedExitTime = &expectedExit
	return nil
}

func (r *fakeBookingRepo) MarkExpired(ctx context.Context, id string) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != models.StatusPending {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = models.StatusExpired
	return nil
}

func (r *fakeBookingRepo) MarkCancelled(ctx context.Context, id string) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != models.StatusPending {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = models.StatusCancelled
	return nil
}

func (r *fakeBookingRepo) SetExpectedExit(ctx context.Context, id string, expectedExit time.Time) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != models.StatusActive {
		return bookingRepo.ErrStatusConflict
	}
	b.ExpectedExitTime = &expectedExit
	return nil
}

func (r *fakeBookingRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.HoldExpired(now) {
			b.Status = models.StatusExpired
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) ArchiveCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.Status == models.StatusCompleted && !b.Archived && b.ExitTime != nil && !b.ExitTime.After(cutoff) {
			b.Archived = true
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) PurgeArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, b := range r.bookings {
		if b.Archived && b.ExitTime != nil && !b.ExitTime.After(cutoff) {
			delete(r.bookings, id)
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *models.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return userRepo.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type fakeFloorRepo struct {
	floors map[string]*models.Floor
}

func newFakeFloorRepo() *fakeFloorRepo {
	return &fakeFloorRepo{floors: make(map[string]*models.Floor)}
}

func (r *fakeFloorRepo) GetByID(ctx context.Context, id string) (*models.Floor, error) {
	f, ok := r.floors[id]
	if !ok {
		return nil, floorRepo.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFloorRepo) GetAll(ctx context.Context) ([]models.Floor, error) {
	var out []models.Floor
	for _, f := range r.floors {
		out = append(out, *f)
	}
	return out, nil
}

func (r *fakeFloorRepo) Create(ctx context.Context, f *models.Floor) error {
	cp := *f
	r.floors[f.ID] = &cp
	return nil
}

func (r *fakeFloorRepo) Update(ctx context.Context, f *models.Floor) error {
	if _, ok := r.floors[f.ID]; !ok {
		return floorRepo.ErrNotFound
	}
	cp := *f
	r.floors[f.ID] = &cp
	return nil
}

func (r *fakeFloorRepo) SetActive(ctx context.Context, id string, active bool) error {
	f, ok := r.floors[id]
	if !ok {
		return floorRepo.ErrNotFound
	}
	f.IsActive = active
	return nil
}

type fakeTxnRepo struct {
	entries []*models.Transaction
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{}
}

func (r *fakeTxnRepo) Create(ctx context.Context, txn *models.Transaction) error {
	cp := *txn
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeTxnRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	for _, e := range r.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, txnRepo.ErrNotFound
}

func (r *fakeTxnRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeTxnRepo) entriesOfType(txnType models.TransactionType) []*models.Transaction {
	var out []*models.Transaction
	for _, e := range r.entries {
		if e.Type == txnType {
			out = append(out, e)
		}
	}
	return out
}

// fakeLedger applies settlement outcomes against the fake repos with the
// same all-or-nothing semantics as the mongo transaction.
type fakeLedger struct {
	users    *fakeUserRepo
	bookings *fakeBookingRepo
	txns     *fakeTxnRepo
}

func newFakeLedger(users *fakeUserRepo, bookings *fakeBookingRepo, txns *fakeTxnRepo) *fakeLedger {
	return &fakeLedger{users: users, bookings: bookings, txns: txns}
}

func (l *fakeLedger) record(userID, bookingID string, amount float64, txnType models.TransactionType) *models.Transaction {
	entry := &models.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		BookingID: bookingID,
		Amount:    amount,
		Type:      txnType,
		Status:    models.TxnCompleted,
		CreatedAt: time.Now(),
	}
	l.txns.entries = append(l.txns.entries, entry)
	return entry
}

func (l *fakeLedger) entriesOfType(txnType models.TransactionType) []*models.Transaction {
	return l.txns.entriesOfType(txnType)
}

func (l *fakeLedger) complete(bookingID string, amount float64, exitTime time.Time, payStatus models.PaymentStatus, method models.PaymentMethod) error {
	b, ok := l.bookings.bookings[bookingID]
	if !ok || b.Status != models.StatusActive {
		return settlementRepo.ErrStatusConflict
	}
	b.Status = models.StatusCompleted
	b.ExitTime = &exitTime
	b.ActualAmount = amount
	b.PaymentStatus = payStatus
	b.PaymentMethod = method
	return nil
}

func (l *fakeLedger) SettleWallet(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time) (*models.Transaction, error) {
	u, ok := l.users.users[booking.UserID]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	if u.Wallet < amount {
		return nil, settlementRepo.ErrInsufficientFunds
	}
	if err := l.complete(booking.BookingID, amount, exitTime, models.PaymentPaid, models.MethodWallet); err != nil {
		return nil, err
	}
	u.Wallet -= amount
	return l.record(booking.UserID, booking.BookingID, amount, models.TxnPayment), nil
}

func (l *fakeLedger) SettleUPI(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time, channelRef string) (*models.Transaction, error) {
	if err := l.complete(booking.BookingID, amount, exitTime, models.PaymentPaid, models.MethodUPI); err != nil {
		return nil, err
	}
	for _, e := range l.txns.entries {
		if e.ID == channelRef && e.Status == models.TxnPending {
			e.Status = models.TxnCompleted
			e.Amount = amount
			return e, nil
		}
	}
	return l.record(booking.UserID, booking.BookingID, amount, models.TxnPayment), nil
}

func (l *fakeLedger) SettleDue(ctx context.Context, booking *models.Booking, amount float64, exitTime time.Time) (*models.Transaction, error) {
	u, ok := l.users.users[booking.UserID]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	if err := l.complete(booking.BookingID, amount, exitTime, models.PaymentDue, models.MethodNone); err != nil {
		return nil, err
	}
	for _, e := range l.txns.entries {
		if e.BookingID == booking.BookingID && e.Type == models.TxnPayment && e.Status == models.TxnPending {
			e.Status = models.TxnFailed
		}
	}
	u.DueAmount += amount
	return l.record(booking.UserID, booking.BookingID, amount, models.TxnFine), nil
}

func (l *fakeLedger) ClearDues(ctx context.Context, userID string, amount float64, waived bool, description string) (*models.Transaction, error) {
	u, ok := l.users.users[userID]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	if u.DueAmount < amount {
		return nil, settlementRepo.ErrExceedsDue
	}
	u.DueAmount -= amount
	entry := l.record(userID, "", amount, models.TxnDueClearance)
	entry.Waived = waived
	entry.Description = description
	return entry, nil
}

func (l *fakeLedger) CreditWallet(ctx context.Context, userID string, amount float64, description string) (*models.Transaction, error) {
	u, ok := l.users.users[userID]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	u.Wallet += amount
	entry := l.record(userID, "", amount, models.TxnDeposit)
	entry.Description = description
	return entry, nil
}

type fakeReminders struct {
	scheduled map[string]time.Time
	cancelled []string
}

func newFakeReminders() *fakeReminders {
	return &fakeReminders{scheduled: make(map[string]time.Time)}
}

func (f *fakeReminders) Schedule(ctx context.Context, b *models.Booking) error {
	f.scheduled[b.BookingID] = *b.ExpectedExitTime
	return nil
}

func (f *fakeReminders) Cancel(ctx context.Context, bookingID string) error {
	f.cancelled = append(f.cancelled, bookingID)
	delete(f.scheduled, bookingID)
	return nil
}

type fakeLocker struct{}

func (fakeLocker) Lock(ctx context.Context, floorID string) (func(), bool) {
	return func() {}, true
}

type fakeWindow struct {
	open map[string]*PendingExit
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{open: make(map[string]*PendingExit)}
}

func (w *fakeWindow) Open(ctx context.Context, pending *PendingExit) error {
	cp := *pending
	w.open[pending.BookingID] = &cp
	return nil
}

func (w *fakeWindow) Get(ctx context.Context, bookingID string) (*PendingExit, error) {
	p, ok := w.open[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (w *fakeWindow) Close(ctx context.Context, bookingID string) error {
	delete(w.open, bookingID)
	return nil
}

// failingNotifier simulates the push gateway being down.
type failingNotifier struct{}

func (failingNotifier) Send(ctx context.Context, userID, template string, data map[string]string) error {
	return errors.New("push gateway unavailable")
}

// failingReminders simulates the reminder queue being unreachable.
type failingReminders struct{}

func (failingReminders) Schedule(ctx context.Context, b *models.Booking) error {
	return errors.New("reminder queue unreachable")
}

func (failingReminders) Cancel(ctx context.Context, bookingID string) error {
	return errors.New("reminder queue unreachable")
}

// fixture bundles the fakes behind a wired service.
type fixture struct {
	svc       *DefaultParkingService
	bookings  *fakeBookingRepo
	users     *fakeUserRepo
	floors    *fakeFloorRepo
	txns      *fakeTxnRepo
	ledger    *fakeLedger
	reminders *fakeReminders
	window    *fakeWindow
}

func newFixture() *fixture {
	bookings := newFakeBookingRepo()
	users := newFakeUserRepo()
	floors := newFakeFloorRepo()
	txns := newFakeTxnRepo()
	ledger := newFakeLedger(users, bookings, txns)
	reminders := newFakeReminders()
	window := newFakeWindow()

	svc := &DefaultParkingService{
		Bookings:  bookings,
		Users:     users,
		Floors:    floors,
		Ledger:    ledger,
		Txns:      txns,
		Reminders: reminders,
		Locker:    fakeLocker{},
		Window:    window,
		Logger:    zap.NewNop(),
	}
	return &fixture{
		svc:       svc,
		bookings:  bookings,
		users:     users,
		floors:    floors,
		txns:      txns,
		ledger:    ledger,
		reminders: reminders,
		window:    window,
	}
}

func (f *fixture) addUser(id string, wallet, due float64) {
	f.users.users[id] = &models.User{ID: id, Email: id + "@example.com", Wallet: wallet, DueAmount: due}
}

func (f *fixture) addFloor(id string, normal, disability int, active bool) {
	f.floors.floors[id] = &models.Floor{ID: id, Name: "Level " + id, NormalSpots: normal, DisabilitySpots: disability, IsActive: active}
}

func (f *fixture) addBooking(b models.Booking) *models.Booking {
	if b.SpotType == "" {
		b.SpotType = models.SpotNormal
	}
	if b.SpotLabel == "" {
		b.SpotLabel = models.DefaultSpotLabel
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	if b.ExpiresAt.IsZero() {
		b.ExpiresAt = b.CreatedAt.Add(15 * time.Minute)
	}
	f.bookings.put(b)
	return f.bookings.bookings[b.BookingID]
}
