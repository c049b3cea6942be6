package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// snapshotter lets the fake transaction runner roll stores back the way a
// database rollback would.
type snapshotter interface {
	snapshot() func()
}

type fakeTxRunner struct {
	stores []snapshotter
}

func (r *fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(r.stores))
	for _, s := range r.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]domain.User, len(r.users))
	for k, v := range r.users {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.users = saved
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return uniqueViolation()
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	r.users[id] = user
	return nil
}

type fakeComplaintRepo struct {
	mu         sync.Mutex
	complaints map[string]domain.Complaint
	// cascade mirrors the FK ON DELETE CASCADE on the transactions table.
	cascade *fakeTransactionRepo
}

func newFakeComplaintRepo(cascade *fakeTransactionRepo) *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: map[string]domain.Complaint{}, cascade: cascade}
}

func (r *fakeComplaintRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]domain.Complaint, len(r.complaints))
	for k, v := range r.complaints {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.complaints = saved
	}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	r.complaints[complaint.ID] = *complaint
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &complaint, nil
}

func (r *fakeComplaintRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Complaint, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeComplaintRepo) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	complaint.Status = status
	r.complaints[id] = complaint
	return nil
}

func (r *fakeComplaintRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.complaints[id]; !ok {
		r.mu.Unlock()
		return pgx.ErrNoRows
	}
	delete(r.complaints, id)
	r.mu.Unlock()

	if r.cascade != nil {
		r.cascade.deleteByComplaint(id)
	}
	return nil
}

func (r *fakeComplaintRepo) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Complaint{}
	for _, complaint := range r.complaints {
		if filter.ComplainerID != nil && complaint.ComplainerID != *filter.ComplainerID {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if complaint.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, complaint)
	}
	return out, nil
}

type fakeTransactionRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{rows: map[string]domain.Transaction{}}
}

func (r *fakeTransactionRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]domain.Transaction, len(r.rows))
	for k, v := range r.rows {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.rows = saved
	}
}

func (r *fakeTransactionRepo) Create(_ context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[txn.ComplaintID]; exists {
		return uniqueViolation()
	}
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	r.rows[txn.ComplaintID] = *txn
	return nil
}

func (r *fakeTransactionRepo) GetByComplaint(_ context.Context, complaintID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.rows[complaintID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &txn, nil
}

func (r *fakeTransactionRepo) deleteByComplaint(complaintID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, complaintID)
}

func (r *fakeTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeGateway struct {
	mu sync.Mutex

	quoteCalls     int
	recipientCalls int
	transferCalls  int
	fundCalls      int
	cancelCalls    int

	failQuote    error
	failTransfer error
	failFund     error
	failCancel   error
}

func (g *fakeGateway) CreateQuote(context.Context, decimal.Decimal) (domain.QuoteID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quoteCalls++
	if g.failQuote != nil {
		return "", g.failQuote
	}
	return "quote-1", nil
}

func (g *fakeGateway) CreateRecipient(context.Context, string, string) (domain.RecipientID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recipientCalls++
	return "701", nil
}

func (g *fakeGateway) CreateTransfer(context.Context, domain.RecipientID, domain.QuoteID) (domain.TransferID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transferCalls++
	if g.failTransfer != nil {
		return "", g.failTransfer
	}
	return "9001", nil
}

func (g *fakeGateway) Fund(context.Context, domain.TransferID) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fundCalls++
	if g.failFund != nil {
		return "", "", g.failFund
	}
	return "COMPLETED", "", nil
}

func (g *fakeGateway) Cancel(context.Context, domain.TransferID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelCalls++
	return g.failCancel
}

type fakeBlobStore struct {
	uploads int
	lastKey string
}

func (b *fakeBlobStore) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	b.uploads++
	b.lastKey = key
	return "https://photos.example.com/" + key, nil
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     int
	lastTo   []string
	lastSubj string
	lastBody string
	failWith error
}

func (m *fakeMailer) Send(_ context.Context, subject string, to []string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	m.lastTo = to
	m.lastSubj = subject
	m.lastBody = body
	return m.failWith
}

func listAll() repository.ComplaintFilter {
	return repository.ComplaintFilter{}
}

// uniqueViolation mimics the constraint failure a live database would raise.
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}
