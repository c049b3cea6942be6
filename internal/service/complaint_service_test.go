package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

type complaintFixture struct {
	service    *ComplaintService
	users      *fakeUserRepo
	complaints *fakeComplaintRepo
	txns       *fakeTransactionRepo
	gateway    *fakeGateway
	blobs      *fakeBlobStore
	mailer     *fakeMailer

	complainer *domain.User
	approver   *domain.User
	admin      *domain.User
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()

	users := newFakeUserRepo()
	txns := newFakeTransactionRepo()
	complaints := newFakeComplaintRepo(txns)
	gw := &fakeGateway{}
	blobs := &fakeBlobStore{}
	mailer := &fakeMailer{}
	logger := zap.NewNop()

	dispatcher := events.NewInMemoryDispatcher(logger)
	NewNotificationService(dispatcher, mailer, logger).RegisterHandlers()

	svc := NewComplaintService(ComplaintDependencies{
		ComplaintRepo:   complaints,
		TransactionRepo: txns,
		UserRepo:        users,
		TxRunner:        &fakeTxRunner{stores: []snapshotter{users, complaints, txns}},
		Gateway:         gw,
		BlobStore:       blobs,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})

	f := &complaintFixture{
		service:    svc,
		users:      users,
		complaints: complaints,
		txns:       txns,
		gateway:    gw,
		blobs:      blobs,
		mailer:     mailer,
	}
	f.complainer = f.seedUser(t, "alice@example.com", domain.RoleComplainer)
	f.approver = f.seedUser(t, "bob@example.com", domain.RoleApprover)
	f.admin = f.seedUser(t, "carol@example.com", domain.RoleAdmin)
	return f
}

func (f *complaintFixture) seedUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		IBAN:         "DE89370400440532013000",
		Role:         role,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func validCreateInput() ComplaintCreateInput {
	return ComplaintCreateInput{
		Title:        "Broken zipper",
		Description:  "The zipper broke after one day",
		Amount:       decimal.NewFromFloat(49.90),
		EncodedPhoto: base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")),
		Extension:    "jpg",
	}
}

func TestCreateComplaintPersistsComplaintAndTransaction(t *testing.T) {
	f := newComplaintFixture(t)

	complaint, err := f.service.Create(context.Background(), f.complainer, validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, domain.ComplaintStatusPending, complaint.Status)
	assert.Equal(t, f.complainer.ID, complaint.ComplainerID)
	assert.Contains(t, complaint.PhotoURL, f.blobs.lastKey)

	txn, err := f.txns.GetByComplaint(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteID("quote-1"), txn.QuoteID)
	assert.Equal(t, domain.TransferID("9001"), txn.TransferID)
	assert.Equal(t, domain.RecipientID("701"), txn.TargetAccountID)
	assert.True(t, txn.Amount.Equal(complaint.Amount))

	assert.Equal(t, 1, f.gateway.quoteCalls)
	assert.Equal(t, 1, f.gateway.recipientCalls)
	assert.Equal(t, 1, f.gateway.transferCalls)
	assert.Equal(t, 0, f.gateway.fundCalls)
}

func TestCreateComplaintGatewayFailureLeavesNoState(t *testing.T) {
	f := newComplaintFixture(t)
	f.gateway.failTransfer = apperrors.NewPaymentUnavailable(errors.New("gateway down"))

	_, err := f.service.Create(context.Background(), f.complainer, validCreateInput())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "PAYMENT_GATEWAY_UNAVAILABLE"))

	list, err := f.complaints.List(context.Background(), listAll())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, f.txns.count())
}

func TestCreateComplaintRejectsInvalidPhoto(t *testing.T) {
	f := newComplaintFixture(t)

	input := validCreateInput()
	input.EncodedPhoto = "not-base64!!!"
	_, err := f.service.Create(context.Background(), f.complainer, input)

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	assert.Zero(t, f.blobs.uploads)
	assert.Zero(t, f.gateway.quoteCalls)
}

func TestCreateComplaintRejectsNonPositiveAmount(t *testing.T) {
	f := newComplaintFixture(t)

	input := validCreateInput()
	input.Amount = decimal.Zero
	_, err := f.service.Create(context.Background(), f.complainer, input)

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestListScopesByRole(t *testing.T) {
	f := newComplaintFixture(t)
	other := f.seedUser(t, "dave@example.com", domain.RoleComplainer)

	mine, err := f.service.Create(context.Background(), f.complainer, validCreateInput())
	require.NoError(t, err)
	theirs, err := f.service.Create(context.Background(), other, validCreateInput())
	require.NoError(t, err)
	require.NoError(t, f.service.Approve(context.Background(), f.approver, theirs.ID))

	own, err := f.service.List(context.Background(), f.complainer)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	pending, err := f.service.List(context.Background(), f.approver)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, mine.ID, pending[0].ID)

	all, err := f.service.List(context.Background(), f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestApproveFundsTransferAndNotifies(t *testing.T) {
	f := newComplaintFixture(t)
	complaint, err := f.service.Create(context.Background(), f.complainer, validCreateInput())
	require.NoError(t, err)

	require.NoError(t, f.service.Approve(context.Background(), f.approver, complaint.ID))

	stored, err := f.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusApproved, stored.Status)
	assert.Equal(t, 1, f.gateway.fundCalls)

	assert.Equal(t, 1, f.mailer.sent)
	assert.Equal(t, []string{f.complainer.Email}, f.mailer.lastTo)
	assert.Equal(t, "Complaint approved", f.mailer.lastSubj)
}

func TestApproveTwiceConflictsWithoutSecondFund(t *testing.T) {
	f := newComplaintFixture(t)
	complaint, err := f.service.Create(context.Background(), f.complainer, validCreateInput())
	require.NoError(t, err)

	require.NoError(t, f.service.Approve(context.Background(), f.approver, complaint.ID))
	err = f.service.Approve(context.Background(), f.approver, complaint.ID)

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	assert.Equal(t, 1, f.gateway.fundCalls)
	assert.Equal(t, 1, f.mailer.sent)
}

func TestApproveFundFailureKeepsComplaintPending(t *testing.T) {
	f := newComplaintFixture(t)
	complaint, err := f.service.Create(context.Background(), f.complainer, validCreateInput())
	require.NoError(t, err)

	f.gateway.failFund = apperrors.NewPaymentRejected("insufficient balance", nil)
	err = f.service.Approve(context.Background(), f.approver, complaint.ID)

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "PAYMENT_GATEWAY_REJECTED"))

	stored, err := f.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusPending, stored.Status)
	assert.Zero(t, f.mailer.sent)
}

func TestRejectCancelsTransfer(t *testing.T) {
	f := newComplaintFixture(t)
	complaint, err := f.service.Create(context.Background(), f.complainer, validCreateInput())
	require.NoError(t, err)

	require.NoError(t, f.service.Reject(context.Background(), f.approver, complaint.ID))

	stored, err := f.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusRejected, stored.Status)
	assert.Equal(t, 1, f.gateway.cancelCalls)
	assert.Zero(t, f.mailer.sent)

	err = f.service.Approve(context.Background(), f.approver, complaint.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	assert.Zero(t, f.gateway.fundCalls)
}

func TestDeleteRemovesComplaintAndTransaction(t *testing.T) {
	f := newComplaintFixture(t)
	complaint, err := f.service.Create(context.Background(), f.complainer, validCreateInput())
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), f.admin, complaint.ID))

	_, err = f.complaints.GetByID(context.Background(), complaint.ID)
	assert.Error(t, err)
	assert.Zero(t, f.txns.count())
}

func TestDeleteUnknownComplaint(t *testing.T) {
	f := newComplaintFixture(t)

	err := f.service.Delete(context.Background(), f.admin, "missing-id")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
