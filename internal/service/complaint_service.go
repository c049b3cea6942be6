package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// PaymentGateway abstracts the money-transfer provider.
type PaymentGateway interface {
	CreateQuote(ctx context.Context, amount decimal.Decimal) (domain.QuoteID, error)
	CreateRecipient(ctx context.Context, fullName, iban string) (domain.RecipientID, error)
	CreateTransfer(ctx context.Context, recipient domain.RecipientID, quote domain.QuoteID) (domain.TransferID, error)
	Fund(ctx context.Context, transfer domain.TransferID) (status string, errorCode string, err error)
	Cancel(ctx context.Context, transfer domain.TransferID) error
}

// BlobStore abstracts photo storage.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ComplaintService orchestrates the complaint workflow: store writes and
// gateway calls share one database transaction, so a gateway failure never
// leaves partial local state.
type ComplaintService struct {
	complaints   repository.ComplaintRepository
	transactions repository.TransactionRepository
	users        repository.UserRepository
	tx           persistence.TxRunner
	gateway      PaymentGateway
	blobs        BlobStore
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// ComplaintDependencies bundles collaborators for the service.
type ComplaintDependencies struct {
	ComplaintRepo   repository.ComplaintRepository
	TransactionRepo repository.TransactionRepository
	UserRepo        repository.UserRepository
	TxRunner        persistence.TxRunner
	Gateway         PaymentGateway
	BlobStore       BlobStore
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:   deps.ComplaintRepo,
		transactions: deps.TransactionRepo,
		users:        deps.UserRepo,
		tx:           deps.TxRunner,
		gateway:      deps.Gateway,
		blobs:        deps.BlobStore,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
	}
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Title        string
	Description  string
	Amount       decimal.Decimal
	EncodedPhoto string
	Extension    string
}

// List returns complaints scoped by the caller's role: complainers see
// their own, approvers see pending ones, admins see everything.
func (s *ComplaintService) List(ctx context.Context, user *domain.User) ([]domain.Complaint, error) {
	filter := repository.ComplaintFilter{}
	switch user.Role {
	case domain.RoleComplainer:
		filter.ComplainerID = &user.ID
	case domain.RoleApprover:
		filter.Statuses = []domain.ComplaintStatus{domain.ComplaintStatusPending}
	case domain.RoleAdmin:
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}
	return s.complaints.List(ctx, filter)
}

// Create inserts the complaint, issues the full gateway transaction
// (quote, recipient, transfer) for the claimed amount and records it.
// Ownership is forced to the calling user; the transfer stays unfunded
// until approval. A failure anywhere rolls back both rows. The gateway
// may be left holding a stranded quote/recipient/transfer in that case;
// there is no compensating call, only a log line.
func (s *ComplaintService) Create(ctx context.Context, user *domain.User, input ComplaintCreateInput) (*domain.Complaint, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	photo, err := base64.StdEncoding.DecodeString(input.EncodedPhoto)
	if err != nil {
		return nil, apperrors.NewValidationError("photo is not valid base64", nil)
	}

	ext := strings.TrimPrefix(strings.ToLower(input.Extension), ".")
	key := uuid.NewString() + "." + ext
	photoURL, err := s.blobs.Upload(ctx, key, "image/"+ext, photo)
	if err != nil {
		return nil, err
	}

	complaint := &domain.Complaint{
		ComplainerID: user.ID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Amount:       input.Amount,
		PhotoURL:     photoURL,
		Status:       domain.ComplaintStatusPending,
	}

	var txn *domain.Transaction
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.complaints.Create(ctx, complaint); err != nil {
			return apperrors.MapError(err)
		}
		created, err := s.issueTransaction(ctx, complaint, user)
		if err != nil {
			return err
		}
		txn = created
		return nil
	})
	if err != nil {
		s.logger.Warn("complaint creation rolled back; gateway may hold stranded objects",
			zap.String("complainer_id", user.ID),
			zap.Error(err))
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     user.ID,
		Payload: events.ComplaintCreatedPayload{
			ComplainerID: user.ID,
			Title:        complaint.Title,
			Amount:       complaint.Amount,
			TransferID:   txn.TransferID,
		},
	})
	return complaint, nil
}

// issueTransaction runs the gateway call sequence and persists the
// resulting identifiers alongside the complaint.
func (s *ComplaintService) issueTransaction(ctx context.Context, complaint *domain.Complaint, user *domain.User) (*domain.Transaction, error) {
	quote, err := s.gateway.CreateQuote(ctx, complaint.Amount)
	if err != nil {
		return nil, err
	}
	recipient, err := s.gateway.CreateRecipient(ctx, user.FullName(), user.IBAN)
	if err != nil {
		return nil, err
	}
	transfer, err := s.gateway.CreateTransfer(ctx, recipient, quote)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ComplaintID:     complaint.ID,
		QuoteID:         quote,
		TransferID:      transfer,
		TargetAccountID: recipient,
		Amount:          complaint.Amount,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, apperrors.MapError(err)
	}
	return txn, nil
}

// Approve funds the stored transfer and marks the complaint approved.
// Both happen in one transaction; a funding failure rolls back the status
// change. Re-approving a settled complaint is a conflict and performs no
// gateway call.
func (s *ComplaintService) Approve(ctx context.Context, actor *domain.User, complaintID string) error {
	var (
		txn        *domain.Transaction
		complainer *domain.User
		fundStatus string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		complaint, err := s.lockPending(ctx, complaintID)
		if err != nil {
			return err
		}
		txn, err = s.loadTransaction(ctx, complaintID)
		if err != nil {
			return err
		}
		complainer, err = s.users.GetByID(ctx, complaint.ComplainerID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if err := s.complaints.UpdateStatus(ctx, complaintID, domain.ComplaintStatusApproved); err != nil {
			return apperrors.MapError(err)
		}

		status, errorCode, err := s.gateway.Fund(ctx, txn.TransferID)
		if err != nil {
			return err
		}
		fundStatus = status
		s.logger.Info("transfer funded",
			zap.String("complaint_id", complaintID),
			zap.String("transfer_id", string(txn.TransferID)),
			zap.String("status", status),
			zap.String("error_code", errorCode))
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintApproved,
		ComplaintID: complaintID,
		ActorID:     actor.ID,
		Payload: events.ComplaintApprovedPayload{
			ComplainerEmail: complainer.Email,
			TransferID:      txn.TransferID,
			FundStatus:      fundStatus,
		},
	})
	return nil
}

// Reject cancels the stored transfer and marks the complaint rejected,
// with the same atomicity and conflict rules as Approve.
func (s *ComplaintService) Reject(ctx context.Context, actor *domain.User, complaintID string) error {
	var (
		txn        *domain.Transaction
		complainer *domain.User
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		complaint, err := s.lockPending(ctx, complaintID)
		if err != nil {
			return err
		}
		txn, err = s.loadTransaction(ctx, complaintID)
		if err != nil {
			return err
		}
		complainer, err = s.users.GetByID(ctx, complaint.ComplainerID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if err := s.gateway.Cancel(ctx, txn.TransferID); err != nil {
			return err
		}
		if err := s.complaints.UpdateStatus(ctx, complaintID, domain.ComplaintStatusRejected); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintRejected,
		ComplaintID: complaintID,
		ActorID:     actor.ID,
		Payload: events.ComplaintRejectedPayload{
			ComplainerEmail: complainer.Email,
			TransferID:      txn.TransferID,
		},
	})
	return nil
}

// Delete removes the complaint unconditionally; the transaction row
// cascade-deletes with it. An outstanding (still pending) transfer is
// logged as an audit trail since the gateway copy is left untouched.
func (s *ComplaintService) Delete(ctx context.Context, actor *domain.User, complaintID string) error {
	var payload events.ComplaintDeletedPayload
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		complaint, err := s.complaints.GetByIDForUpdate(ctx, complaintID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
			}
			return apperrors.MapError(err)
		}
		payload.Status = complaint.Status

		if txn, err := s.transactions.GetByComplaint(ctx, complaintID); err == nil {
			payload.TransferID = txn.TransferID
			if complaint.Status == domain.ComplaintStatusPending {
				s.logger.Warn("deleting complaint with outstanding transfer",
					zap.String("complaint_id", complaintID),
					zap.String("transfer_id", string(txn.TransferID)))
			}
		} else if err != pgx.ErrNoRows {
			return apperrors.MapError(err)
		}

		if err := s.complaints.Delete(ctx, complaintID); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: complaintID,
		ActorID:     actor.ID,
		Payload:     payload,
	})
	return nil
}

// lockPending loads the complaint under a row lock and rejects terminal
// states before any gateway call can happen.
func (s *ComplaintService) lockPending(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByIDForUpdate(ctx, complaintID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	if complaint.Status.Terminal() {
		return nil, apperrors.NewConflict("complaint is already settled", map[string]any{
			"id":     complaintID,
			"status": complaint.Status,
		})
	}
	return complaint, nil
}

func (s *ComplaintService) loadTransaction(ctx context.Context, complaintID string) (*domain.Transaction, error) {
	txn, err := s.transactions.GetByComplaint(ctx, complaintID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("transaction", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	return txn, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateCreateInput(input ComplaintCreateInput) error {
	missing := []string{}
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if input.EncodedPhoto == "" {
		missing = append(missing, "encoded_photo")
	}
	if strings.TrimSpace(input.Extension) == "" {
		missing = append(missing, "extension")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	if !input.Amount.IsPositive() {
		return apperrors.NewValidationError("amount must be positive", nil)
	}
	return nil
}
