package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

// Transaction service errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotTransactionParty = errors.New("not a party to this transaction")
	ErrInvalidTxType       = errors.New("invalid transaction type")
	ErrInvalidTxStatus     = errors.New("invalid transaction status")
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrPartyNotFound       = errors.New("transaction party not found")
)

// TransactionService handles the coin ledger
type TransactionService struct {
	transactionRepo *repositories.TransactionRepository
	userRepo        repositories.UserRepository
	auditService    *AuditService
	notify          *NotificationService
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo *repositories.TransactionRepository,
	userRepo repositories.UserRepository,
	auditService *AuditService,
	notify *NotificationService,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		notify:          notify,
	}
}

// ListTransactionsInput represents ledger listing input
type ListTransactionsInput struct {
	UserID   uint // zero for admin "all" view
	Type     string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Offset   int
	Limit    int
}

// List lists transactions; non-admin callers are scoped to their own rows
func (s *TransactionService) List(ctx context.Context, input *ListTransactionsInput) ([]*models.Transaction, int64, error) {
	filter := repositories.TransactionFilter{
		UserID:   input.UserID,
		Type:     input.Type,
		Status:   input.Status,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
	}
	return s.transactionRepo.List(ctx, filter, input.Offset, input.Limit)
}

// GetByID gets a transaction; only a party or an admin may view it
func (s *TransactionService) GetByID(ctx context.Context, id, callerID uint, isAdmin bool) (*models.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	if !isAdmin && tx.FromUserID != callerID && tx.ToUserID != callerID {
		return nil, ErrNotTransactionParty
	}

	return tx, nil
}

// CreateTransactionInput represents create transaction input. Handlers
// normalize legacy field aliases (user_id, amount) before building this.
type CreateTransactionInput struct {
	ServiceID  *uint
	DemandID   *uint
	FromUserID uint
	ToUserID   uint
	Coins      int
	Type       string
	Notes      string
}

// Create records a typed coin transfer in pending state
func (s *TransactionService) Create(ctx context.Context, input *CreateTransactionInput) (*models.Transaction, error) {
	if !contains(models.TransactionTypes, input.Type) {
		return nil, ErrInvalidTxType
	}
	if input.Coins <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.userRepo.GetByID(ctx, input.FromUserID); err != nil {
		return nil, ErrPartyNotFound
	}
	if input.ToUserID != input.FromUserID {
		if _, err := s.userRepo.GetByID(ctx, input.ToUserID); err != nil {
			return nil, ErrPartyNotFound
		}
	}

	tx := &models.Transaction{
		ReferenceNo: uuid.New().String(),
		ServiceID:   input.ServiceID,
		DemandID:    input.DemandID,
		FromUserID:  input.FromUserID,
		ToUserID:    input.ToUserID,
		Coins:       input.Coins,
		Type:        input.Type,
		Status:      models.TxStatusPending,
		Notes:       input.Notes,
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// UpdateStatus transitions a transaction's status (admin only), recording
// before/after in the audit trail.
func (s *TransactionService) UpdateStatus(ctx context.Context, id, adminID uint, status string, meta RequestMeta) (*models.Transaction, error) {
	if !contains(models.TransactionStatuses, status) {
		return nil, ErrInvalidTxStatus
	}

	tx, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	oldStatus := tx.Status
	tx.Status = status
	if err := s.transactionRepo.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, adminID, "transaction.set_status", "transaction", tx.ID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": status,
	}, meta)

	s.notify.Notify(ctx, tx.FromUserID, models.NotificationTypeTransaction,
		"Transaction updated",
		"Transaction "+tx.ReferenceNo+" is now "+status,
		&tx.ID, "transaction")

	return tx, nil
}

// BuyCoins credits a user's balance and records the purchase as a
// completed self-referential ledger row. The balance update and the insert
// run in one database transaction; any failure rolls back both.
func (s *TransactionService) BuyCoins(ctx context.Context, userID uint, amount int) (*models.Transaction, int, error) {
	if amount <= 0 {
		return nil, 0, ErrInvalidAmount
	}

	var purchase *models.Transaction
	var newBalance int

	err := s.transactionRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return ErrUserNotFound
		}

		user.Coins += amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		newBalance = user.Coins

		purchase = &models.Transaction{
			ReferenceNo: uuid.New().String(),
			FromUserID:  userID,
			ToUserID:    userID,
			Coins:       amount,
			Type:        models.TxTypePurchase,
			Status:      models.TxStatusCompleted,
			Notes:       "Coin purchase",
		}
		return tx.Create(purchase).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return purchase, newBalance, nil
}
