package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
)

// TransactionFilter narrows ledger listings
type TransactionFilter struct {
	UserID   uint // matches either side
	Type     string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// TransactionRepository handles coin ledger persistence
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// DB exposes the underlying handle for multi-statement transactions
func (r *TransactionRepository) DB() *gorm.DB {
	return r.db
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// GetByID gets a transaction by ID with both parties preloaded
func (r *TransactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Where("id = ?", id).
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Update updates a transaction
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// List lists transactions with filters and pagination
func (r *TransactionRepository) List(ctx context.Context, filter TransactionFilter, offset, limit int) ([]*models.Transaction, int64, error) {
	var txs []*models.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.UserID > 0 {
		query = query.Where("from_user_id = ? OR to_user_id = ?", filter.UserID, filter.UserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("FromUser").Preload("ToUser").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// SumCompletedVolume totals coins moved by completed transactions
func (r *TransactionRepository) SumCompletedVolume(ctx context.Context) (int64, error) {
	var volume *int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("status = ?", models.TxStatusCompleted).
		Select("SUM(coins)").
		Scan(&volume).Error
	if err != nil || volume == nil {
		return 0, err
	}
	return *volume, nil
}
