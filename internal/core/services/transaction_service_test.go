package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skillswap/internal/adapters/persistence/models"
	"skillswap/internal/adapters/persistence/repositories"
)

func newTransactionService(db *gorm.DB) *TransactionService {
	return NewTransactionService(
		repositories.NewTransactionRepository(db),
		repositories.NewUserRepository(db),
		newTestAudit(db),
		newTestNotify(db),
	)
}

func TestBuyCoinsCreditsBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newTransactionService(db)
	user := createTestUser(t, db, "buyer")
	require.NoError(t, db.Model(user).Update("coins", 10).Error)

	purchase, balance, err := svc.BuyCoins(context.Background(), user.ID, 50)
	require.NoError(t, err)

	assert.Equal(t, 60, balance)
	assert.Equal(t, models.TxTypePurchase, purchase.Type)
	assert.Equal(t, models.TxStatusCompleted, purchase.Status)
	assert.Equal(t, user.ID, purchase.FromUserID)
	assert.Equal(t, user.ID, purchase.ToUserID)
	assert.NotEmpty(t, purchase.ReferenceNo)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 60, stored.Coins)

	var rows int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestBuyCoinsRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	svc := newTransactionService(db)
	user := createTestUser(t, db, "buyer")
	require.NoError(t, db.Model(user).Update("coins", 10).Error)

	for _, amount := range []int{0, -5} {
		_, _, err := svc.BuyCoins(context.Background(), user.ID, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 10, stored.Coins)

	var rows int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestBuyCoinsUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTransactionService(db)

	_, _, err := svc.BuyCoins(context.Background(), 9999, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTransactionCreateGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newTransactionService(db)
	from := createTestUser(t, db, "payer")
	to := createTestUser(t, db, "payee")

	_, err := svc.Create(context.Background(), &CreateTransactionInput{
		FromUserID: from.ID, ToUserID: to.ID, Coins: 10, Type: "tip",
	})
	assert.ErrorIs(t, err, ErrInvalidTxType)

	_, err = svc.Create(context.Background(), &CreateTransactionInput{
		FromUserID: from.ID, ToUserID: to.ID, Coins: 0, Type: models.TxTypeServicePayment,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Create(context.Background(), &CreateTransactionInput{
		FromUserID: from.ID, ToUserID: 9999, Coins: 10, Type: models.TxTypeServicePayment,
	})
	assert.ErrorIs(t, err, ErrPartyNotFound)

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		FromUserID: from.ID, ToUserID: to.ID, Coins: 10, Type: models.TxTypeServicePayment,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusPending, tx.Status)
}

func TestTransactionGetByIDScopesToParties(t *testing.T) {
	db := newTestDB(t)
	svc := newTransactionService(db)
	from := createTestUser(t, db, "payer")
	to := createTestUser(t, db, "payee")
	outsider := createTestUser(t, db, "outsider")

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		FromUserID: from.ID, ToUserID: to.ID, Coins: 10, Type: models.TxTypeServicePayment,
	})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), tx.ID, from.ID, false)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), tx.ID, outsider.ID, false)
	assert.ErrorIs(t, err, ErrNotTransactionParty)

	_, err = svc.GetByID(context.Background(), tx.ID, outsider.ID, true)
	assert.NoError(t, err)
}

func TestTransactionUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newTransactionService(db)
	from := createTestUser(t, db, "payer")
	to := createTestUser(t, db, "payee")
	admin := createTestAdmin(t, db)

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		FromUserID: from.ID, ToUserID: to.ID, Coins: 10, Type: models.TxTypeServicePayment,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), tx.ID, admin.ID, "voided", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidTxStatus)

	updated, err := svc.UpdateStatus(context.Background(), tx.ID, admin.ID, models.TxStatusCompleted, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusCompleted, updated.Status)
}

func TestListFiltersByDateRange(t *testing.T) {
	db := newTestDB(t)
	svc := newTransactionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	mkTx := func(ref string, createdAt time.Time) {
		tx := &models.Transaction{
			ReferenceNo: ref,
			FromUserID:  alice.ID,
			ToUserID:    bob.ID,
			Coins:       10,
			Type:        models.TxTypeServicePayment,
			Status:      models.TxStatusCompleted,
		}
		require.NoError(t, db.Create(tx).Error)
		require.NoError(t, db.Model(tx).Update("created_at", createdAt).Error)
	}

	mkTx("tx-january", time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	mkTx("tx-february", time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC))
	mkTx("tx-march", time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)

	items, total, err := svc.List(context.Background(), &ListTransactionsInput{
		UserID:   alice.ID,
		DateFrom: &from,
		DateTo:   &to,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "tx-february", items[0].ReferenceNo)

	// Lower bound only.
	items, total, err = svc.List(context.Background(), &ListTransactionsInput{
		UserID:   alice.ID,
		DateFrom: &from,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
}
