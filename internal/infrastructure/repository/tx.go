package repository

import (
	"context"

	domainRepo "github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/internal/infrastructure/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

// forUpdate is SELECT ... FOR UPDATE; the lock is held until the enclosing
// transaction commits or rolls back.
var forUpdate = clause.Locking{Strength: "UPDATE"}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager backed by db
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return database.TranslateError(err)
}

// conn returns the transaction bound to ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
