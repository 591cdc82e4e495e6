package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey 事务DB在context中的键（私有类型避免冲突）
type txContextKey struct{}

// TxManager 事务管理器
// 设计说明：
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB（避免全局变量）
// 3. 支持嵌套事务（GORM自动使用Savepoint）
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn函数内的所有Repository操作都会在同一事务中执行；
// fn返回error时自动ROLLBACK，返回nil时自动COMMIT
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey{}, tx)
		return fn(txCtx)
	})
}

// dbFromContext 从context获取事务DB，没有则返回默认DB
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
