package database

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Runner 包装 *gorm.DB：每个业务操作一个事务，序列化冲突时整体重试
type Runner struct {
	db      *gorm.DB
	retries int
	log     *zap.Logger
}

func NewRunner(db *gorm.DB, maxRetries int, l *zap.Logger) *Runner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Runner{db: db, retries: maxRetries, log: l}
}

// DB 只读查询用（默认隔离级别即可）
func (r *Runner) DB(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

// Transact 在单个事务里执行 fn。fn 返回错误则整体回滚；
// 只有序列化失败 / 死锁会重试，且只重试这一个事务。
func (r *Runner) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.db.WithContext(ctx).Transaction(fn)
		if err == nil || !IsRetryable(err) || attempt >= r.retries {
			return err
		}
		r.log.Warn("tx retry", zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
}

func backoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * 10 * time.Millisecond
}

// IsRetryable 判断是否是可重试的并发冲突
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}
