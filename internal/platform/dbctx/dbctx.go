package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// With returns a Context without a transaction.
func With(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx}
}

// Conn picks the transaction when set, otherwise base, bound to Ctx.
func (c Context) Conn(base *gorm.DB) *gorm.DB {
	tx := c.Tx
	if tx == nil {
		tx = base
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return tx.WithContext(ctx)
}
