package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// FakeTx records Commit and Rollback. Any other pgx.Tx method panics, so it
// only suits code whose repositories are mocked.
type FakeTx struct {
	pgx.Tx

	CommitErr  error
	Committed  bool
	RolledBack bool
}

func (tx *FakeTx) Commit(ctx context.Context) error {
	if tx.CommitErr != nil {
		return tx.CommitErr
	}
	tx.Committed = true
	return nil
}

// Rollback after Commit is a no-op, as with pgx.
func (tx *FakeTx) Rollback(ctx context.Context) error {
	if tx.Committed {
		return pgx.ErrTxClosed
	}
	tx.RolledBack = true
	return nil
}

// FakeTxBeginner hands out Tx, or fails with Err.
type FakeTxBeginner struct {
	Tx    *FakeTx
	Err   error
	Calls int
}

func NewFakeTxBeginner() *FakeTxBeginner {
	return &FakeTxBeginner{Tx: &FakeTx{}}
}

func (b *FakeTxBeginner) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	b.Calls++
	if b.Err != nil {
		return nil, b.Err
	}
	return b.Tx, nil
}
