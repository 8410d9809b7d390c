package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is the part of *pgxpool.Pool that services need to open transactions.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}
