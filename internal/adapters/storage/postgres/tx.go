package postgres

import (
	"context"
	"fmt"

	"tarantula-log/internal/ports/tx"
)

// TxManager implementa tx.Runner. No soporta anidamiento: un RunInTx dentro de otro
// abre una transacción independiente.
type TxManager struct {
	db DB
}

var _ tx.Runner = (*TxManager)(nil)

func NewTxManager(db DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx hace commit si fn no falla; rollback ante error o panic.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	t, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = t.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, t)); err != nil {
		if rbErr := t.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := t.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
