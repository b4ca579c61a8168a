package memory

import (
	"context"

	"tarantula-log/internal/domain/specimens"
	"tarantula-log/internal/ports/tx"
)

// TxRunner no tiene transacciones: ejecuta fn directo. El orden de los pasos
// (crear antes de referenciar, desvincular antes de borrar) lo mantiene el caller.
type TxRunner struct{}

func NewTxRunner() tx.Runner {
	return TxRunner{}
}

func (TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewStores arma el juego completo de repos en memoria.
func NewStores() specimens.Stores {
	return specimens.Stores{
		Specimens: NewSpecimenRepo(),
		Covers:    NewCoverRepo(),
		Molts:     NewMoltRepo(),
		Health:    NewHealthRepo(),
		Breeding:  NewBreedingRepo(),
		Tx:        NewTxRunner(),
	}
}
