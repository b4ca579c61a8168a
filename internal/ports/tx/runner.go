package tx

import "context"

// Runner ejecuta fn dentro de una transacción si el storage la soporta.
// Los repos obtienen la transacción desde el ctx recibido por fn.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
