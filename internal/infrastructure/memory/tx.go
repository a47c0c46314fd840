package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

// TxRunner ejecuta fn sobre los repositorios del store. No hay rollback en memoria:
// los cambios hechos antes de un error permanecen.
type TxRunner struct{ s *Store }

func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (t *TxRunner) Run(ctx context.Context, fn func(sales repository.SaleRepository, batches repository.BatchRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(NewSaleRepository(t.s), NewBatchRepository(t.s))
}

// Locker lock de carga dentro del proceso.
type Locker struct{ mu sync.Mutex }

func NewLocker() *Locker { return &Locker{} }

// TryLock no bloquea: si hay otra carga en curso devuelve domain.ErrIngestionBusy.
func (l *Locker) TryLock(context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, domain.ErrIngestionBusy
	}
	return l.mu.Unlock, nil
}
