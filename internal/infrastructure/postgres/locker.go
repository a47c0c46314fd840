package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/rentabilidad-api/internal/application/ingest"
	"github.com/jhoicas/rentabilidad-api/internal/domain"
)

// ingestLockID clave del advisory lock de sesión que serializa las cargas entre instancias.
const ingestLockID int64 = 0x52454e54 // "RENT"

var _ ingest.Locker = (*AdvisoryLocker)(nil)

// AdvisoryLocker combina un mutex del proceso con pg_try_advisory_lock sobre una
// conexión dedicada, que se mantiene hasta liberar el lock.
type AdvisoryLocker struct {
	pool *pgxpool.Pool
	mu   sync.Mutex
}

func NewAdvisoryLocker(pool *pgxpool.Pool) *AdvisoryLocker {
	return &AdvisoryLocker{pool: pool}
}

// TryLock no bloquea: si otra carga está en curso (aquí o en otra instancia) devuelve
// domain.ErrIngestionBusy.
func (l *AdvisoryLocker) TryLock(ctx context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, domain.ErrIngestionBusy
	}
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("acquire lock conn: %w", err)
	}
	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, ingestLockID).Scan(&ok); err != nil {
		conn.Release()
		l.mu.Unlock()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}
	if !ok {
		conn.Release()
		l.mu.Unlock()
		return nil, domain.ErrIngestionBusy
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// El contexto de la carga puede estar cancelado: liberar igualmente.
			if _, err := conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, ingestLockID); err != nil {
				// Cerrar la conexión libera el lock de sesión.
				_ = conn.Conn().Close(context.WithoutCancel(ctx))
			}
			conn.Release()
			l.mu.Unlock()
		})
	}
	return release, nil
}
