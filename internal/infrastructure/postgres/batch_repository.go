package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo historial de cargas (upload_batch). processing_time_ms guarda la duración en milisegundos.
type BatchRepo struct {
	q Querier
}

func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `
	batch_id, batch_name, file_name, file_size, file_path, uploaded_by, upload_date,
	total_products, total_customers, total_transactions, total_revenue,
	status, error_message, processing_time_ms, notes, is_deleted, deleted_date, deleted_by`

func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	const query = `
		INSERT INTO upload_batch (batch_name, file_name, file_size, file_path, uploaded_by, upload_date,
		                          total_revenue, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING batch_id`
	err := r.q.QueryRow(ctx, query,
		b.Name, b.FileName, b.FileSize, b.FilePath, b.UploadedBy, b.UploadDate,
		b.TotalRevenue, string(b.Status), b.Notes,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id int64) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM upload_batch WHERE batch_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	const query = `
		UPDATE upload_batch
		SET total_products = $2, total_customers = $3, total_transactions = $4, total_revenue = $5,
		    status = $6, error_message = $7, processing_time_ms = $8, notes = $9,
		    is_deleted = $10, deleted_date = $11, deleted_by = $12
		WHERE batch_id = $1`
	cmd, err := r.q.Exec(ctx, query,
		b.ID, b.TotalProducts, b.TotalCustomers, b.TotalTransactions, b.TotalRevenue,
		string(b.Status), b.ErrorMessage, b.ProcessingTime.Milliseconds(), b.Notes,
		b.IsDeleted, b.DeletedAt, b.DeletedBy,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lotes no eliminados, del más reciente al más antiguo.
func (r *BatchRepo) List(ctx context.Context, f repository.BatchFilter) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM upload_batch
		WHERE NOT is_deleted AND ($1::text = '' OR uploaded_by = $1)
		ORDER BY upload_date DESC, batch_id DESC
		OFFSET $2`
	args := []any{f.UploadedBy, f.Offset}
	if f.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, f.Limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var (
		b      entity.Batch
		status string
		ms     int64
	)
	err := row.Scan(
		&b.ID, &b.Name, &b.FileName, &b.FileSize, &b.FilePath, &b.UploadedBy, &b.UploadDate,
		&b.TotalProducts, &b.TotalCustomers, &b.TotalTransactions, &b.TotalRevenue,
		&status, &b.ErrorMessage, &ms, &b.Notes, &b.IsDeleted, &b.DeletedAt, &b.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	b.Status = entity.BatchStatus(status)
	b.ProcessingTime = time.Duration(ms) * time.Millisecond
	return &b, nil
}
