package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"guardian/internal/recall"
	"guardian/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists recall aggregates in a single row each: scalar
// columns for the immutable descriptive fields and totals, JSONB for the
// obligation list and audit trail, and a version column guarding every
// update.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recallColumns = `recall_id, product_name, batch_id, reason, initiated_by, initiated_at,
	status, distributors, total_quantity_distributed, total_quantity_returned,
	audit_trail, version, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, r *recall.Recall) error {
	distributors, auditTrail, err := marshalAggregate(r)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recalls (` + recallColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, now(), now())
		RETURNING version, created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query,
		r.ID, r.ProductName, r.BatchID, r.Reason, r.InitiatedBy, r.InitiatedAt,
		string(r.Status), distributors, r.TotalQuantityDistributed, r.TotalQuantityReturned,
		auditTrail,
	).Scan(&r.Version, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert recall: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, recallID string) (*recall.Recall, error) {
	query := `SELECT ` + recallColumns + ` FROM recalls WHERE recall_id = $1`
	return scanRecall(s.db.QueryRowContext(ctx, query, recallID))
}

// Update writes back the full aggregate, guarded by the version the caller
// read. Zero rows affected means either a concurrent writer won the race or
// the row is gone; the two are distinguished with a follow-up existence
// check so the service can react correctly.
func (s *PostgresStore) Update(ctx context.Context, r *recall.Recall) error {
	distributors, auditTrail, err := marshalAggregate(r)
	if err != nil {
		return err
	}

	query := `
		UPDATE recalls
		SET status = $2, distributors = $3, total_quantity_returned = $4,
			audit_trail = $5, version = version + 1, updated_at = now()
		WHERE recall_id = $1 AND version = $6
		RETURNING version, updated_at
	`
	err = s.db.QueryRowContext(ctx, query,
		r.ID, string(r.Status), distributors, r.TotalQuantityReturned, auditTrail, r.Version,
	).Scan(&r.Version, &r.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update recall: %w", err)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM recalls WHERE recall_id = $1)`, r.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check recall existence: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrVersionConflict
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]*recall.Recall, error) {
	query := `SELECT ` + recallColumns + ` FROM recalls ORDER BY created_at DESC LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recalls: %w", err)
	}
	defer rows.Close()

	var recalls []*recall.Recall
	for rows.Next() {
		r, err := scanRecall(rows)
		if err != nil {
			return nil, err
		}
		recalls = append(recalls, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recalls: %w", err)
	}
	return recalls, nil
}

func marshalAggregate(r *recall.Recall) (distributors, auditTrail []byte, err error) {
	distributors, err = json.Marshal(r.Distributors)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal distributors: %w", err)
	}
	auditTrail, err = json.Marshal(r.AuditTrail)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal audit trail: %w", err)
	}
	return distributors, auditTrail, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecall(row rowScanner) (*recall.Recall, error) {
	var (
		r            recall.Recall
		status       string
		distributors []byte
		auditTrail   []byte
	)
	err := row.Scan(
		&r.ID, &r.ProductName, &r.BatchID, &r.Reason, &r.InitiatedBy, &r.InitiatedAt,
		&status, &distributors, &r.TotalQuantityDistributed, &r.TotalQuantityReturned,
		&auditTrail, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan recall: %w", err)
	}

	r.Status = recall.Status(status)
	if err := json.Unmarshal(distributors, &r.Distributors); err != nil {
		return nil, fmt.Errorf("unmarshal distributors: %w", err)
	}
	if err := json.Unmarshal(auditTrail, &r.AuditTrail); err != nil {
		return nil, fmt.Errorf("unmarshal audit trail: %w", err)
	}
	return &r, nil
}
