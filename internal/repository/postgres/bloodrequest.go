package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
)

type bloodRequestRepository struct {
	BaseRepository
}

func NewBloodRequestRepository(base BaseRepository) repository.BloodRequestRepository {
	return &bloodRequestRepository{base}
}

const bloodRequestSelect = `
	SELECT id, requester_id, blood_inventory_id, blood_type, quantity,
		   urgency, status, notes, request_date, fulfilled_date,
		   created_at, updated_at
	FROM blood_requests
`

func (r *bloodRequestRepository) Create(ctx context.Context, req *model.BloodRequest) error {
	query := `
		INSERT INTO blood_requests (
			id, requester_id, blood_inventory_id, blood_type, quantity,
			urgency, status, notes, request_date, fulfilled_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.RequesterID,
		req.BloodInventoryID,
		req.BloodType,
		req.Quantity,
		req.Urgency,
		req.Status,
		req.Notes,
		req.RequestDate,
		req.FulfilledDate,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blood request: %w", err)
	}
	return nil
}

func (r *bloodRequestRepository) Get(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	var req model.BloodRequest
	if err := r.db.GetContext(ctx, &req, bloodRequestSelect+" WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to get blood request: %w", mapError(err))
	}
	return &req, nil
}

const bloodRequestUpdate = `
	UPDATE blood_requests SET
		blood_inventory_id = $1,
		blood_type = $2,
		quantity = $3,
		urgency = $4,
		status = $5,
		notes = $6,
		fulfilled_date = $7,
		updated_at = $8
	WHERE id = $9
`

func (r *bloodRequestRepository) Update(ctx context.Context, req *model.BloodRequest) error {
	req.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, bloodRequestUpdate,
		req.BloodInventoryID,
		req.BloodType,
		req.Quantity,
		req.Urgency,
		req.Status,
		req.Notes,
		req.FulfilledDate,
		req.UpdatedAt,
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update blood request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bloodRequestRepository) Fulfill(ctx context.Context, req *model.BloodRequest, inventoryID uuid.UUID) error {
	now := time.Now()
	req.BloodInventoryID = &inventoryID
	req.Status = model.RequestStatusFulfilled
	req.FulfilledDate = &now
	req.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Lock the inventory row so two fulfillments cannot consume it.
		var status model.InventoryStatus
		err := tx.GetContext(ctx, &status,
			`SELECT status FROM blood_inventory WHERE id = $1 FOR UPDATE`, inventoryID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("inventory row: %w", repository.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock inventory row: %w", err)
		}
		if status != model.InventoryStatusAvailable {
			return repository.ErrInventoryUnavailable
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE blood_inventory SET status = 'USED', updated_at = $1 WHERE id = $2`,
			now, inventoryID,
		); err != nil {
			return fmt.Errorf("failed to mark inventory used: %w", err)
		}

		result, err := tx.ExecContext(ctx, bloodRequestUpdate,
			req.BloodInventoryID,
			req.BloodType,
			req.Quantity,
			req.Urgency,
			req.Status,
			req.Notes,
			req.FulfilledDate,
			req.UpdatedAt,
			req.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update blood request: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *bloodRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blood_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blood request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bloodRequestRepository) List(ctx context.Context, filter *model.BloodRequestFilter) ([]*model.BloodRequest, error) {
	query := bloodRequestSelect + " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter != nil && filter.RequesterID != uuid.Nil {
		query += fmt.Sprintf(" AND requester_id = $%d", argCount)
		args = append(args, filter.RequesterID)
		argCount++
	}
	if filter != nil && filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}
	if filter != nil && filter.Urgency != "" {
		query += fmt.Sprintf(" AND urgency = $%d", argCount)
		args = append(args, filter.Urgency)
		argCount++
	}

	query += " ORDER BY request_date DESC"

	var requests []*model.BloodRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list blood requests: %w", err)
	}
	return requests, nil
}

func (r *bloodRequestRepository) CountByStatus(ctx context.Context) (*model.StatusCounts, error) {
	return countByStatus(ctx, r.db, "blood_requests")
}
