package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
)

type inventoryRepository struct {
	BaseRepository
}

func NewInventoryRepository(base BaseRepository) repository.InventoryRepository {
	return &inventoryRepository{base}
}

func (r *inventoryRepository) Create(ctx context.Context, inv *model.BloodInventory) error {
	query := `
		INSERT INTO blood_inventory (
			id, blood_type, quantity, expiry_date, status, donation_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	if inv.Status == "" {
		inv.Status = model.InventoryStatusAvailable
	}

	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.BloodType,
		inv.Quantity,
		inv.ExpiryDate,
		inv.Status,
		inv.DonationID,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory row: %w", err)
	}
	return nil
}

func (r *inventoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.BloodInventory, error) {
	query := `
		SELECT id, blood_type, quantity, expiry_date, status, donation_id,
			   created_at, updated_at
		FROM blood_inventory
		WHERE id = $1
	`

	var inv model.BloodInventory
	if err := r.db.GetContext(ctx, &inv, query, id); err != nil {
		return nil, fmt.Errorf("failed to get inventory row: %w", mapError(err))
	}
	return &inv, nil
}

func (r *inventoryRepository) Update(ctx context.Context, inv *model.BloodInventory) error {
	query := `
		UPDATE blood_inventory SET
			blood_type = $1,
			quantity = $2,
			expiry_date = $3,
			status = $4,
			updated_at = $5
		WHERE id = $6
	`

	inv.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		inv.BloodType,
		inv.Quantity,
		inv.ExpiryDate,
		inv.Status,
		inv.UpdatedAt,
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory row: %w", err)
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

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blood_inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory row: %w", err)
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

func (r *inventoryRepository) List(ctx context.Context, filter *model.InventoryFilter) ([]*model.BloodInventory, error) {
	query := `
		SELECT id, blood_type, quantity, expiry_date, status, donation_id,
			   created_at, updated_at
		FROM blood_inventory
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filter != nil && filter.BloodType != "" {
		query += fmt.Sprintf(" AND blood_type = $%d", argCount)
		args = append(args, filter.BloodType)
		argCount++
	}
	if filter != nil && filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}

	query += " ORDER BY updated_at DESC"

	var rows []*model.BloodInventory
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return rows, nil
}

func (r *inventoryRepository) SumAvailableByType(ctx context.Context) ([]model.TypeQuantity, error) {
	query := `
		SELECT blood_type, COALESCE(SUM(quantity), 0) AS quantity
		FROM blood_inventory
		WHERE status = 'AVAILABLE'
		GROUP BY blood_type
		ORDER BY blood_type
	`

	var sums []model.TypeQuantity
	if err := r.db.SelectContext(ctx, &sums, query); err != nil {
		return nil, fmt.Errorf("failed to sum available inventory: %w", err)
	}
	return sums, nil
}

func (r *inventoryRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE blood_inventory
		SET status = 'EXPIRED', updated_at = $1
		WHERE status = 'AVAILABLE' AND expiry_date < $2
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire inventory: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
