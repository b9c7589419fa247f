package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
)

type donationRepository struct {
	BaseRepository
}

func NewDonationRepository(base BaseRepository) repository.DonationRepository {
	return &donationRepository{base}
}

const donationInsert = `
	INSERT INTO donations (
		id, donor_id, blood_inventory_id, blood_type, donation_date,
		quantity, status, notes, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

const donationSelect = `
	SELECT id, donor_id, blood_inventory_id, blood_type, donation_date,
		   quantity, status, notes, created_at, updated_at
	FROM donations
`

func (r *donationRepository) Create(ctx context.Context, donation *model.Donation) error {
	donation.ID = uuid.New()
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = donation.CreatedAt

	_, err := r.db.ExecContext(ctx, donationInsert,
		donation.ID,
		donation.DonorID,
		donation.BloodInventoryID,
		donation.BloodType,
		donation.DonationDate,
		donation.Quantity,
		donation.Status,
		donation.Notes,
		donation.CreatedAt,
		donation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

func (r *donationRepository) CreateWithInventory(ctx context.Context, donation *model.Donation, inv *model.BloodInventory) error {
	donation.ID = uuid.New()
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = donation.CreatedAt

	inv.ID = uuid.New()
	inv.DonationID = &donation.ID
	inv.CreatedAt = donation.CreatedAt
	inv.UpdatedAt = donation.CreatedAt
	donation.BloodInventoryID = &inv.ID

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, donationInsert,
			donation.ID,
			donation.DonorID,
			donation.BloodInventoryID,
			donation.BloodType,
			donation.DonationDate,
			donation.Quantity,
			donation.Status,
			donation.Notes,
			donation.CreatedAt,
			donation.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create donation: %w", err)
		}

		return insertInventoryTx(ctx, tx, inv)
	})
}

func (r *donationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	var donation model.Donation
	if err := r.db.GetContext(ctx, &donation, donationSelect+" WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", mapError(err))
	}
	return &donation, nil
}

const donationUpdate = `
	UPDATE donations SET
		blood_inventory_id = $1,
		blood_type = $2,
		donation_date = $3,
		quantity = $4,
		status = $5,
		notes = $6,
		updated_at = $7
	WHERE id = $8
`

func (r *donationRepository) Update(ctx context.Context, donation *model.Donation) error {
	donation.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, donationUpdate,
		donation.BloodInventoryID,
		donation.BloodType,
		donation.DonationDate,
		donation.Quantity,
		donation.Status,
		donation.Notes,
		donation.UpdatedAt,
		donation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
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

func (r *donationRepository) CompleteWithInventory(ctx context.Context, donation *model.Donation, inv *model.BloodInventory) error {
	donation.UpdatedAt = time.Now()

	inv.ID = uuid.New()
	inv.DonationID = &donation.ID
	inv.CreatedAt = donation.UpdatedAt
	inv.UpdatedAt = donation.UpdatedAt
	donation.BloodInventoryID = &inv.ID

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, donationUpdate,
			donation.BloodInventoryID,
			donation.BloodType,
			donation.DonationDate,
			donation.Quantity,
			donation.Status,
			donation.Notes,
			donation.UpdatedAt,
			donation.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update donation: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}

		return insertInventoryTx(ctx, tx, inv)
	})
}

func (r *donationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Linked inventory goes with the donation, reserved or not.
		if _, err := tx.ExecContext(ctx, `DELETE FROM blood_inventory WHERE donation_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete linked inventory: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM donations WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete donation: %w", err)
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

func (r *donationRepository) List(ctx context.Context, filter *model.DonationFilter) ([]*model.Donation, error) {
	query := donationSelect + " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter != nil && filter.DonorID != uuid.Nil {
		query += fmt.Sprintf(" AND donor_id = $%d", argCount)
		args = append(args, filter.DonorID)
		argCount++
	}
	if filter != nil && filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}

	query += " ORDER BY donation_date DESC"

	var donations []*model.Donation
	if err := r.db.SelectContext(ctx, &donations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

func (r *donationRepository) CountByStatus(ctx context.Context) (*model.StatusCounts, error) {
	return countByStatus(ctx, r.db, "donations")
}

func insertInventoryTx(ctx context.Context, tx *sqlx.Tx, inv *model.BloodInventory) error {
	if inv.Status == "" {
		inv.Status = model.InventoryStatusAvailable
	}

	query := `
		INSERT INTO blood_inventory (
			id, blood_type, quantity, expiry_date, status, donation_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.ExecContext(ctx, query,
		inv.ID,
		inv.BloodType,
		inv.Quantity,
		inv.ExpiryDate,
		inv.Status,
		inv.DonationID,
		inv.CreatedAt,
		inv.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert inventory row: %w", err)
	}
	return nil
}

type statusCountRow struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

func countByStatus(ctx context.Context, db sqlx.QueryerContext, table string) (*model.StatusCounts, error) {
	query := fmt.Sprintf(`SELECT status, COUNT(*) AS count FROM %s GROUP BY status`, table)

	var rows []statusCountRow
	if err := sqlx.SelectContext(ctx, db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count %s by status: %w", table, err)
	}

	counts := &model.StatusCounts{ByStatus: make(map[string]int)}
	for _, row := range rows {
		counts.ByStatus[row.Status] = row.Count
		counts.Total += row.Count
	}
	return counts, nil
}
