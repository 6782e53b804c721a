package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shopdir/internal/shop/models"
	"shopdir/pkg/platform/sentinel"
)

// PostgresStore persists shop aggregates in PostgreSQL. The verification
// record is stored as a JSONB document; its status is duplicated into a
// dedicated column so the lifecycle compare-and-set can be expressed as a
// guarded UPDATE.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed shop store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS shops (
	id UUID PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	license_number TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT FALSE,
	is_live BOOLEAN NOT NULL DEFAULT FALSE,
	verification_status TEXT NOT NULL DEFAULT 'pending',
	verification JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the shops table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure shops schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, shop *models.Shop) error {
	verification, err := json.Marshal(shop.Verification)
	if err != nil {
		return fmt.Errorf("marshal verification record: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shops (id, owner_id, name, address, license_number, phone,
			is_active, is_live, verification_status, verification, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, shop.ID, shop.OwnerID, shop.Name, shop.Address, shop.LicenseNumber, shop.Phone,
		shop.IsActive, shop.IsLive, string(shop.Verification.Status), verification,
		shop.CreatedAt, shop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, address, license_number, phone,
			is_active, is_live, verification, created_at, updated_at
		FROM shops
		WHERE id = $1
	`, id)
	shop, err := scanShop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find shop: %w", err)
	}
	return shop, nil
}

// Update writes step evidence. Like FinalizeIfPending it is guarded on the
// pending status, so a stale snapshot racing an admin decision cannot write
// the terminal state back to pending.
func (s *PostgresStore) Update(ctx context.Context, shop *models.Shop) error {
	verification, err := json.Marshal(shop.Verification)
	if err != nil {
		return fmt.Errorf("marshal verification record: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE shops SET
			name = $2, address = $3, license_number = $4, phone = $5,
			is_active = $6, is_live = $7, verification_status = $8,
			verification = $9, updated_at = $10
		WHERE id = $1 AND verification_status = 'pending'
	`, shop.ID, shop.Name, shop.Address, shop.LicenseNumber, shop.Phone,
		shop.IsActive, shop.IsLive, string(shop.Verification.Status), verification,
		shop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	return s.requirePendingRow(ctx, res, shop.ID, "update")
}

func (s *PostgresStore) FinalizeIfPending(ctx context.Context, shop *models.Shop) error {
	verification, err := json.Marshal(shop.Verification)
	if err != nil {
		return fmt.Errorf("marshal verification record: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE shops SET
			is_active = $2, is_live = $3, verification_status = $4,
			verification = $5, updated_at = $6
		WHERE id = $1 AND verification_status = 'pending'
	`, shop.ID, shop.IsActive, shop.IsLive, string(shop.Verification.Status),
		verification, shop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("finalize shop: %w", err)
	}
	return s.requirePendingRow(ctx, res, shop.ID, "finalize")
}

// requirePendingRow resolves a zero-row guarded UPDATE: either the shop is
// gone or its status already left pending.
func (s *PostgresStore) requirePendingRow(ctx context.Context, res sql.Result, id uuid.UUID, verb string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s shop: rows affected: %w", verb, err)
	}
	if affected == 0 {
		if _, findErr := s.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func scanShop(row *sql.Row) (*models.Shop, error) {
	var (
		shop         models.Shop
		verification []byte
	)
	err := row.Scan(&shop.ID, &shop.OwnerID, &shop.Name, &shop.Address,
		&shop.LicenseNumber, &shop.Phone, &shop.IsActive, &shop.IsLive,
		&verification, &shop.CreatedAt, &shop.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(verification, &shop.Verification); err != nil {
		return nil, fmt.Errorf("unmarshal verification record: %w", err)
	}
	return &shop, nil
}
