package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"aps-backend/internal/storage"
)

var (
	ErrMaterialNotFound  = errors.New("material not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

func (s *Storage) GetMaterials(ctx context.Context) ([]*storage.Material, error) {
	const op = "storage.mysql.materials.GetMaterials"

	stmt := `
		SELECT id, name, current_stock, safety_stock, on_order, lead_time_days, unit
		FROM materials
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var materials []*storage.Material
	for rows.Next() {
		var m storage.Material
		err := rows.Scan(&m.ID, &m.Name, &m.CurrentStock, &m.SafetyStock, &m.OnOrder, &m.LeadTimeDays, &m.Unit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		materials = append(materials, &m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return materials, nil
}

func (s *Storage) GetMaterial(ctx context.Context, id string) (*storage.Material, error) {
	const op = "storage.mysql.materials.GetMaterial"

	stmt := `
		SELECT id, name, current_stock, safety_stock, on_order, lead_time_days, unit
		FROM materials
		WHERE id = ?
	`

	var m storage.Material
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(
		&m.ID, &m.Name, &m.CurrentStock, &m.SafetyStock, &m.OnOrder, &m.LeadTimeDays, &m.Unit,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrMaterialNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &m, nil
}

// AddOnOrder is the only core-triggered material mutation: accepting a
// purchase suggestion bumps the on-order quantity.
func (s *Storage) AddOnOrder(ctx context.Context, id string, qty decimal.Decimal) error {
	const op = "storage.mysql.materials.AddOnOrder"

	res, err := s.db.ExecContext(ctx, `UPDATE materials SET on_order = on_order + ? WHERE id = ?`, qty, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrMaterialNotFound)
	}

	return nil
}

// AdjustStock applies a stock-in (positive) or stock-out (negative) delta.
// Stock never goes below zero; the guard runs inside the UPDATE so two
// concurrent stock-outs cannot both pass.
func (s *Storage) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) error {
	const op = "storage.mysql.materials.AdjustStock"

	stmt := `
		UPDATE materials
		SET current_stock = current_stock + ?
		WHERE id = ? AND current_stock + ? >= 0
	`

	res, err := s.db.ExecContext(ctx, stmt, delta, id, delta)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		if _, gerr := s.GetMaterial(ctx, id); gerr != nil {
			return fmt.Errorf("%s: %w", op, ErrMaterialNotFound)
		}
		return fmt.Errorf("%s: %w", op, ErrInsufficientStock)
	}

	return nil
}
