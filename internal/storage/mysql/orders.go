package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aps-backend/internal/storage"
)

var ErrOrderNotFound = errors.New("order not found")

// GetOrders lists production orders, optionally filtered by lifecycle
// status. Intake order is preserved (id ascending) so priority ties in the
// scheduler stay stable.
func (s *Storage) GetOrders(ctx context.Context, status string) ([]*storage.Order, error) {
	const op = "storage.mysql.orders.GetOrders"

	stmt := `
		SELECT id, order_num, product, quantity, due_date, customer_tier, status, priority
		FROM production_orders
	`
	var args []interface{}
	if status != "" {
		stmt += " WHERE status = ?"
		args = append(args, status)
	}
	stmt += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.Order
	for rows.Next() {
		var o storage.Order
		err := rows.Scan(&o.ID, &o.OrderNum, &o.Product, &o.Quantity, &o.DueDate, &o.CustomerTier, &o.Status, &o.Priority)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, &o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

func (s *Storage) GetOrder(ctx context.Context, id int) (*storage.Order, error) {
	const op = "storage.mysql.orders.GetOrder"

	stmt := `
		SELECT id, order_num, product, quantity, due_date, customer_tier, status, priority
		FROM production_orders
		WHERE id = ?
	`

	var o storage.Order
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(
		&o.ID, &o.OrderNum, &o.Product, &o.Quantity, &o.DueDate, &o.CustomerTier, &o.Status, &o.Priority,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &o, nil
}

func (s *Storage) SaveOrder(ctx context.Context, o *storage.Order) (int, error) {
	const op = "storage.mysql.orders.SaveOrder"

	stmt := `
		INSERT INTO production_orders (order_num, product, quantity, due_date, customer_tier, status, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, stmt, o.OrderNum, o.Product, o.Quantity, o.DueDate, o.CustomerTier, o.Status, o.Priority)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int(id), nil
}

// UpdateOrder rewrites the mutable order attributes; the caller is expected
// to have recomputed priority for the new due date / tier / quantity.
func (s *Storage) UpdateOrder(ctx context.Context, o *storage.Order) error {
	const op = "storage.mysql.orders.UpdateOrder"

	stmt := `
		UPDATE production_orders
		SET product = ?, quantity = ?, due_date = ?, customer_tier = ?, priority = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, stmt, o.Product, o.Quantity, o.DueDate, o.CustomerTier, o.Priority, o.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}

	return nil
}

func (s *Storage) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	const op = "storage.mysql.orders.UpdateOrderStatus"

	res, err := s.db.ExecContext(ctx, `UPDATE production_orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}

	return nil
}

func (s *Storage) DeleteOrder(ctx context.Context, id int) error {
	const op = "storage.mysql.orders.DeleteOrder"

	res, err := s.db.ExecContext(ctx, `DELETE FROM production_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}

	return nil
}
