package store

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

// RecordOrderView appends an admin order view to the audit trail
func (s *Store) RecordOrderView(ctx context.Context, entry *models.OrderViewAudit) error {
	query := `
		INSERT INTO order_view_audit (order_id, admin_user_id, request_id, client_ip)
		VALUES ($1, $2, $3, $4)
		RETURNING id, viewed_at`

	row := s.db.QueryRowxContext(ctx, query,
		entry.OrderID, entry.AdminUserID, entry.RequestID, entry.ClientIP)
	if err := row.Scan(&entry.ID, &entry.ViewedAt); err != nil {
		return fmt.Errorf("failed to record order view: %w", err)
	}
	return nil
}

// ListOrderViews returns the latest views of an order, newest first
func (s *Store) ListOrderViews(ctx context.Context, orderID int64, limit int) ([]models.OrderViewAudit, error) {
	var views []models.OrderViewAudit
	err := s.db.SelectContext(ctx, &views, `
		SELECT id, order_id, admin_user_id, request_id, client_ip, viewed_at
		FROM order_view_audit
		WHERE order_id = $1
		ORDER BY viewed_at DESC
		LIMIT $2`, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list order views: %w", err)
	}
	return views, nil
}
