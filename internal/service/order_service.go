package service

import (
	"context"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/state"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	orderNotFound = "Order not found."

	// RecentViewsLimit is how many earlier admin views the order page lists.
	RecentViewsLimit = 5
)

// OrderService loads orders for the admin order page
type OrderService struct {
	backend BackendAPI
	audit   AuditLog
	logger  *zap.Logger
}

// NewOrderService creates a new order service. audit may be nil.
func NewOrderService(backend BackendAPI, audit AuditLog) *OrderService {
	return &OrderService{
		backend: backend,
		audit:   audit,
		logger:  util.GetLogger(),
	}
}

// ViewRequest identifies an admin order view
type ViewRequest struct {
	OrderID   int64
	RequestID string
	ClientIP  string
}

// Load fetches an order with the session's admin token, stores it in the
// orders slice and reads it back from state by id.
func (s *OrderService) Load(ctx context.Context, st *state.Store, req ViewRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Load")
	defer span.End()

	auth := st.State().Auth
	if !auth.LoggedIn() {
		return nil, apperr.UnauthorizedErr("Please log in.")
	}
	if !auth.IsAdmin() {
		return nil, apperr.ForbiddenErr("Admins only.")
	}

	fetchID := uuid.New().String()
	st.Dispatch(state.OrderRequested{RequestID: fetchID, OrderID: req.OrderID})

	order, err := s.backend.GetAdminOrder(ctx, auth.Token, req.OrderID)
	if err != nil {
		s.logger.Error("Error fetching order",
			zap.Int64("order_id", req.OrderID),
			zap.String("session_id", st.ID()),
			zap.Error(err))
		return nil, fetchError(err, orderNotFound)
	}

	after := st.Dispatch(state.OrdersLoaded{RequestID: fetchID, Orders: []models.Order{*order}})
	stored, ok := after.OrderByID(req.OrderID)
	if !ok {
		// a newer order request replaced ours; render what we fetched
		util.FetchesSupersededTotal.WithLabelValues("orders").Inc()
		stored = order
	}

	util.OrderViewsTotal.Inc()
	s.recordView(ctx, auth.UserID, req)
	return stored, nil
}

func (s *OrderService) recordView(ctx context.Context, adminID string, req ViewRequest) {
	if s.audit == nil {
		return
	}
	entry := &models.OrderViewAudit{
		OrderID:     req.OrderID,
		AdminUserID: adminID,
		RequestID:   req.RequestID,
		ClientIP:    req.ClientIP,
	}
	if err := s.audit.RecordOrderView(ctx, entry); err != nil {
		s.logger.Warn("Failed to record order view",
			zap.Int64("order_id", req.OrderID),
			zap.String("admin_user_id", adminID),
			zap.Error(err))
	}
}

// RecentViews returns the latest admin views of an order. A failing audit
// store yields no views rather than an error.
func (s *OrderService) RecentViews(ctx context.Context, orderID int64) []models.OrderViewAudit {
	if s.audit == nil {
		return nil
	}
	ctx, span := util.StartSpan(ctx, "OrderService.RecentViews")
	defer span.End()

	views, err := s.audit.ListOrderViews(ctx, orderID, RecentViewsLimit)
	if err != nil {
		s.logger.Warn("Failed to list order views", zap.Int64("order_id", orderID), zap.Error(err))
		return nil
	}
	return views
}
