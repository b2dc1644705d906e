package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/broker"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/state"
	"storefront/internal/util"

	"go.uber.org/zap"
)

const (
	// MaxQuantity bounds a single add-to-cart so the backend never sees an overflowing count.
	MaxQuantity = 9999

	// SelectionRequiredMessage is shown when color or size is missing.
	SelectionRequiredMessage = "Please choose a color and size."
	// AdmissionFailedMessage is shown when the backend rejects an authenticated add.
	AdmissionFailedMessage = "We could not add this item to your cart. Please try again."
)

// ParseQuantity floors the quantity field and clamps it to at least 1.
// Anything that is not a number counts as 1.
func ParseQuantity(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 1
	}
	f = math.Floor(f)
	switch {
	case f < 1:
		return 1
	case f > MaxQuantity:
		return MaxQuantity
	}
	return int(f)
}

// AdmissionRequest is one add-to-cart attempt
type AdmissionRequest struct {
	ProductID int64
	Selection catalog.Selection
	Quantity  int
}

// Admission describes an accepted add-to-cart
type Admission struct {
	Mode    string
	Product *models.Product
	Item    models.CartItem
}

// CartService admits items into the authenticated or the guest cart
type CartService struct {
	backend    BackendAPI
	products   *ProductService
	events     EventPublisher
	guestCarts GuestCartStore
	logger     *zap.Logger
}

// NewCartService creates a new cart service. With a nil guestCarts the guest
// cart lives only as long as the in-memory session.
func NewCartService(backend BackendAPI, products *ProductService, events EventPublisher, guestCarts GuestCartStore) *CartService {
	return &CartService{
		backend:    backend,
		products:   products,
		events:     events,
		guestCarts: guestCarts,
		logger:     util.GetLogger(),
	}
}

// RestoreGuestCart loads a persisted guest cart into a session whose
// in-memory guest cart is empty, as after a restart or an idle eviction.
// A non-empty in-memory cart is always the newer one and is left alone.
func (s *CartService) RestoreGuestCart(ctx context.Context, st *state.Store) {
	if s.guestCarts == nil || len(st.State().Cart.GuestItems) > 0 {
		return
	}
	items, err := s.guestCarts.GetGuestCart(ctx, st.ID())
	if err != nil {
		s.logger.Warn("Failed to load guest cart", zap.String("session_id", st.ID()), zap.Error(err))
		return
	}
	if len(items) > 0 {
		st.Dispatch(state.GuestCartRestored{Items: items})
	}
}

func (s *CartService) persistGuestCart(ctx context.Context, st *state.Store, items []models.CartItem) {
	if s.guestCarts == nil {
		return
	}
	if err := s.guestCarts.SetGuestCart(ctx, st.ID(), items); err != nil {
		// the in-memory cart stays authoritative while the session is live
		s.logger.Warn("Failed to persist guest cart", zap.String("session_id", st.ID()), zap.Error(err))
	}
}

// Admit adds the selected variant to the session's cart. Sessions holding an
// auth token go through the backend cart; all others get the guest cart and
// never reach the backend cart endpoint.
//
// On failure the returned product, when non-nil, is the one the attempt was
// evaluated against so the caller can render the product page again.
func (s *CartService) Admit(ctx context.Context, st *state.Store, req AdmissionRequest) (*Admission, *models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Admit")
	defer span.End()

	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := s.product(ctx, st, req.ProductID)
	if err != nil {
		return nil, nil, err
	}

	variant, ok := catalog.Resolve(product.Variants, req.Selection)
	if !ok {
		msg := SelectionRequiredMessage
		if req.Selection.Complete() {
			msg = catalog.UnavailableMessage
		}
		util.CartAdmissionsTotal.WithLabelValues(admissionMode(st), "rejected").Inc()
		return nil, product, apperr.InvalidErr(msg)
	}

	item := models.CartItem{
		ID:        product.ID,
		VariantID: variant.ID,
		Name:      product.Name,
		Price:     catalog.DisplayPrice(product.Price, variant),
		Image:     catalog.EffectiveImage(product, variant),
		Quantity:  req.Quantity,
	}

	auth := st.State().Auth
	mode := models.CartModeGuest
	if auth.LoggedIn() {
		mode = models.CartModeAuthenticated
		if err := s.backend.AddToCart(ctx, auth.Token, product.ID, item.Quantity); err != nil {
			s.logger.Error("Error adding item to cart",
				zap.String("session_id", st.ID()),
				zap.Int64("product_id", product.ID),
				zap.Int64("variant_id", variant.ID),
				zap.Error(err))
			util.CartAdmissionsTotal.WithLabelValues(mode, "failed").Inc()
			s.publishFailed(ctx, st.ID(), item, err)
			return nil, product, apperr.New(apperr.BadGateway, AdmissionFailedMessage, err)
		}
		st.Dispatch(state.CartItemAdded{Item: item})
	} else {
		after := st.Dispatch(state.GuestCartItemAdded{Item: item})
		s.persistGuestCart(ctx, st, after.Cart.GuestItems)
	}

	util.CartAdmissionsTotal.WithLabelValues(mode, "success").Inc()
	s.logger.Info("Item added to cart",
		zap.String("session_id", st.ID()),
		zap.String("mode", mode),
		zap.Int64("product_id", product.ID),
		zap.Int64("variant_id", variant.ID),
		zap.Int("quantity", item.Quantity))
	s.publishAdded(ctx, st.ID(), mode, item)

	return &Admission{Mode: mode, Product: product, Item: item}, product, nil
}

// product reuses the product held in state when it is the requested one.
func (s *CartService) product(ctx context.Context, st *state.Store, id int64) (*models.Product, error) {
	if p, ok := st.State().CurrentProduct(id); ok {
		return p, nil
	}
	return s.products.Fetch(ctx, id)
}

func admissionMode(st *state.Store) string {
	if st.State().Auth.LoggedIn() {
		return models.CartModeAuthenticated
	}
	return models.CartModeGuest
}

func (s *CartService) publishAdded(ctx context.Context, sessionID, mode string, item models.CartItem) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, eventPublishTimeout)
	defer cancel()

	event := &models.CartItemAddedEvent{
		BaseEvent: broker.NewBaseEvent(models.EventTypeCartItemAdded),
		SessionID: sessionID,
		Mode:      mode,
		ProductID: item.ID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
		UnitPrice: item.Price.StringFixed(2),
	}
	if err := s.events.PublishCartItemAdded(ctx, event); err != nil {
		s.logger.Warn("Failed to publish CartItemAdded event", zap.Int64("product_id", item.ID), zap.Error(err))
	}
}

func (s *CartService) publishFailed(ctx context.Context, sessionID string, item models.CartItem, cause error) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, eventPublishTimeout)
	defer cancel()

	event := &models.CartAdmissionFailedEvent{
		BaseEvent: broker.NewBaseEvent(models.EventTypeCartAdmissionFailed),
		SessionID: sessionID,
		ProductID: item.ID,
		VariantID: item.VariantID,
		Reason:    cause.Error(),
	}
	if err := s.events.PublishCartAdmissionFailed(ctx, event); err != nil {
		s.logger.Warn("Failed to publish CartAdmissionFailed event", zap.Int64("product_id", item.ID), zap.Error(err))
	}
}
