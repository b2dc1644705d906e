package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/state"
	"storefront/internal/util"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"7", 7},
		{"0", 1},
		{"-3", 1},
		{"", 1},
		{"abc", 1},
		{" 2.9 ", 2},
		{"1e9", MaxQuantity},
		{"NaN", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseQuantity(tt.in), "input %q", tt.in)
	}
}

func redM() catalog.Selection {
	return catalog.Selection{Color: catalog.Choose("red"), Size: catalog.Choose("M")}
}

func newCartService(be *mockBackend, events *mockEvents) *CartService {
	var pub EventPublisher
	if events != nil {
		pub = events
	}
	return NewCartService(be, NewProductService(be, nil, nil), pub, nil)
}

func TestAdmitGuestNeverCallsCartEndpoint(t *testing.T) {
	be := new(mockBackend)
	events := new(mockEvents)
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)
	events.On("PublishCartItemAdded", mock.Anything, mock.MatchedBy(func(e *models.CartItemAddedEvent) bool {
		return e.Mode == models.CartModeGuest && e.VariantID == 10 && e.UnitPrice == "21.99"
	})).Return(nil)

	st := state.NewStore("guest-1")
	adm, _, err := newCartService(be, events).Admit(context.Background(), st, AdmissionRequest{
		ProductID: 1, Selection: redM(), Quantity: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, models.CartModeGuest, adm.Mode)
	be.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	events.AssertExpectations(t)

	cart := st.State().Cart
	assert.Empty(t, cart.Items)
	require.Len(t, cart.GuestItems, 1)
	item := cart.GuestItems[0]
	assert.Equal(t, int64(10), item.VariantID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "21.99", item.Price.StringFixed(2))
}

func TestAdmitAuthenticatedMirrorsItem(t *testing.T) {
	be := new(mockBackend)
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)
	be.On("AddToCart", mock.Anything, "tok", int64(1), 3).Return(nil)

	st := state.NewStore("user-1")
	st.Dispatch(state.AuthTokenSet{Token: "tok", UserID: "7", Role: models.RoleCustomer})

	adm, _, err := newCartService(be, nil).Admit(context.Background(), st, AdmissionRequest{
		ProductID: 1, Selection: redM(), Quantity: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, models.CartModeAuthenticated, adm.Mode)
	be.AssertExpectations(t)
	require.Len(t, st.State().Cart.Items, 1)
	assert.Empty(t, st.State().Cart.GuestItems)
}

func TestAdmitAuthenticatedFailure(t *testing.T) {
	be := new(mockBackend)
	events := new(mockEvents)
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)
	be.On("AddToCart", mock.Anything, "tok", int64(1), 1).Return(errors.New("backend: status 500"))
	events.On("PublishCartAdmissionFailed", mock.Anything, mock.Anything).Return(nil)

	st := state.NewStore("user-1")
	st.Dispatch(state.AuthTokenSet{Token: "tok", UserID: "7"})

	adm, product, err := newCartService(be, events).Admit(context.Background(), st, AdmissionRequest{
		ProductID: 1, Selection: redM(), Quantity: 1,
	})

	require.Error(t, err)
	assert.Nil(t, adm)
	assert.NotNil(t, product)
	assert.True(t, apperr.Is(err, apperr.BadGateway))
	assert.Equal(t, AdmissionFailedMessage, apperr.PublicMessage(err))
	assert.Empty(t, st.State().Cart.Items)
	events.AssertCalled(t, "PublishCartAdmissionFailed", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "PublishCartItemAdded", mock.Anything, mock.Anything)
}

func TestAdmitUnresolvedSelection(t *testing.T) {
	tests := []struct {
		name string
		sel  catalog.Selection
		msg  string
	}{
		{"unavailable combination", catalog.Selection{Color: catalog.Choose("red"), Size: catalog.Choose("L")}, catalog.UnavailableMessage},
		{"size missing", catalog.Selection{Color: catalog.Choose("red")}, SelectionRequiredMessage},
		{"nothing chosen", catalog.Selection{}, SelectionRequiredMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := new(mockBackend)
			be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)

			st := state.NewStore("user-1")
			st.Dispatch(state.AuthTokenSet{Token: "tok"})

			_, _, err := newCartService(be, nil).Admit(context.Background(), st, AdmissionRequest{
				ProductID: 1, Selection: tt.sel, Quantity: 1,
			})

			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.Invalid))
			assert.Equal(t, tt.msg, apperr.PublicMessage(err))
			be.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAdmitReusesProductInState(t *testing.T) {
	be := new(mockBackend)
	st := state.NewStore("guest-1")
	st.Dispatch(state.ProductRequested{RequestID: "r1", ProductID: 1})
	st.Dispatch(state.ProductLoaded{RequestID: "r1", Product: tshirt()})

	_, _, err := newCartService(be, nil).Admit(context.Background(), st, AdmissionRequest{
		ProductID: 1, Selection: redM(), Quantity: 1,
	})

	require.NoError(t, err)
	be.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestAdmitFetchesWhenStateHoldsAnotherProduct(t *testing.T) {
	be := new(mockBackend)
	other := tshirt()
	other.ID = 2
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)

	st := state.NewStore("guest-1")
	st.Dispatch(state.ProductRequested{RequestID: "r1", ProductID: 2})
	st.Dispatch(state.ProductLoaded{RequestID: "r1", Product: other})

	_, _, err := newCartService(be, nil).Admit(context.Background(), st, AdmissionRequest{
		ProductID: 1, Selection: redM(), Quantity: 1,
	})

	require.NoError(t, err)
	be.AssertCalled(t, "GetProduct", mock.Anything, int64(1))
}

func TestAdmitGuestPersistsCart(t *testing.T) {
	be := new(mockBackend)
	carts := new(mockGuestCarts)
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)
	carts.On("SetGuestCart", mock.Anything, "guest-1", mock.MatchedBy(func(items []models.CartItem) bool {
		return len(items) == 1 && items[0].VariantID == 10 && items[0].Quantity == 1
	})).Return(nil)

	svc := NewCartService(be, NewProductService(be, nil, nil), nil, carts)
	st := state.NewStore("guest-1")
	_, _, err := svc.Admit(context.Background(), st, AdmissionRequest{ProductID: 1, Selection: redM(), Quantity: 1})

	require.NoError(t, err)
	carts.AssertExpectations(t)
}

func TestAdmitGuestKeepsItemWhenPersistFails(t *testing.T) {
	be := new(mockBackend)
	carts := new(mockGuestCarts)
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)
	carts.On("SetGuestCart", mock.Anything, "guest-1", mock.Anything).Return(errors.New("redis down"))
	carts.On("GetGuestCart", mock.Anything, "guest-1").Return(nil, nil)

	svc := NewCartService(be, NewProductService(be, nil, nil), nil, carts)
	st := state.NewStore("guest-1")
	_, _, err := svc.Admit(context.Background(), st, AdmissionRequest{ProductID: 1, Selection: redM(), Quantity: 1})
	require.NoError(t, err)

	svc.RestoreGuestCart(context.Background(), st)

	assert.Len(t, st.State().Cart.GuestItems, 1)
	carts.AssertNotCalled(t, "GetGuestCart", mock.Anything, mock.Anything)
}

func TestRestoreGuestCart(t *testing.T) {
	carts := new(mockGuestCarts)
	saved := []models.CartItem{{ID: 1, VariantID: 10, Quantity: 3}}
	carts.On("GetGuestCart", mock.Anything, "guest-1").Return(saved, nil)

	svc := NewCartService(new(mockBackend), nil, nil, carts)
	st := state.NewStore("guest-1")
	svc.RestoreGuestCart(context.Background(), st)

	assert.Equal(t, saved, st.State().Cart.GuestItems)
}

func TestRejectedAdmissionDoesNotCountUnavailableVariant(t *testing.T) {
	be := new(mockBackend)
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)

	before := testutil.ToFloat64(util.VariantUnavailableTotal)
	_, _, err := newCartService(be, nil).Admit(context.Background(), state.NewStore("guest-1"), AdmissionRequest{
		ProductID: 1,
		Selection: catalog.Selection{Color: catalog.Choose("red"), Size: catalog.Choose("L")},
		Quantity:  1,
	})

	require.Error(t, err)
	assert.Equal(t, before, testutil.ToFloat64(util.VariantUnavailableTotal))
}
