package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/apperr"
	"storefront/internal/backend"
	"storefront/internal/models"
	"storefront/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFetchCacheHitSkipsBackend(t *testing.T) {
	be := new(mockBackend)
	cache := new(mockCache)
	cache.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), true, nil)

	svc := NewProductService(be, cache, nil)
	p, err := svc.Fetch(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "T-Shirt", p.Name)
	be.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestFetchCacheMissStoresProduct(t *testing.T) {
	be := new(mockBackend)
	cache := new(mockCache)
	product := tshirt()
	cache.On("GetProduct", mock.Anything, int64(1)).Return(nil, false, nil)
	be.On("GetProduct", mock.Anything, int64(1)).Return(product, nil)
	cache.On("SetProduct", mock.Anything, product).Return(nil)

	svc := NewProductService(be, cache, nil)
	p, err := svc.Fetch(context.Background(), 1)

	require.NoError(t, err)
	assert.Same(t, product, p)
	cache.AssertExpectations(t)
	be.AssertExpectations(t)
}

func TestFetchCacheErrorFallsBack(t *testing.T) {
	be := new(mockBackend)
	cache := new(mockCache)
	cache.On("GetProduct", mock.Anything, int64(1)).Return(nil, false, errors.New("redis down"))
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)
	cache.On("SetProduct", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := NewProductService(be, cache, nil)
	p, err := svc.Fetch(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestFetchErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{"not found", fmt.Errorf("get product: %w", backend.ErrNotFound), apperr.NotFound},
		{"server error", &backend.StatusError{Operation: "get_product", StatusCode: 500}, apperr.Unavailable},
		{"network", context.DeadlineExceeded, apperr.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := new(mockBackend)
			be.On("GetProduct", mock.Anything, int64(1)).Return(nil, tt.err)

			_, err := NewProductService(be, nil, nil).Fetch(context.Background(), 1)

			require.Error(t, err)
			assert.True(t, apperr.Is(err, tt.kind))
		})
	}
}

func TestLoadCommitsProductAndPublishesView(t *testing.T) {
	be := new(mockBackend)
	events := new(mockEvents)
	be.On("GetProduct", mock.Anything, int64(1)).Return(tshirt(), nil)
	events.On("PublishProductViewed", mock.Anything, mock.MatchedBy(func(e *models.ProductViewedEvent) bool {
		return e.ProductID == 1 && e.SessionID == "sess-1" && e.EventType == models.EventTypeProductViewed
	})).Return(nil)

	st := state.NewStore("sess-1")
	p, err := NewProductService(be, nil, events).Load(context.Background(), st, 1)

	require.NoError(t, err)
	current, ok := st.State().CurrentProduct(1)
	require.True(t, ok)
	assert.Same(t, p, current)
	events.AssertExpectations(t)
}

func TestLoadSupersededLeavesStateAlone(t *testing.T) {
	be := new(mockBackend)
	st := state.NewStore("sess-1")
	be.On("GetProduct", mock.Anything, int64(1)).
		Run(func(mock.Arguments) {
			// the shopper opened product 2 while product 1 was in flight
			st.Dispatch(state.ProductRequested{RequestID: "newer", ProductID: 2})
		}).
		Return(tshirt(), nil)

	p, err := NewProductService(be, nil, nil).Load(context.Background(), st, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Nil(t, st.State().Products.Current)
	assert.Equal(t, int64(2), st.State().Products.RequestedProductID)
}

func TestLoadFailureKeepsState(t *testing.T) {
	be := new(mockBackend)
	be.On("GetProduct", mock.Anything, int64(1)).Return(nil, errors.New("connection refused"))

	st := state.NewStore("sess-1")
	_, err := NewProductService(be, nil, nil).Load(context.Background(), st, 1)

	assert.True(t, apperr.Is(err, apperr.Unavailable))
	assert.Nil(t, st.State().Products.Current)
}
