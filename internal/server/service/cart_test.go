package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tableside/internal/domain"
	"tableside/internal/mocks"
	"tableside/internal/server/service"
)

var ctx = context.Background()

func TestCartService_AddItem_MergesByKey(t *testing.T) {
	cache := mocks.NewCartCache(t)
	cache.On("Get", mock.Anything, int64(5), int64(9)).Return([]domain.CartItem{
		{ItemKey: "10-3-", ProductID: 10, Quantity: 1, Price: 16},
	}, nil).Once()
	cache.On("Save", mock.Anything, int64(5), int64(9), mock.MatchedBy(func(items []domain.CartItem) bool {
		return len(items) == 1 && items[0].Quantity == 3
	})).Return(nil).Once()

	svc := service.NewCartService(cache)

	items, err := svc.AddItem(ctx, 5, 9, domain.CartItem{ItemKey: "10-3-", ProductID: 10, Quantity: 2, Price: 16})
	require.NoError(t, err)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCartService_AddItem_NewLineAppends(t *testing.T) {
	cache := mocks.NewCartCache(t)
	cache.On("Get", mock.Anything, int64(5), int64(9)).Return([]domain.CartItem{}, nil).Once()
	cache.On("Save", mock.Anything, int64(5), int64(9), mock.MatchedBy(func(items []domain.CartItem) bool {
		return len(items) == 1 && items[0].ItemKey == "20-0-"
	})).Return(nil).Once()

	svc := service.NewCartService(cache)

	_, err := svc.AddItem(ctx, 5, 9, domain.CartItem{ItemKey: "20-0-", ProductID: 20, Quantity: 1, Price: 8})
	assert.NoError(t, err)
}

func TestCartService_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc := service.NewCartService(mocks.NewCartCache(t))

	_, err := svc.AddItem(ctx, 5, 9, domain.CartItem{ItemKey: "10-0-", Quantity: 0})
	assert.Error(t, err)
}

func TestCartService_UpdateItem_ZeroDelegatesToRemove(t *testing.T) {
	cache := mocks.NewCartCache(t)
	cache.On("Get", mock.Anything, int64(5), int64(9)).Return([]domain.CartItem{
		{ItemKey: "10-3-", Quantity: 2},
	}, nil).Once()
	cache.On("Save", mock.Anything, int64(5), int64(9), mock.MatchedBy(func(items []domain.CartItem) bool {
		return len(items) == 0
	})).Return(nil).Once()

	svc := service.NewCartService(cache)

	items, err := svc.UpdateItem(ctx, 5, 9, "10-3-", 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_UpdateItem_UnknownKey(t *testing.T) {
	cache := mocks.NewCartCache(t)
	cache.On("Get", mock.Anything, int64(5), int64(9)).Return([]domain.CartItem{}, nil).Once()

	svc := service.NewCartService(cache)

	_, err := svc.UpdateItem(ctx, 5, 9, "missing-0-", 2)
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestCartService_RemoveItem_UnknownKey(t *testing.T) {
	cache := mocks.NewCartCache(t)
	cache.On("Get", mock.Anything, int64(5), int64(9)).Return([]domain.CartItem{}, nil).Once()

	svc := service.NewCartService(cache)

	_, err := svc.RemoveItem(ctx, 5, 9, "missing-0-")
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}
