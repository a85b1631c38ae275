package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tableside/internal/domain"
	"tableside/internal/mocks"
	"tableside/internal/server/service"
)

func TestOrderService_Create(t *testing.T) {
	tests := []struct {
		name    string
		order   *domain.Order
		wantErr error
	}{
		{
			name: "valid order",
			order: &domain.Order{
				StoreID: 5, TableID: 9, TableNo: "A1",
				Items:       []domain.OrderItem{{ProductID: 10, Quantity: 2, Price: 12.5}},
				TotalAmount: 25,
			},
		},
		{
			name:    "missing store",
			order:   &domain.Order{TableID: 9, Items: []domain.OrderItem{{}}},
			wantErr: service.ErrInvalidOrder,
		},
		{
			name:    "no items",
			order:   &domain.Order{StoreID: 5, TableID: 9},
			wantErr: service.ErrInvalidOrder,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			cache := mocks.NewCartCache(t)
			publisher := mocks.NewEventPublisher(t)

			if testCase.wantErr == nil {
				repo.On("CreateOrder", testCase.order).Run(func(args mock.Arguments) {
					args.Get(0).(*domain.Order).ID = 31
				}).Return(nil).Once()
				cache.On("Clear", mock.Anything, int64(5), int64(9)).Return(nil).Once()
				publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventOrderCreated && e.OrderID == 31
				})).Return(nil).Once()
			}

			svc := service.NewOrderService(repo, cache, publisher)

			err := svc.Create(ctx, testCase.order)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusPending, testCase.order.Status)
			assert.NotEmpty(t, testCase.order.OrderNo)
		})
	}
}

func TestOrderService_Create_PublishFailureIsNotFatal(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	repo.On("CreateOrder", mock.Anything).Return(nil).Once()

	cache := mocks.NewCartCache(t)
	cache.On("Clear", mock.Anything, int64(5), int64(9)).Return(nil).Once()

	publisher := mocks.NewEventPublisher(t)
	publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	svc := service.NewOrderService(repo, cache, publisher)

	err := svc.Create(ctx, &domain.Order{
		StoreID: 5, TableID: 9,
		Items: []domain.OrderItem{{ProductID: 10, Quantity: 1, Price: 12.5}},
	})
	assert.NoError(t, err)
}

func TestOrderService_Create_NilPublisher(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	repo.On("CreateOrder", mock.Anything).Return(nil).Once()

	cache := mocks.NewCartCache(t)
	cache.On("Clear", mock.Anything, int64(5), int64(9)).Return(nil).Once()

	svc := service.NewOrderService(repo, cache, nil)

	err := svc.Create(ctx, &domain.Order{
		StoreID: 5, TableID: 9,
		Items: []domain.OrderItem{{ProductID: 10, Quantity: 1, Price: 12.5}},
	})
	assert.NoError(t, err)
}

func TestOrderService_AddItems(t *testing.T) {
	items := []domain.OrderItem{{ProductID: 20, Quantity: 1, Price: 8}}

	repo := mocks.NewOrderRepository(t)
	repo.On("AddOrderItems", int64(31), items).Return(nil).Once()
	repo.On("GetOrder", int64(31)).Return(&domain.Order{
		ID: 31, StoreID: 5, TableID: 9, TotalAmount: 41,
	}, nil).Once()

	publisher := mocks.NewEventPublisher(t)
	publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventItemsAdded && e.TotalAmount == 41
	})).Return(nil).Once()

	svc := service.NewOrderService(repo, mocks.NewCartCache(t), publisher)

	order, err := svc.AddItems(ctx, 31, items)
	require.NoError(t, err)
	assert.Equal(t, 41.0, order.TotalAmount)
}

func TestOrderService_AddItems_Empty(t *testing.T) {
	svc := service.NewOrderService(mocks.NewOrderRepository(t), mocks.NewCartCache(t), nil)

	_, err := svc.AddItems(ctx, 31, nil)
	assert.ErrorIs(t, err, service.ErrInvalidOrder)
}
