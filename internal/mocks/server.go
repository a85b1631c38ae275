package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tableside/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// CartCache mocks the devserver's server-side cart storage.
type CartCache struct {
	mock.Mock
}

func (m *CartCache) Get(ctx context.Context, storeID, tableID int64) ([]domain.CartItem, error) {
	ret := m.Called(ctx, storeID, tableID)

	var r0 []domain.CartItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.CartItem)
	}
	return r0, ret.Error(1)
}

func (m *CartCache) Save(ctx context.Context, storeID, tableID int64, items []domain.CartItem) error {
	return m.Called(ctx, storeID, tableID, items).Error(0)
}

func (m *CartCache) Clear(ctx context.Context, storeID, tableID int64) error {
	return m.Called(ctx, storeID, tableID).Error(0)
}

func NewCartCache(t testingT) *CartCache {
	m := &CartCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// OrderRepository mocks the devserver's order persistence.
type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(order *domain.Order) error {
	return m.Called(order).Error(0)
}

func (m *OrderRepository) GetOrder(orderID int64) (*domain.Order, error) {
	ret := m.Called(orderID)

	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (m *OrderRepository) ListTableOrders(storeID, tableID int64) ([]domain.Order, error) {
	ret := m.Called(storeID, tableID)

	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (m *OrderRepository) AddOrderItems(orderID int64, items []domain.OrderItem) error {
	return m.Called(orderID, items).Error(0)
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MenuRepository mocks the devserver's menu reference data reads.
type MenuRepository struct {
	mock.Mock
}

func (m *MenuRepository) GetStore(id int64) (*domain.Store, error) {
	ret := m.Called(id)

	var r0 *domain.Store
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Store)
	}
	return r0, ret.Error(1)
}

func (m *MenuRepository) GetTable(storeID, tableID int64) (*domain.Table, error) {
	ret := m.Called(storeID, tableID)

	var r0 *domain.Table
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Table)
	}
	return r0, ret.Error(1)
}

func (m *MenuRepository) ListCategories(storeID int64) ([]domain.Category, error) {
	ret := m.Called(storeID)

	var r0 []domain.Category
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Category)
	}
	return r0, ret.Error(1)
}

func (m *MenuRepository) ListProducts(storeID int64) ([]domain.Product, error) {
	ret := m.Called(storeID)

	var r0 []domain.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Product)
	}
	return r0, ret.Error(1)
}

func NewMenuRepository(t testingT) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// EventPublisher mocks the devserver's order event emission.
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
