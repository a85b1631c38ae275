package service

import (
	"context"

	"tableside/internal/domain"
)

type MenuRepository interface {
	GetStore(id int64) (*domain.Store, error)
	GetTable(storeID, tableID int64) (*domain.Table, error)
	ListCategories(storeID int64) ([]domain.Category, error)
	ListProducts(storeID int64) ([]domain.Product, error)
}

type OrderRepository interface {
	CreateOrder(order *domain.Order) error
	GetOrder(orderID int64) (*domain.Order, error)
	ListTableOrders(storeID, tableID int64) ([]domain.Order, error)
	AddOrderItems(orderID int64, items []domain.OrderItem) error
}

type CartCache interface {
	Get(ctx context.Context, storeID, tableID int64) ([]domain.CartItem, error)
	Save(ctx context.Context, storeID, tableID int64, items []domain.CartItem) error
	Clear(ctx context.Context, storeID, tableID int64) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(storeID, tableID int64) ([]byte, error)
}

type MenuServiceInterface interface {
	Store(id int64) (*domain.Store, error)
	Table(storeID, tableID int64) (*domain.Table, error)
	Categories(storeID int64) ([]domain.Category, error)
	Products(storeID int64) ([]domain.Product, error)
	TableQR(storeID, tableID int64) ([]byte, error)
}

type CartServiceInterface interface {
	Get(ctx context.Context, storeID, tableID int64) ([]domain.CartItem, error)
	AddItem(ctx context.Context, storeID, tableID int64, item domain.CartItem) ([]domain.CartItem, error)
	UpdateItem(ctx context.Context, storeID, tableID int64, itemKey string, quantity int) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, storeID, tableID int64, itemKey string) ([]domain.CartItem, error)
	Clear(ctx context.Context, storeID, tableID int64) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(orderID int64) (*domain.Order, error)
	ListTable(storeID, tableID int64) ([]domain.Order, error)
	AddItems(ctx context.Context, orderID int64, items []domain.OrderItem) (*domain.Order, error)
}

var (
	_ MenuServiceInterface  = (*MenuService)(nil)
	_ CartServiceInterface  = (*CartService)(nil)
	_ OrderServiceInterface = (*OrderService)(nil)
)
