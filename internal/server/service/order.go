package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"tableside/internal/domain"
)

var ErrInvalidOrder = errors.New("invalid order payload")

// OrderService creates and reads diner orders. Lifecycle transitions past
// PENDING belong to the back office; this service only sets the initial
// status. The event publisher is nil-safe so the devserver runs without a
// broker.
type OrderService struct {
	repo      OrderRepository
	cart      CartCache
	publisher EventPublisher
}

func NewOrderService(repo OrderRepository, cart CartCache, publisher EventPublisher) *OrderService {
	return &OrderService{repo: repo, cart: cart, publisher: publisher}
}

func (s *OrderService) Create(ctx context.Context, order *domain.Order) error {
	if order.StoreID <= 0 || order.TableID <= 0 || len(order.Items) == 0 {
		return ErrInvalidOrder
	}

	order.Status = domain.StatusPending
	order.OrderNo = newOrderNo()

	if err := s.repo.CreateOrder(order); err != nil {
		return err
	}

	// The order is the source of truth now; the table's shared cart is done.
	if s.cart != nil {
		if err := s.cart.Clear(ctx, order.StoreID, order.TableID); err != nil {
			log.Printf("[order-svc] failed to clear cart for store=%d table=%d: %v",
				order.StoreID, order.TableID, err)
		}
	}

	s.publish(ctx, domain.OrderEvent{
		Type:        domain.EventOrderCreated,
		OrderID:     order.ID,
		StoreID:     order.StoreID,
		TableID:     order.TableID,
		TotalAmount: order.TotalAmount,
		Timestamp:   time.Now(),
	})
	return nil
}

func (s *OrderService) Get(orderID int64) (*domain.Order, error) {
	return s.repo.GetOrder(orderID)
}

func (s *OrderService) ListTable(storeID, tableID int64) ([]domain.Order, error) {
	return s.repo.ListTableOrders(storeID, tableID)
}

func (s *OrderService) AddItems(ctx context.Context, orderID int64, items []domain.OrderItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrder
	}

	if err := s.repo.AddOrderItems(orderID, items); err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.OrderEvent{
		Type:        domain.EventItemsAdded,
		OrderID:     order.ID,
		StoreID:     order.StoreID,
		TableID:     order.TableID,
		TotalAmount: order.TotalAmount,
		Timestamp:   time.Now(),
	})
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("[order-svc] failed to publish %s for order %d: %v", event.Type, event.OrderID, err)
	}
}

func newOrderNo() string {
	return fmt.Sprintf("%s%04d", time.Now().Format("20060102150405"), rand.Intn(10000))
}
