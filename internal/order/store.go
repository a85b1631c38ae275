package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"tableside/internal/domain"
	"tableside/internal/feedback"
	"tableside/internal/httpclient"
)

// Requester is the slice of the network client the order store uses.
type Requester interface {
	Request(ctx context.Context, d httpclient.Descriptor) (json.RawMessage, error)
}

// SessionView is how the order store reads the active session.
type SessionView interface {
	IsInitialized() bool
	StoreID() int64
	TableID() int64
	TableNo() string
}

// CartView is the slice of the cart the order store builds payloads from.
// Reset clears local cart state only; after a confirmed submission the
// server has already discarded its copy, so no rollback path exists.
type CartView interface {
	Items() []domain.CartItem
	Reset()
}

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNoSession     = errors.New("no active table session")
	ErrOrderNotFound = errors.New("order not found")
)

// SubmitOptions carries diner-supplied extras for order creation.
type SubmitOptions struct {
	Remark      string
	PeopleCount int
}

type createOrderRequest struct {
	StoreID     int64              `json:"store_id"`
	TableID     int64              `json:"table_id"`
	TableNo     string             `json:"table_no"`
	Items       []domain.OrderItem `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	Remark      string             `json:"remark,omitempty"`
	PeopleCount int                `json:"people_count,omitempty"`
}

// Store owns the table's order list and the current order detail. Status
// transitions are server-driven; this store only re-fetches.
type Store struct {
	mu       sync.RWMutex
	client   Requester
	session  SessionView
	cart     CartView
	reporter feedback.Reporter
	orders   []domain.Order
	current  *domain.Order
}

func NewStore(client Requester, session SessionView, cart CartView, reporter feedback.Reporter) *Store {
	return &Store{
		client:   client,
		session:  session,
		cart:     cart,
		reporter: reporter,
	}
}

// Submit turns the current cart into an order. An empty cart fails before
// any network call. On success the cart is cleared locally and the table's
// order list refreshed; on failure the cart is left intact so the diner can
// retry.
func (s *Store) Submit(ctx context.Context, opts SubmitOptions) (*domain.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		if s.reporter != nil {
			s.reporter.Report("Your cart is empty", false)
		}
		return nil, ErrEmptyCart
	}
	if !s.session.IsInitialized() {
		return nil, ErrNoSession
	}

	payload := createOrderRequest{
		StoreID:     s.session.StoreID(),
		TableID:     s.session.TableID(),
		TableNo:     s.session.TableNo(),
		Items:       make([]domain.OrderItem, 0, len(items)),
		Remark:      opts.Remark,
		PeopleCount: opts.PeopleCount,
	}
	// Total comes from the same snapshot as the lines, so a cart mutation
	// landing mid-submit cannot make them disagree.
	for _, item := range items {
		payload.TotalAmount += item.Price * float64(item.Quantity)
		payload.Items = append(payload.Items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SkuID:       item.SkuID,
			SkuName:     item.SkuName,
			Attributes:  item.Attributes,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Remark:      item.Remark,
		})
	}

	data, err := s.client.Request(ctx, httpclient.Descriptor{
		Method: http.MethodPost,
		Path:   "/api/orders",
		Body:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	var created domain.Order
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created order: %w", err)
	}

	s.cart.Reset()
	if err := s.FetchOrders(ctx); err != nil {
		log.Printf("[order] order %d created but list refresh failed: %v", created.ID, err)
	}

	log.Printf("[order] submitted order %s (%d items, total %.2f)",
		created.OrderNo, len(created.Items), created.TotalAmount)
	return &created, nil
}

// FetchOrders reloads the table's order list.
func (s *Store) FetchOrders(ctx context.Context) error {
	if !s.session.IsInitialized() {
		return ErrNoSession
	}

	data, err := s.client.Request(ctx, httpclient.Descriptor{
		Method: http.MethodGet,
		Path: fmt.Sprintf("/api/stores/%d/tables/%d/orders",
			s.session.StoreID(), s.session.TableID()),
	})
	if err != nil {
		return err
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return fmt.Errorf("failed to decode order list: %w", err)
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

// FetchDetail loads one order and keeps it as the current detail.
func (s *Store) FetchDetail(ctx context.Context, orderID int64) (*domain.Order, error) {
	data, err := s.client.Request(ctx, httpclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/orders/%d", orderID),
	})
	if err != nil {
		var be *httpclient.BusinessError
		if errors.As(err, &be) && be.Code == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	var detail domain.Order
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode order detail: %w", err)
	}

	s.mu.Lock()
	s.current = &detail
	s.mu.Unlock()
	return &detail, nil
}

// AddItems appends items to an already-placed order (the "add more food
// after ordering" flow) and refreshes the detail on success. There is no
// optimistic local mutation here: no independent local representation of
// in-flight order items exists to roll back to, so failure simply leaves
// the previous detail unchanged.
func (s *Store) AddItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}

	_, err := s.client.Request(ctx, httpclient.Descriptor{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/orders/%d/items", orderID),
		Body:   map[string]interface{}{"items": items},
	})
	if err != nil {
		return fmt.Errorf("failed to add items to order %d: %w", orderID, err)
	}

	if _, err := s.FetchDetail(ctx, orderID); err != nil {
		log.Printf("[order] items added but detail refresh failed: %v", err)
	}
	return nil
}

// Current returns the most recently fetched order detail.
func (s *Store) Current() *domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	detail := *s.current
	return &detail
}

// Orders returns a copy of the last fetched order list.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// PendingOrders projects the orders still in the active subset. Recomputed
// on every call, never stored.
func (s *Store) PendingOrders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Order
	for _, o := range s.orders {
		if domain.IsActiveStatus(o.Status) {
			out = append(out, o)
		}
	}
	return out
}

// CompletedOrders projects the orders in a terminal state.
func (s *Store) CompletedOrders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Order
	for _, o := range s.orders {
		if domain.IsTerminalStatus(o.Status) {
			out = append(out, o)
		}
	}
	return out
}

// HasActiveOrder reports whether the table has an order in flight.
func (s *Store) HasActiveOrder() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if domain.IsActiveStatus(o.Status) {
			return true
		}
	}
	return false
}
