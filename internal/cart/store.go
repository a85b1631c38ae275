package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"

	"tableside/internal/domain"
	"tableside/internal/feedback"
	"tableside/internal/httpclient"
	"tableside/internal/localstore"
)

// Requester is the slice of the network client the cart store uses.
type Requester interface {
	Request(ctx context.Context, d httpclient.Descriptor) (json.RawMessage, error)
}

// SessionView is how the cart reads the active session. It never mutates
// session state.
type SessionView interface {
	IsInitialized() bool
	StoreID() int64
	TableID() int64
}

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Store owns the diner's in-progress selections. Every mutation applies to
// local state first and mirrors to local storage, then reconciles with the
// server; on server failure the exact pre-mutation snapshot is restored.
// With no active session the store degrades to an offline-only cart.
//
// Overlapping mutations to the same item key are last-writer-wins: each
// call commits its local effect synchronously, but confirmations and
// rollbacks of in-flight network calls may interleave. Serializing per key
// would delay the optimistic apply, so the simpler policy stands.
type Store struct {
	mu       sync.Mutex
	client   Requester
	session  SessionView
	storage  localstore.Store
	reporter feedback.Reporter
	items    []domain.CartItem
}

func NewStore(client Requester, session SessionView, storage localstore.Store, reporter feedback.Reporter) *Store {
	return &Store{
		client:   client,
		session:  session,
		storage:  storage,
		reporter: reporter,
	}
}

// Add puts quantity units of a product (optionally a specific SKU with
// selected attributes) into the cart. Adding an item whose key already
// exists increments that line instead of inserting a duplicate. Price is
// snapshotted from the SKU or product at call time.
func (s *Store) Add(ctx context.Context, product domain.Product, sku *domain.Sku, attributes []domain.Attribute, quantity int, remark string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	var skuID int64
	skuName := ""
	price := product.Price
	if sku != nil {
		skuID = sku.ID
		skuName = sku.Name
		price = sku.Price
	}
	key := ItemKey(product.ID, skuID, attributes)

	var added domain.CartItem
	return s.mutate(ctx, func() bool {
		for i := range s.items {
			if s.items[i].ItemKey == key {
				s.items[i].Quantity += quantity
				added = s.items[i]
				return true
			}
		}
		added = domain.CartItem{
			ItemKey:     key,
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductImg:  product.ImageURL,
			SkuID:       skuID,
			SkuName:     skuName,
			Attributes:  attributes,
			Price:       price,
			Quantity:    quantity,
			Remark:      remark,
		}
		s.items = append(s.items, added)
		return true
	}, func(ctx context.Context, storeID, tableID int64) error {
		_, err := s.client.Request(ctx, httpclient.Descriptor{
			Method: http.MethodPost,
			Path:   fmt.Sprintf("/api/stores/%d/tables/%d/cart/items", storeID, tableID),
			Body:   added,
		})
		return err
	})
}

// UpdateQuantity sets the line's quantity. A target of zero or below
// removes the line; a zero-quantity entry never exists.
func (s *Store) UpdateQuantity(ctx context.Context, itemKey string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, itemKey)
	}

	return s.mutate(ctx, func() bool {
		for i := range s.items {
			if s.items[i].ItemKey == itemKey {
				s.items[i].Quantity = quantity
				return true
			}
		}
		return false
	}, func(ctx context.Context, storeID, tableID int64) error {
		_, err := s.client.Request(ctx, httpclient.Descriptor{
			Method: http.MethodPut,
			Path:   fmt.Sprintf("/api/stores/%d/tables/%d/cart/items", storeID, tableID),
			Body:   map[string]interface{}{"item_key": itemKey, "quantity": quantity},
		})
		return err
	})
}

// Remove deletes the line identified by itemKey.
func (s *Store) Remove(ctx context.Context, itemKey string) error {
	return s.mutate(ctx, func() bool {
		for i := range s.items {
			if s.items[i].ItemKey == itemKey {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return true
			}
		}
		return false
	}, func(ctx context.Context, storeID, tableID int64) error {
		_, err := s.client.Request(ctx, httpclient.Descriptor{
			Method: http.MethodDelete,
			Path: fmt.Sprintf("/api/stores/%d/tables/%d/cart/items?key=%s",
				storeID, tableID, url.QueryEscape(itemKey)),
		})
		return err
	})
}

// Clear empties the cart, server included.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func() bool {
		s.items = nil
		return true
	}, func(ctx context.Context, storeID, tableID int64) error {
		_, err := s.client.Request(ctx, httpclient.Descriptor{
			Method: http.MethodDelete,
			Path:   fmt.Sprintf("/api/stores/%d/tables/%d/cart", storeID, tableID),
		})
		return err
	})
}

// Reset empties the cart locally only. Used after order submission, where
// the server has already confirmed and cleared its copy.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked()
}

// mutate runs the optimistic apply/confirm-or-rollback cycle: snapshot,
// apply locally, mirror to storage, then confirm with the server when a
// session is active. On confirmation failure the snapshot is restored to
// both memory and storage before the error propagates. An apply that
// touched nothing (unknown item key) skips the server round-trip.
func (s *Store) mutate(ctx context.Context, apply func() bool, confirm func(ctx context.Context, storeID, tableID int64) error) error {
	s.mu.Lock()
	snapshot := cloneItems(s.items)
	changed := apply()
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.persistLocked()
	active := s.session != nil && s.session.IsInitialized()
	var storeID, tableID int64
	if active {
		storeID = s.session.StoreID()
		tableID = s.session.TableID()
	}
	s.mu.Unlock()

	if !active {
		return nil
	}

	if err := confirm(ctx, storeID, tableID); err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.persistLocked()
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return nil
	}
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}

func (s *Store) persistLocked() {
	raw, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("[cart] failed to encode cart: %v", err)
		return
	}
	if err := s.storage.Set(localstore.KeyCartItems, string(raw)); err != nil {
		log.Printf("[cart] failed to persist cart: %v", err)
	}
}

// FetchFromServer replaces the local cart with the server-held copy for
// this table, the path a second device at the same table takes to pick up
// shared selections.
func (s *Store) FetchFromServer(ctx context.Context) error {
	if s.session == nil || !s.session.IsInitialized() {
		return nil
	}

	data, err := s.client.Request(ctx, httpclient.Descriptor{
		Method: http.MethodGet,
		Path: fmt.Sprintf("/api/stores/%d/tables/%d/cart",
			s.session.StoreID(), s.session.TableID()),
	})
	if err != nil {
		return err
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode server cart: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.persistLocked()
	s.mu.Unlock()
	return nil
}

// RestoreFromLocal rebuilds the in-memory cart from local storage. Called
// explicitly on startup, not automatically at construction.
func (s *Store) RestoreFromLocal() error {
	raw, err := s.storage.Get(localstore.KeyCartItems)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fmt.Errorf("failed to decode saved cart: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// ProductQuantity sums quantities across every line of the product,
// regardless of SKU or attributes.
func (s *Store) ProductQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// TotalCount is the sum of line quantities.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of snapshot price × quantity across lines.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
