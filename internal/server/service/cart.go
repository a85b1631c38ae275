package service

import (
	"context"
	"errors"

	"tableside/internal/domain"
)

var ErrItemNotFound = errors.New("cart item not found")

// CartService holds the server-side copy of each table's cart in the cart
// cache. Merge semantics mirror the client: adding an existing item key
// increments its quantity, quantity zero removes the line.
type CartService struct {
	cache CartCache
}

func NewCartService(cache CartCache) *CartService {
	return &CartService{cache: cache}
}

func (s *CartService) Get(ctx context.Context, storeID, tableID int64) ([]domain.CartItem, error) {
	return s.cache.Get(ctx, storeID, tableID)
}

func (s *CartService) AddItem(ctx context.Context, storeID, tableID int64, item domain.CartItem) ([]domain.CartItem, error) {
	if item.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	items, err := s.cache.Get(ctx, storeID, tableID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if items[i].ItemKey == item.ItemKey {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	if err := s.cache.Save(ctx, storeID, tableID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CartService) UpdateItem(ctx context.Context, storeID, tableID int64, itemKey string, quantity int) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, storeID, tableID, itemKey)
	}

	items, err := s.cache.Get(ctx, storeID, tableID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range items {
		if items[i].ItemKey == itemKey {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	if err := s.cache.Save(ctx, storeID, tableID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CartService) RemoveItem(ctx context.Context, storeID, tableID int64, itemKey string) ([]domain.CartItem, error) {
	items, err := s.cache.Get(ctx, storeID, tableID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ItemKey == itemKey {
			items = append(items[:i], items[i+1:]...)
			if err := s.cache.Save(ctx, storeID, tableID, items); err != nil {
				return nil, err
			}
			return items, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *CartService) Clear(ctx context.Context, storeID, tableID int64) error {
	return s.cache.Clear(ctx, storeID, tableID)
}
