package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"tableside/internal/domain"
	"tableside/internal/feedback"
	"tableside/internal/httpclient"
	"tableside/internal/localstore"
)

// Requester is the slice of the network client the session store uses.
type Requester interface {
	Request(ctx context.Context, d httpclient.Descriptor) (json.RawMessage, error)
}

var ErrNoSavedSession = errors.New("no saved session to restore")

// Store owns the resolved store+table identity and the cached menu. All
// other stores read identifiers through its accessors and must not touch
// the network while IsInitialized is false.
type Store struct {
	mu       sync.RWMutex
	client   Requester
	storage  localstore.Store
	reporter feedback.Reporter
	session  *domain.Session
}

func NewStore(client Requester, storage localstore.Store, reporter feedback.Reporter) *Store {
	return &Store{
		client:   client,
		storage:  storage,
		reporter: reporter,
	}
}

// Init bootstraps a session for the given store and table: store info,
// table info and the category list are fetched concurrently, then the full
// product list is fetched and partitioned by category. Any failure leaves
// the store uninitialized; partial state is never retained. Retry, if any,
// happens inside the network client for transport-class failures only.
func (s *Store) Init(ctx context.Context, storeID, tableID int64) error {
	var (
		store      domain.Store
		table      domain.Table
		categories []domain.Category
	)

	fetches := []struct {
		path string
		dest interface{}
	}{
		{fmt.Sprintf("/api/stores/%d", storeID), &store},
		{fmt.Sprintf("/api/stores/%d/tables/%d", storeID, tableID), &table},
		{fmt.Sprintf("/api/stores/%d/categories", storeID), &categories},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(fetches))
	for i, f := range fetches {
		wg.Add(1)
		go func(i int, path string, dest interface{}) {
			defer wg.Done()
			errs[i] = s.fetchInto(ctx, path, dest)
		}(i, f.path, f.dest)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			if s.reporter != nil {
				s.reporter.Report("Could not load the menu, please scan again", true)
			}
			return fmt.Errorf("session bootstrap failed: %w", err)
		}
	}

	if err := s.storage.Set(localstore.KeyStoreID, strconv.FormatInt(storeID, 10)); err != nil {
		log.Printf("[session] failed to persist storeId: %v", err)
	}
	if err := s.storage.Set(localstore.KeyTableID, strconv.FormatInt(tableID, 10)); err != nil {
		log.Printf("[session] failed to persist tableId: %v", err)
	}

	var products []domain.Product
	if err := s.fetchInto(ctx, fmt.Sprintf("/api/stores/%d/products", storeID), &products); err != nil {
		if s.reporter != nil {
			s.reporter.Report("Could not load the menu, please scan again", true)
		}
		return fmt.Errorf("session bootstrap failed: %w", err)
	}

	byCategory := make(map[int64][]domain.Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	s.mu.Lock()
	s.session = &domain.Session{
		StoreID:            storeID,
		TableID:            tableID,
		TableNo:            table.TableNo,
		StoreName:          store.Name,
		Categories:         categories,
		ProductsByCategory: byCategory,
	}
	s.mu.Unlock()

	log.Printf("[session] initialized store=%d table=%d (%d categories, %d products)",
		storeID, tableID, len(categories), len(products))
	return nil
}

// Restore resumes a previously persisted session, the path a page reload
// takes instead of rescanning the table QR code.
func (s *Store) Restore(ctx context.Context) error {
	rawStore, err := s.storage.Get(localstore.KeyStoreID)
	if err != nil {
		return ErrNoSavedSession
	}
	rawTable, err := s.storage.Get(localstore.KeyTableID)
	if err != nil {
		return ErrNoSavedSession
	}

	storeID, err := strconv.ParseInt(rawStore, 10, 64)
	if err != nil {
		return ErrNoSavedSession
	}
	tableID, err := strconv.ParseInt(rawTable, 10, 64)
	if err != nil {
		return ErrNoSavedSession
	}

	return s.Init(ctx, storeID, tableID)
}

// Clear forgets the session and its persisted identifiers.
func (s *Store) Clear() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	_ = s.storage.Delete(localstore.KeyStoreID)
	_ = s.storage.Delete(localstore.KeyTableID)
}

func (s *Store) fetchInto(ctx context.Context, path string, dest interface{}) error {
	data, err := s.client.Request(ctx, httpclient.Descriptor{Method: http.MethodGet, Path: path})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

func (s *Store) StoreID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return 0
	}
	return s.session.StoreID
}

func (s *Store) TableID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return 0
	}
	return s.session.TableID
}

func (s *Store) TableNo() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.TableNo
}

func (s *Store) StoreName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.StoreName
}

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	out := make([]domain.Category, len(s.session.Categories))
	copy(out, s.session.Categories)
	return out
}

func (s *Store) ProductsByCategory(categoryID int64) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	products := s.session.ProductsByCategory[categoryID]
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}
