package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tableside/internal/cart"
	"tableside/internal/domain"
	"tableside/internal/httpclient"
	"tableside/internal/localstore"
	"tableside/internal/mocks"
	"tableside/internal/order"
)

var ctx = context.Background()

func activeSession(t *testing.T) *mocks.SessionView {
	session := mocks.NewSessionView(t)
	session.On("IsInitialized").Return(true).Maybe()
	session.On("StoreID").Return(int64(5)).Maybe()
	session.On("TableID").Return(int64(9)).Maybe()
	session.On("TableNo").Return("A1").Maybe()
	return session
}

// offlineCart builds a real cart store that never talks to the network, so
// order tests control its contents directly.
func offlineCart(t *testing.T) *cart.Store {
	session := mocks.NewSessionView(t)
	session.On("IsInitialized").Return(false).Maybe()
	return cart.NewStore(mocks.NewRequester(t), session, localstore.NewMemoryStore(), nil)
}

func fillCart(t *testing.T, c *cart.Store) {
	require.NoError(t, c.Add(ctx, domain.Product{ID: 10, Name: "Jasmine Tea", Price: 12.50}, nil, nil, 2, ""))
	require.NoError(t, c.Add(ctx, domain.Product{ID: 20, Name: "Egg Tart", Price: 8.00}, nil, nil, 1, ""))
}

func TestSubmit_EmptyCartNeverTouchesNetwork(t *testing.T) {
	// Requester with zero expectations: any call fails the test.
	client := mocks.NewRequester(t)

	reporter := mocks.NewReporter(t)
	reporter.On("Report", "Your cart is empty", false).Once()

	store := order.NewStore(client, activeSession(t), offlineCart(t), reporter)

	created, err := store.Submit(ctx, order.SubmitOptions{})
	assert.ErrorIs(t, err, order.ErrEmptyCart)
	assert.Nil(t, created)
}

// submittedTotalMatchesLines decodes the create-order body and checks the
// declared total against the sum of its own lines.
func submittedTotalMatchesLines(d httpclient.Descriptor) bool {
	raw, err := json.Marshal(d.Body)
	if err != nil {
		return false
	}
	var payload struct {
		Items []struct {
			Price    float64 `json:"price"`
			Quantity int     `json:"quantity"`
		} `json:"items"`
		TotalAmount float64 `json:"total_amount"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	sum := 0.0
	for _, item := range payload.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return payload.TotalAmount == sum && sum > 0
}

func TestSubmit_Success(t *testing.T) {
	client := mocks.NewRequester(t)
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Method == http.MethodPost && d.Path == "/api/orders" &&
			submittedTotalMatchesLines(d)
	})).Return(json.RawMessage(`{"id":31,"order_no":"202601010001","store_id":5,"table_id":9,
		"items":[{"product_id":10,"quantity":2,"price":12.5},{"product_id":20,"quantity":1,"price":8}],
		"total_amount":33.0,"status":"PENDING"}`), nil).Once()
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Method == http.MethodGet && d.Path == "/api/stores/5/tables/9/orders"
	})).Return(json.RawMessage(`[{"id":31,"order_no":"202601010001","status":"PENDING","total_amount":33.0}]`), nil).Once()

	c := offlineCart(t)
	fillCart(t, c)

	store := order.NewStore(client, activeSession(t), c, nil)

	created, err := store.Submit(ctx, order.SubmitOptions{Remark: "no ice", PeopleCount: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(31), created.ID)
	assert.Equal(t, "202601010001", created.OrderNo)

	// Server confirmed, so the cart is cleared without a rollback path.
	assert.Empty(t, c.Items())
	assert.True(t, store.HasActiveOrder())
}

func TestSubmit_FailureLeavesCartIntact(t *testing.T) {
	client := mocks.NewRequester(t)
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Method == http.MethodPost && d.Path == "/api/orders"
	})).Return(nil, &httpclient.BusinessError{Code: 5002, Msg: "kitchen closed"}).Once()

	c := offlineCart(t)
	fillCart(t, c)

	store := order.NewStore(client, activeSession(t), c, nil)

	_, err := store.Submit(ctx, order.SubmitOptions{})
	assert.Error(t, err)
	assert.Len(t, c.Items(), 2)
	assert.Equal(t, 33.0, c.TotalPrice())
}

func TestSubmit_NoSession(t *testing.T) {
	session := mocks.NewSessionView(t)
	session.On("IsInitialized").Return(false).Maybe()

	c := offlineCart(t)
	fillCart(t, c)

	store := order.NewStore(mocks.NewRequester(t), session, c, nil)

	_, err := store.Submit(ctx, order.SubmitOptions{})
	assert.ErrorIs(t, err, order.ErrNoSession)
	assert.Len(t, c.Items(), 2)
}

func TestFetchOrders_Projections(t *testing.T) {
	client := mocks.NewRequester(t)
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Path == "/api/stores/5/tables/9/orders"
	})).Return(json.RawMessage(`[
		{"id":1,"status":"PENDING"},
		{"id":2,"status":"PAID"},
		{"id":3,"status":"PREPARING"},
		{"id":4,"status":"COMPLETED"},
		{"id":5,"status":"REFUNDED"}
	]`), nil).Once()

	store := order.NewStore(client, activeSession(t), offlineCart(t), nil)
	require.NoError(t, store.FetchOrders(ctx))

	// PAID normalizes to CONFIRMED, REFUNDED to CANCELLED.
	assert.Len(t, store.PendingOrders(), 3)
	assert.Len(t, store.CompletedOrders(), 2)
	assert.True(t, store.HasActiveOrder())
}

func TestFetchDetail(t *testing.T) {
	client := mocks.NewRequester(t)
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Method == http.MethodGet && d.Path == "/api/orders/31"
	})).Return(json.RawMessage(`{"id":31,"status":"PREPARING","items":[{"product_id":10,"quantity":2}]}`), nil).Once()

	store := order.NewStore(client, activeSession(t), offlineCart(t), nil)

	detail, err := store.FetchDetail(ctx, 31)
	require.NoError(t, err)
	assert.Equal(t, "PREPARING", detail.Status)
	require.NotNil(t, store.Current())
	assert.Equal(t, int64(31), store.Current().ID)
}

func TestAddItems_RefreshesDetailOnSuccess(t *testing.T) {
	client := mocks.NewRequester(t)
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Method == http.MethodPost && d.Path == "/api/orders/31/items"
	})).Return(json.RawMessage(`{"id":31}`), nil).Once()
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Method == http.MethodGet && d.Path == "/api/orders/31"
	})).Return(json.RawMessage(`{"id":31,"status":"PENDING","total_amount":45.5}`), nil).Once()

	store := order.NewStore(client, activeSession(t), offlineCart(t), nil)

	err := store.AddItems(ctx, 31, []domain.OrderItem{{ProductID: 20, Quantity: 1, Price: 8}})
	require.NoError(t, err)
	assert.Equal(t, 45.5, store.Current().TotalAmount)
}

func TestAddItems_FailureLeavesDetailUnchanged(t *testing.T) {
	client := mocks.NewRequester(t)
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Method == http.MethodGet && d.Path == "/api/orders/31"
	})).Return(json.RawMessage(`{"id":31,"status":"PENDING","total_amount":33.0}`), nil).Once()
	client.On("Request", mock.Anything, mock.MatchedBy(func(d httpclient.Descriptor) bool {
		return d.Method == http.MethodPost && d.Path == "/api/orders/31/items"
	})).Return(nil, &httpclient.HTTPError{Status: 500, Msg: "server error"}).Once()

	store := order.NewStore(client, activeSession(t), offlineCart(t), nil)

	_, err := store.FetchDetail(ctx, 31)
	require.NoError(t, err)

	err = store.AddItems(ctx, 31, []domain.OrderItem{{ProductID: 20, Quantity: 1, Price: 8}})
	assert.Error(t, err)
	assert.Equal(t, 33.0, store.Current().TotalAmount)
}

func TestAddItems_EmptyItems(t *testing.T) {
	store := order.NewStore(mocks.NewRequester(t), activeSession(t), offlineCart(t), nil)

	assert.ErrorIs(t, store.AddItems(ctx, 31, nil), order.ErrEmptyCart)
}
