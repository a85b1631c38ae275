package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tableside/internal/domain"
	"tableside/internal/server/service"
)

type Handler struct {
	Menu   service.MenuServiceInterface
	Cart   service.CartServiceInterface
	Orders service.OrderServiceInterface
}

func NewHandler(menu service.MenuServiceInterface, cart service.CartServiceInterface, orders service.OrderServiceInterface) *Handler {
	return &Handler{Menu: menu, Cart: cart, Orders: orders}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods("GET")

	r.HandleFunc("/api/stores/{storeId}", h.getStore).Methods("GET")
	r.HandleFunc("/api/stores/{storeId}/tables/{tableId}", h.getTable).Methods("GET")
	r.HandleFunc("/api/stores/{storeId}/tables/{tableId}/qrcode", h.getTableQR).Methods("GET")
	r.HandleFunc("/api/stores/{storeId}/categories", h.getCategories).Methods("GET")
	r.HandleFunc("/api/stores/{storeId}/products", h.getProducts).Methods("GET")

	r.HandleFunc("/api/stores/{storeId}/tables/{tableId}/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/stores/{storeId}/tables/{tableId}/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/stores/{storeId}/tables/{tableId}/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/stores/{storeId}/tables/{tableId}/cart/items", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/stores/{storeId}/tables/{tableId}/cart/items", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders/{orderId}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{orderId}/items", h.addOrderItems).Methods("POST")
	r.HandleFunc("/api/stores/{storeId}/tables/{tableId}/orders", h.listTableOrders).Methods("GET")
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]string{
		"status":    "healthy",
		"service":   "devserver",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.Menu.Store(pathID(r, "storeId"))
	if errors.Is(err, sql.ErrNoRows) {
		respondBusinessError(w, 404, "Store not found")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, store)
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.Menu.Table(pathID(r, "storeId"), pathID(r, "tableId"))
	if errors.Is(err, sql.ErrNoRows) {
		respondBusinessError(w, 404, "Table not found")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, table)
}

func (h *Handler) getTableQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Menu.TableQR(pathID(r, "storeId"), pathID(r, "tableId"))
	if err != nil {
		respondServerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Menu.Categories(pathID(r, "storeId"))
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, categories)
}

func (h *Handler) getProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Menu.Products(pathID(r, "storeId"))
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, products)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.Cart.Get(r.Context(), pathID(r, "storeId"), pathID(r, "tableId"))
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, items)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondBusinessError(w, 400, "Invalid cart item")
		return
	}

	items, err := h.Cart.AddItem(r.Context(), pathID(r, "storeId"), pathID(r, "tableId"), item)
	if err != nil {
		respondBusinessError(w, 400, err.Error())
		return
	}
	respondData(w, items)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ItemKey  string `json:"item_key"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ItemKey == "" {
		respondBusinessError(w, 400, "Invalid cart update")
		return
	}

	items, err := h.Cart.UpdateItem(r.Context(), pathID(r, "storeId"), pathID(r, "tableId"), payload.ItemKey, payload.Quantity)
	if errors.Is(err, service.ErrItemNotFound) {
		respondBusinessError(w, 404, "Cart item not found")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, items)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	itemKey := r.URL.Query().Get("key")
	if itemKey == "" {
		respondBusinessError(w, 400, "Missing item key")
		return
	}

	items, err := h.Cart.RemoveItem(r.Context(), pathID(r, "storeId"), pathID(r, "tableId"), itemKey)
	if errors.Is(err, service.ErrItemNotFound) {
		respondBusinessError(w, 404, "Cart item not found")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, items)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context(), pathID(r, "storeId"), pathID(r, "tableId")); err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, map[string]string{"status": "cleared"})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		respondBusinessError(w, 400, "Invalid order payload")
		return
	}

	if err := h.Orders.Create(r.Context(), &order); err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			respondBusinessError(w, 400, err.Error())
			return
		}
		respondServerError(w, err)
		return
	}
	respondData(w, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(pathID(r, "orderId"))
	if errors.Is(err, sql.ErrNoRows) {
		respondBusinessError(w, 404, "Order not found")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, order)
}

func (h *Handler) addOrderItems(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Items []domain.OrderItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondBusinessError(w, 400, "Invalid items payload")
		return
	}

	order, err := h.Orders.AddItems(r.Context(), pathID(r, "orderId"), payload.Items)
	if errors.Is(err, service.ErrInvalidOrder) {
		respondBusinessError(w, 400, err.Error())
		return
	}
	if errors.Is(err, sql.ErrNoRows) {
		respondBusinessError(w, 404, "Order not found")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, order)
}

func (h *Handler) listTableOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListTable(pathID(r, "storeId"), pathID(r, "tableId"))
	if err != nil {
		respondServerError(w, err)
		return
	}
	respondData(w, orders)
}
