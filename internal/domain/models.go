package domain

import "time"

type Store struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type Table struct {
	ID      int64  `json:"id"`
	StoreID int64  `json:"store_id"`
	TableNo string `json:"table_no"`
	Seats   int    `json:"seats"`
}

type Category struct {
	ID      int64  `json:"id"`
	StoreID int64  `json:"store_id"`
	Name    string `json:"name"`
	Sort    int    `json:"sort"`
}

type Sku struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Product struct {
	ID          int64   `json:"id"`
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Skus        []Sku   `json:"skus,omitempty"`
}

// Attribute is a single selected option on a cart line, e.g. {size, L}.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CartItem is one line of the diner's cart. Price is a snapshot taken when
// the line was added and is never re-read from the catalog, so in-flight
// totals stay stable even if menu prices change mid-session.
type CartItem struct {
	ItemKey     string      `json:"item_key"`
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name"`
	ProductImg  string      `json:"product_image"`
	SkuID       int64       `json:"sku_id,omitempty"`
	SkuName     string      `json:"sku_name,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
	Price       float64     `json:"price"`
	Quantity    int         `json:"quantity"`
	Remark      string      `json:"remark,omitempty"`
}

type OrderItem struct {
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name"`
	SkuID       int64       `json:"sku_id,omitempty"`
	SkuName     string      `json:"sku_name,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
	Price       float64     `json:"price"`
	Quantity    int         `json:"quantity"`
	Remark      string      `json:"remark,omitempty"`
}

type Order struct {
	ID          int64       `json:"id"`
	OrderNo     string      `json:"order_no"`
	StoreID     int64       `json:"store_id"`
	TableID     int64       `json:"table_id"`
	TableNo     string      `json:"table_no"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	Remark      string      `json:"remark,omitempty"`
	PeopleCount int         `json:"people_count,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Session is the resolved store+table identity plus cached menu data.
type Session struct {
	StoreID            int64
	TableID            int64
	TableNo            string
	StoreName          string
	Categories         []Category
	ProductsByCategory map[int64][]Product
}
