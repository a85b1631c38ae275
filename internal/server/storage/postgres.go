package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"tableside/internal/domain"
)

// Repository is the postgres store behind the devserver: menu reference
// data plus orders. Skus and attribute selections are kept as JSON columns;
// they are opaque to every query.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS stores (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT,
			description TEXT,
			image_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS tables (
			id SERIAL PRIMARY KEY,
			store_id INTEGER NOT NULL REFERENCES stores(id),
			table_no TEXT NOT NULL,
			seats INTEGER DEFAULT 4
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			store_id INTEGER NOT NULL REFERENCES stores(id),
			name TEXT NOT NULL,
			sort INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			category_id INTEGER NOT NULL REFERENCES categories(id),
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10,2) NOT NULL,
			image_url TEXT,
			skus JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			order_no TEXT NOT NULL,
			store_id INTEGER NOT NULL,
			table_id INTEGER NOT NULL,
			table_no TEXT,
			total_amount NUMERIC(10,2) NOT NULL,
			status TEXT NOT NULL,
			remark TEXT,
			people_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(id),
			product_id INTEGER NOT NULL,
			product_name TEXT,
			sku_id INTEGER DEFAULT 0,
			sku_name TEXT,
			attributes JSONB,
			price NUMERIC(10,2) NOT NULL,
			quantity INTEGER NOT NULL,
			remark TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetStore(id int64) (*domain.Store, error) {
	var store domain.Store
	err := r.db.QueryRow(`
		SELECT id, name, COALESCE(address, ''), COALESCE(description, ''), COALESCE(image_url, '')
		FROM stores WHERE id = $1`, id).
		Scan(&store.ID, &store.Name, &store.Address, &store.Description, &store.ImageURL)
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *Repository) GetTable(storeID, tableID int64) (*domain.Table, error) {
	var table domain.Table
	err := r.db.QueryRow(`
		SELECT id, store_id, table_no, seats
		FROM tables WHERE id = $1 AND store_id = $2`, tableID, storeID).
		Scan(&table.ID, &table.StoreID, &table.TableNo, &table.Seats)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *Repository) ListCategories(storeID int64) ([]domain.Category, error) {
	rows, err := r.db.Query(`
		SELECT id, store_id, name, sort
		FROM categories
		WHERE store_id = $1
		ORDER BY sort, id`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.Sort); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) ListProducts(storeID int64) ([]domain.Product, error) {
	rows, err := r.db.Query(`
		SELECT p.id, p.category_id, p.name, COALESCE(p.description, ''), p.price,
		       COALESCE(p.image_url, ''), p.skus
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE c.store_id = $1
		ORDER BY p.id`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		var skus []byte
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &skus); err != nil {
			return nil, err
		}
		if len(skus) > 0 {
			if err := json.Unmarshal(skus, &p.Skus); err != nil {
				return nil, fmt.Errorf("decode skus for product %d: %w", p.ID, err)
			}
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Repository) CreateOrder(order *domain.Order) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO orders (order_no, store_id, table_id, table_no, total_amount, status, remark, people_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		order.OrderNo, order.StoreID, order.TableID, order.TableNo,
		order.TotalAmount, order.Status, order.Remark, order.PeopleCount).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		attrs, err := json.Marshal(item.Attributes)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, product_name, sku_id, sku_name, attributes, price, quantity, remark)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			order.ID, item.ProductID, item.ProductName, item.SkuID, item.SkuName,
			attrs, item.Price, item.Quantity, item.Remark); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *Repository) GetOrder(orderID int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRow(`
		SELECT id, order_no, store_id, table_id, COALESCE(table_no, ''), total_amount,
		       status, COALESCE(remark, ''), people_count, created_at
		FROM orders WHERE id = $1`, orderID).
		Scan(&order.ID, &order.OrderNo, &order.StoreID, &order.TableID, &order.TableNo,
			&order.TotalAmount, &order.Status, &order.Remark, &order.PeopleCount, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	items, err := r.listOrderItems(orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *Repository) listOrderItems(orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(`
		SELECT product_id, COALESCE(product_name, ''), sku_id, COALESCE(sku_name, ''),
		       attributes, price, quantity, COALESCE(remark, '')
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		var attrs []byte
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.SkuID, &item.SkuName,
			&attrs, &item.Price, &item.Quantity, &item.Remark); err != nil {
			return nil, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &item.Attributes); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) ListTableOrders(storeID, tableID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(`
		SELECT id, order_no, store_id, table_id, COALESCE(table_no, ''), total_amount,
		       status, COALESCE(remark, ''), people_count, created_at
		FROM orders
		WHERE store_id = $1 AND table_id = $2
		ORDER BY created_at DESC`, storeID, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.OrderNo, &order.StoreID, &order.TableID, &order.TableNo,
			&order.TotalAmount, &order.Status, &order.Remark, &order.PeopleCount, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.listOrderItems(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *Repository) AddOrderItems(orderID int64, items []domain.OrderItem) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	added := 0.0
	for _, item := range items {
		attrs, err := json.Marshal(item.Attributes)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, product_name, sku_id, sku_name, attributes, price, quantity, remark)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			orderID, item.ProductID, item.ProductName, item.SkuID, item.SkuName,
			attrs, item.Price, item.Quantity, item.Remark); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		added += item.Price * float64(item.Quantity)
	}

	result, err := tx.Exec(`UPDATE orders SET total_amount = total_amount + $1 WHERE id = $2`, added, orderID)
	if err != nil {
		return fmt.Errorf("update order total: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}
