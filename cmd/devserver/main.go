package main

import (
	"database/sql"
	"flag"
	"log"
	"time"

	"tableside/config"
	"tableside/internal/server/httpapi"
	"tableside/internal/server/service"
	"tableside/internal/server/storage"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	baseURL := flag.String("base-url", "http://localhost:8080", "public base URL encoded into table QR codes")
	seed := flag.Bool("seed", false, "insert demo menu data and exit")
	flag.Parse()

	db := config.MustInitPostgres()
	defer db.Close()

	if err := storage.EnsureSchema(db); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	if *seed {
		if err := seedDemoData(db); err != nil {
			log.Fatal("Failed to seed demo data:", err)
		}
		log.Println("[devserver] demo data seeded")
		return
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	repo := storage.NewRepository(db)
	cartCache := storage.NewRedisCartCache(rdb, 24*time.Hour)

	var publisher service.EventPublisher
	if writer := config.NewKafkaWriter("orders"); writer != nil {
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		log.Println("[devserver] KAFKA_BROKER not set, order events disabled")
	}

	handler := httpapi.NewHandler(
		service.NewMenuService(repo, service.DefaultQRGenerator{BaseURL: *baseURL}),
		service.NewCartService(cartCache),
		service.NewOrderService(repo, cartCache, publisher),
	)

	httpapi.StartServer(*addr, httpapi.NewRouter(handler))
}

func seedDemoData(db *sql.DB) error {
	statements := []string{
		`INSERT INTO stores (name, address, description) VALUES
			('Demo Teahouse', '1 Demo Street', 'Scan-to-order demo store')`,
		`INSERT INTO tables (store_id, table_no, seats) VALUES
			(1, 'A1', 4), (1, 'A2', 2)`,
		`INSERT INTO categories (store_id, name, sort) VALUES
			(1, 'Tea', 1), (1, 'Snacks', 2)`,
		`INSERT INTO products (category_id, name, description, price, skus) VALUES
			(1, 'Jasmine Tea', 'Fragrant green tea', 12.50,
			 '[{"id":1,"name":"Small","price":12.50},{"id":2,"name":"Large","price":16.00}]'),
			(1, 'Oolong Tea', 'Roasted oolong', 14.00, NULL),
			(2, 'Egg Tart', 'Baked daily', 8.00, NULL)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
