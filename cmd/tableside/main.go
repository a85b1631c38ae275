package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"tableside/config"
	"tableside/internal/cart"
	"tableside/internal/domain"
	"tableside/internal/feedback"
	"tableside/internal/httpclient"
	"tableside/internal/localstore"
	"tableside/internal/order"
	"tableside/internal/session"
)

// Each invocation rebuilds the stores from local storage, runs one action
// and exits; the durable file carries the session and cart across runs the
// way a page reload would.
type app struct {
	session *session.Store
	cart    *cart.Store
	orders  *order.Store
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	storage, err := localstore.NewFileStore(config.LocalStorePath())
	if err != nil {
		log.Fatal("Failed to open local store:", err)
	}

	reporter := feedback.NewLogReporter("tableside")
	client := httpclient.NewClient(config.APIBaseURL(), storage, reporter)

	sessionStore := session.NewStore(client, storage, reporter)
	cartStore := cart.NewStore(client, sessionStore, storage, reporter)
	orderStore := order.NewStore(client, sessionStore, cartStore, reporter)

	a := &app{session: sessionStore, cart: cartStore, orders: orderStore}
	ctx := context.Background()

	if err := a.run(ctx, args); err != nil {
		log.Fatal(err)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	if cmd == "scan" {
		if len(rest) != 1 {
			return errors.New("usage: tableside scan <qr-url>")
		}
		storeID, tableID, err := parseScanURL(rest[0])
		if err != nil {
			return err
		}
		if err := a.session.Init(ctx, storeID, tableID); err != nil {
			return err
		}
		fmt.Printf("Seated at %s, table %s\n", a.session.StoreName(), a.session.TableNo())
		return nil
	}

	// Everything else expects a live session and the saved cart.
	if err := a.session.Restore(ctx); err != nil {
		return fmt.Errorf("no active session, scan a table code first: %w", err)
	}
	if err := a.cart.RestoreFromLocal(); err != nil {
		log.Printf("[tableside] could not restore saved cart: %v", err)
	}

	switch cmd {
	case "menu":
		return a.printMenu()
	case "add":
		return a.addToCart(ctx, rest)
	case "remove":
		if len(rest) != 1 {
			return errors.New("usage: tableside remove <item-key>")
		}
		return a.cart.Remove(ctx, rest[0])
	case "cart":
		return a.printCart()
	case "pull":
		if err := a.cart.FetchFromServer(ctx); err != nil {
			return err
		}
		return a.printCart()
	case "clear":
		return a.cart.Clear(ctx)
	case "submit":
		return a.submit(ctx, rest)
	case "orders":
		return a.printOrders(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseScanURL(raw string) (storeID, tableID int64, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid QR url: %w", err)
	}
	storeID, err = strconv.ParseInt(u.Query().Get("store_id"), 10, 64)
	if err != nil {
		return 0, 0, errors.New("QR url is missing store_id")
	}
	tableID, err = strconv.ParseInt(u.Query().Get("table_id"), 10, 64)
	if err != nil {
		return 0, 0, errors.New("QR url is missing table_id")
	}
	return storeID, tableID, nil
}

func (a *app) printMenu() error {
	for _, category := range a.session.Categories() {
		fmt.Printf("== %s ==\n", category.Name)
		for _, product := range a.session.ProductsByCategory(category.ID) {
			fmt.Printf("  [%d] %s  %.2f\n", product.ID, product.Name, product.Price)
			for _, sku := range product.Skus {
				fmt.Printf("      - sku %d %s  %.2f\n", sku.ID, sku.Name, sku.Price)
			}
		}
	}
	return nil
}

func (a *app) addToCart(ctx context.Context, rest []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	skuID := fs.Int64("sku", 0, "sku id")
	qty := fs.Int("qty", 1, "quantity")
	remark := fs.String("remark", "", "line remark")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: tableside add <product-id> [-sku id] [-qty n]")
	}
	productID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}

	product, sku, err := a.findProduct(productID, *skuID)
	if err != nil {
		return err
	}
	if err := a.cart.Add(ctx, *product, sku, nil, *qty, *remark); err != nil {
		return err
	}
	fmt.Printf("Added %s x%d, cart total %.2f\n", product.Name, *qty, a.cart.TotalPrice())
	return nil
}

func (a *app) findProduct(productID, skuID int64) (*domain.Product, *domain.Sku, error) {
	for _, category := range a.session.Categories() {
		for _, product := range a.session.ProductsByCategory(category.ID) {
			if product.ID != productID {
				continue
			}
			if skuID == 0 {
				return &product, nil, nil
			}
			for _, sku := range product.Skus {
				if sku.ID == skuID {
					return &product, &sku, nil
				}
			}
			return nil, nil, fmt.Errorf("product %d has no sku %d", productID, skuID)
		}
	}
	return nil, nil, fmt.Errorf("product %d is not on the menu", productID)
}

func (a *app) printCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("Cart is empty")
		return nil
	}
	for _, item := range items {
		name := item.ProductName
		if item.SkuName != "" {
			name += " (" + item.SkuName + ")"
		}
		fmt.Printf("  %-12s %s x%d  %.2f\n", item.ItemKey, name, item.Quantity,
			item.Price*float64(item.Quantity))
	}
	fmt.Printf("Total: %d items, %.2f\n", a.cart.TotalCount(), a.cart.TotalPrice())
	return nil
}

func (a *app) submit(ctx context.Context, rest []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	remark := fs.String("remark", "", "order remark")
	people := fs.Int("people", 0, "party size")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	created, err := a.orders.Submit(ctx, order.SubmitOptions{Remark: *remark, PeopleCount: *people})
	if err != nil {
		return err
	}
	fmt.Printf("Order %s placed, total %.2f\n", created.OrderNo, created.TotalAmount)
	return nil
}

func (a *app) printOrders(ctx context.Context) error {
	if err := a.orders.FetchOrders(ctx); err != nil {
		return err
	}
	for _, o := range a.orders.Orders() {
		fmt.Printf("  #%s  %-10s  %.2f  (%d items)\n", o.OrderNo, o.Status, o.TotalAmount, len(o.Items))
	}
	if a.orders.HasActiveOrder() {
		fmt.Println("You have an order in progress")
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `tableside — scan-to-order client

commands:
  scan <qr-url>                     start a table session from a scanned code
  menu                              show the menu
  add <product-id> [-sku] [-qty]    add a product to the cart
  remove <item-key>                 remove a cart line
  cart                              show the cart
  pull                              replace the cart with the table's shared copy
  clear                             empty the cart
  submit [-remark] [-people]        place the order
  orders                            list this table's orders`)
}
