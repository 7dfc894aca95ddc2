// Command seed-orders loads sample orders into the database for local
// development. Each entry creates one Pending order; customers that already
// have a pending order are skipped.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopcart-api/internal/domain/order"
	"github.com/xenking/shopcart-api/internal/storage/postgres"
)

type orderJSON struct {
	Customer struct {
		CustomerID int    `json:"customerId"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Address    struct {
			Street  string `json:"street"`
			City    string `json:"city"`
			ZipCode string `json:"zipCode"`
		} `json:"address"`
	} `json:"customer"`
	Products []struct {
		ID    int             `json:"id"`
		Title string          `json:"title"`
		Price decimal.Decimal `json:"price"`
	} `json:"products"`
}

func main() {
	var (
		databaseURL string
		ordersFile  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&ordersFile, "orders-file", "db/seed/orders.json", "path to orders JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, ordersFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, ordersFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return seedOrders(ctx, postgres.NewOrderRepository(pool), ordersFile)
}

func seedOrders(ctx context.Context, repo order.Repository, ordersFile string) error {
	slog.Info("reading orders file", slog.String("path", ordersFile))

	data, err := os.ReadFile(ordersFile)
	if err != nil {
		return errors.Wrap(err, "read orders file")
	}

	var entries []orderJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrap(err, "parse orders JSON")
	}

	slog.Info("creating orders", slog.Int("count", len(entries)))

	for _, e := range entries {
		total := decimal.Zero
		for _, p := range e.Products {
			total = total.Add(p.Price)
		}

		o := &order.Order{
			Customer: order.Customer{
				ID:        e.Customer.CustomerID,
				FirstName: e.Customer.FirstName,
				LastName:  e.Customer.LastName,
				Email:     e.Customer.Email,
				Phone:     e.Customer.Phone,
				Address: order.Address{
					Street:  e.Customer.Address.Street,
					City:    e.Customer.Address.City,
					ZipCode: e.Customer.Address.ZipCode,
				},
			},
			ProductCount:   len(e.Products),
			ProductSummary: fmt.Sprintf("Order with %d products", len(e.Products)),
			Total:          total.Round(2),
			Status:         order.StatusPending,
		}

		if err := repo.Save(ctx, o); err != nil {
			if errors.Is(err, order.ErrPendingExists) {
				slog.Info("skipping customer with pending order", slog.Int("customer_id", e.Customer.CustomerID))
				continue
			}
			return errors.Wrapf(err, "save order for customer %d", e.Customer.CustomerID)
		}

		slog.Info("created order",
			slog.Int64("id", o.ID),
			slog.Int("customer_id", o.Customer.ID),
			slog.String("total", o.Total.StringFixed(2)),
		)
	}

	return nil
}
