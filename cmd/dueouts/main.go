// Command dueouts prints the open orders due out in a date window.
//
//	dueouts -start 2026-10-01 -end 2026-10-07
//
// Dates are YYYY-MM-DD and both are optional. Database settings come from
// the same environment as the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kendall-kelly/printshop-orders/config"
	"github.com/kendall-kelly/printshop-orders/logger"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/repositories"
	"github.com/kendall-kelly/printshop-orders/services"
	"github.com/kendall-kelly/printshop-orders/validation"
	"github.com/olekukonko/tablewriter"
)

func main() {
	var (
		start = flag.String("start", "", "first due-out date (YYYY-MM-DD)")
		end   = flag.String("end", "", "last due-out date (YYYY-MM-DD)")
	)
	flag.Parse()

	if err := run(context.Background(), *start, *end, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "dueouts:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, start, end string, w io.Writer) error {
	from, err := validation.ParseDate(start)
	if err != nil {
		return fmt.Errorf("-start: %w", err)
	}
	to, err := validation.ParseDate(end)
	if err != nil {
		return fmt.Errorf("-end: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	if err := config.ConnectDatabase(cfg); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	db := config.GetDB()

	orders := services.NewOrderService(
		repositories.NewOrderRepository(db, log),
		repositories.NewCustomerRepository(db, log),
		log,
	)
	due, err := orders.GetDueouts(ctx, from, to)
	if err != nil {
		return err
	}
	return renderDueouts(w, due)
}

// renderDueouts writes orders as a table. Rush orders get a "*" in the RUSH
// column.
func renderDueouts(w io.Writer, orders []models.Order) error {
	table := tablewriter.NewWriter(w)
	table.Header("LOG#", "CUST", "TITLE", "TYPE", "DUE OUT", "RUSH", "QTY")

	for _, o := range orders {
		row := []string{
			o.Log,
			o.Cust,
			o.Title,
			stringOrDash(o.Logtype),
			"-",
			"",
			"-",
		}
		if o.Dueout != nil {
			row[4] = o.Dueout.Format(validation.DateLayout)
		}
		if o.Rush {
			row[5] = "*"
		}
		if o.PrintN != nil {
			row[6] = strconv.FormatFloat(*o.PrintN, 'f', -1, 64)
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d order(s) due out\n", len(orders))
	return err
}

func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
