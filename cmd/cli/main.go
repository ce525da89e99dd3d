package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/ledger-sync/internal/config"
	"github.com/dvloznov/ledger-sync/internal/domain"
	"github.com/dvloznov/ledger-sync/internal/ledgersync"
	"github.com/dvloznov/ledger-sync/internal/logger"
	"github.com/dvloznov/ledger-sync/internal/remote"
	"github.com/dvloznov/ledger-sync/internal/store"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "fetch":
		runFetch(log)
	case "create":
		runCreate(log)
	case "update":
		runUpdate(log)
	case "delete":
		runDelete(log)
	case "show":
		runShow(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Ledger Sync CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  fetch     Mirror a date range of transactions from the remote ledger")
	fmt.Println("  create    Create a transaction on the remote ledger")
	fmt.Println("  update    Replace a transaction on the remote ledger")
	fmt.Println("  delete    Delete a transaction from the remote ledger")
	fmt.Println("  show      Print the locally cached transactions")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nConfiguration comes from the environment (or a .env file):")
	fmt.Println("  LEDGER_BASE_URL, LEDGER_TOKEN, LEDGER_SNAPSHOT, LEDGER_TIMEOUT, LEDGER_FIXTURE")
}

// setup loads configuration, selects the ledger backend and restores the
// last snapshot into the cache.
func setup(ctx context.Context, log zerolog.Logger) *ledgersync.Service {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	var ledger remote.LedgerService
	if cfg.UseFixture {
		ledger = seededFixture()
		log.Info().Msg("Using in-memory fixture backend")
	} else {
		client, err := remote.NewClient(cfg.BaseURL, cfg.Token, cfg.RequestTimeout, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create ledger client")
		}
		ledger = client
	}

	svc := ledgersync.NewService(ledger, ledger, store.NewTransactionStore(), cfg.SnapshotPath)
	if err := svc.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not restore snapshot, starting empty")
	}
	return svc
}

// seededFixture builds the demo backend with one account and a pair of
// categories so every command has something to work against.
func seededFixture() *remote.Fixture {
	return remote.NewFixture(
		[]domain.Account{
			{ID: 1, Name: "Checking", Balance: decimal.RequireFromString("1000.00"), Currency: "USD"},
		},
		[]domain.Category{
			{ID: 1, Name: "Salary", Emoji: '💰', IsIncome: true},
			{ID: 2, Name: "Groceries", Emoji: '🛒', IsIncome: false},
		},
	)
}

func runFetch(log zerolog.Logger) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	accountID := fs.Int("account", 0, "Account ID (required)")
	startStr := fs.String("start-date", "", "Start date in YYYY-MM-DD format (defaults to today)")
	endStr := fs.String("end-date", "", "End date in YYYY-MM-DD format (defaults to today)")
	fs.Parse(os.Args[2:])

	if *accountID == 0 {
		log.Fatal().Msg("Error: --account is required")
	}

	start := parseDateOr(log, *startStr, time.Now())
	end := parseDateOr(log, *endStr, time.Now())
	if end.Before(start) {
		log.Fatal().
			Time("start_date", start).
			Time("end_date", end).
			Msg("Error: end-date must not be before start-date")
	}

	ctx, cancel := newContext(log)
	defer cancel()
	svc := setup(ctx, log)

	transactions, err := svc.Fetch(ctx, *accountID, domain.StartOfDay(start), domain.EndOfDay(end))
	if err != nil {
		// Loss of connectivity keeps the last cached range visible.
		log.Error().Err(err).Msg("Fetch failed, serving cached transactions")
		transactions = svc.Cached()
	}
	printTransactions(log, transactions)
}

func runCreate(log zerolog.Logger) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	accountID := fs.Int("account", 0, "Account ID (required)")
	categoryID := fs.Int("category", 0, "Category ID (required)")
	amountStr := fs.String("amount", "", "Amount as a decimal string (required)")
	dateStr := fs.String("date", "", "Transaction date in YYYY-MM-DD format (defaults to today)")
	comment := fs.String("comment", "", "Optional comment")
	fs.Parse(os.Args[2:])

	ctx, cancel := newContext(log)
	defer cancel()
	svc := setup(ctx, log)

	tx, err := svc.Create(ctx, buildRequest(log, *accountID, *categoryID, *amountStr, *dateStr, *comment))
	if err != nil {
		log.Fatal().Err(err).Msg("Create failed")
	}
	fmt.Printf("Created transaction %d\n", tx.ID)
}

func runUpdate(log zerolog.Logger) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.Int("id", 0, "Transaction ID (required)")
	accountID := fs.Int("account", 0, "Account ID (required)")
	categoryID := fs.Int("category", 0, "Category ID (required)")
	amountStr := fs.String("amount", "", "Amount as a decimal string (required)")
	dateStr := fs.String("date", "", "Transaction date in YYYY-MM-DD format (defaults to today)")
	comment := fs.String("comment", "", "Optional comment")
	fs.Parse(os.Args[2:])

	if *id == 0 {
		log.Fatal().Msg("Error: --id is required")
	}

	ctx, cancel := newContext(log)
	defer cancel()
	svc := setup(ctx, log)

	tx, err := svc.Update(ctx, *id, buildRequest(log, *accountID, *categoryID, *amountStr, *dateStr, *comment))
	if err != nil {
		log.Fatal().Err(err).Msg("Update failed")
	}
	fmt.Printf("Updated transaction %d\n", tx.ID)
}

func runDelete(log zerolog.Logger) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int("id", 0, "Transaction ID (required)")
	fs.Parse(os.Args[2:])

	if *id == 0 {
		log.Fatal().Msg("Error: --id is required")
	}

	ctx, cancel := newContext(log)
	defer cancel()
	svc := setup(ctx, log)

	if err := svc.Delete(ctx, *id); err != nil {
		log.Fatal().Err(err).Msg("Delete failed")
	}
	fmt.Printf("Deleted transaction %d\n", *id)
}

func runShow(log zerolog.Logger) {
	ctx, cancel := newContext(log)
	defer cancel()
	svc := setup(ctx, log)

	printTransactions(log, svc.Cached())
}

func buildRequest(log zerolog.Logger, accountID, categoryID int, amountStr, dateStr, comment string) remote.TransactionRequest {
	if accountID == 0 {
		log.Fatal().Msg("Error: --account is required")
	}
	if categoryID == 0 {
		log.Fatal().Msg("Error: --category is required")
	}
	if amountStr == "" {
		log.Fatal().Msg("Error: --amount is required")
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		log.Fatal().Err(err).Str("amount", amountStr).Msg("Error: invalid amount")
	}
	if amount.IsNegative() {
		log.Fatal().Str("amount", amountStr).Msg("Error: amount must be a non-negative magnitude")
	}

	req := remote.TransactionRequest{
		AccountID:       accountID,
		CategoryID:      categoryID,
		Amount:          amount,
		TransactionDate: domain.NewTimestamp(parseDateOr(log, dateStr, time.Now())),
	}
	if comment != "" {
		req.Comment = &comment
	}
	return req
}

func parseDateOr(log zerolog.Logger, raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		log.Fatal().Err(err).Str("date", raw).Msg("Error: invalid date format, expected YYYY-MM-DD")
	}
	return parsed
}

func newContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	return logger.WithContext(ctx, log), cancel
}

func printTransactions(log zerolog.Logger, transactions []domain.Transaction) {
	data, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render transactions")
	}
	fmt.Println(string(data))
}
