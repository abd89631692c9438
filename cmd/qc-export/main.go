package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/premdoors/qc-tracker/internal/common"
	"github.com/premdoors/qc-tracker/internal/export"
	"github.com/premdoors/qc-tracker/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem = flag.Bool("inmem", false, "use in-memory SQLite database")
		out   = flag.String("out", "qc-report.xlsx", "output XLSX file path")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()
	cfg := common.LoadConfig()

	var (
		repo repository.JobRepository
		err  error
	)
	switch {
	case *inmem:
		repo, err = repository.OpenSQLite(ctx, ":memory:", logger)
	case cfg.Database.DSN != "":
		pool, perr := repository.Open(ctx, cfg.Database, logger)
		if perr != nil {
			printError("Error: open database: %v\n", perr)
			os.Exit(1)
		}
		defer pool.Close()
		repo, err = repository.NewPostgresJobRepository(ctx, pool, logger)
	case cfg.Database.SQLitePath != "":
		repo, err = repository.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
	default:
		printError("Error: one of DB_URL or SQLITE_PATH is required (or pass -inmem)\n")
		os.Exit(1)
	}
	if err != nil {
		printError("Error: open jobs store: %v\n", err)
		os.Exit(1)
	}

	data, err := export.NewService(repo, logger).ExportJobsXLSX(ctx)
	if err != nil {
		printError("Error: export: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		printError("Error: write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, len(data))
}
