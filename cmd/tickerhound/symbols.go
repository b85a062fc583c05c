package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sharanyeole/tickerhound/internal/config"
	"github.com/sharanyeole/tickerhound/internal/store"
	"github.com/sharanyeole/tickerhound/internal/symbols"
)

var validateSymbols bool

// symbolsCmd creates the "symbols" subcommand.
func symbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols [mapping-file-or-url]",
		Short: "Back-fill ticker symbols from a company-to-symbol mapping",
		Long: `Apply a {"company name": "SYMBOL"} JSON mapping to the store. The
mapping can be a local file or an http(s) URL. Entries mapped to
"Not listed" are skipped; with --validate each symbol is checked
against a quote API before being written.`,
		Args: cobra.ExactArgs(1),
		RunE: runSymbols,
	}

	cmd.Flags().BoolVar(&validateSymbols, "validate", false, "validate symbols against a quote API before writing")

	return cmd
}

func runSymbols(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if validateSymbols {
		cfg.Symbols.Validate = true
	}

	logger := setupLogger(&cfg.Logging)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.NewMongoStore(&cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer st.Close(context.Background())

	resolver := symbols.NewResolver(st, &cfg.Symbols, logger)

	mapping, err := resolver.LoadMapping(ctx, source)
	if err != nil {
		return err
	}

	sum, err := resolver.Run(ctx, mapping)
	if sum != nil {
		fmt.Printf("\nSymbol backfill: %d updated, %d missing, %d skipped, %d invalid\n",
			sum.Updated, sum.Missing, sum.Skipped, sum.Invalid)
	}
	return err
}
