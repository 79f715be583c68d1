package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/folio/internal/config"
	"github.com/alfredjeanlab/folio/internal/store"
	foliosync "github.com/alfredjeanlab/folio/internal/sync"
	"github.com/alfredjeanlab/folio/internal/ui"
)

var seedCmd = &cobra.Command{
	Use:               "seed <file>",
	Short:             "Load a fixture or JSONL export into the database",
	Long:              "Load portfolios into FOLIO_DATABASE_URL. Fixtures may be JSON, YAML or TOML; .jsonl files are folio export output.",
	GroupID:           "system",
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("seed needs FOLIO_DATABASE_URL; the in-memory store loads FOLIO_FIXTURE at startup")
		}
		logger := newLogger(cfg.LogLevel)

		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := seedStore(cmd, st, args[0], cfg.ViewLimit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d portfolios from %s\n", ui.RenderOK("seeded"), n, args[0])
		return nil
	},
}

// seedStore writes every record in path to st. Fixture profiles without a
// view limit get defaultLimit.
func seedStore(cmd *cobra.Command, st store.Store, path string, defaultLimit int) (int, error) {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		return foliosync.ImportJSONL(cmd.Context(), st, bytes.NewReader(data))
	}

	f, err := store.LoadFixture(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range f.Records() {
		if rec.ViewLimit == 0 {
			rec.ViewLimit = defaultLimit
		}
		if err := st.PutPortfolio(cmd.Context(), rec); err != nil {
			return n, fmt.Errorf("seed %s: %w", rec.Code, err)
		}
		n++
	}
	return n, nil
}
