package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/folio/internal/config"
	foliosync "github.com/alfredjeanlab/folio/internal/sync"
)

var exportCmd = &cobra.Command{
	Use:               "export",
	Short:             "Write every portfolio as JSONL",
	GroupID:           "system",
	Args:              cobra.NoArgs,
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		output, _ := cmd.Flags().GetString("output")
		if output == "" || output == "-" {
			return foliosync.ExportJSONL(cmd.Context(), st, cmd.OutOrStdout())
		}

		var buf bytes.Buffer
		if err := foliosync.ExportJSONL(cmd.Context(), st, &buf); err != nil {
			return err
		}
		dest := foliosync.NewFileDestination(output)
		if err := dest.Write(cmd.Context(), buf.Bytes()); err != nil {
			return err
		}
		logger.Info("export written", "dest", dest.Name(), "bytes", buf.Len())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
}
