package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/folio/internal/client"
	"github.com/alfredjeanlab/folio/internal/ui"
)

var (
	apiURL     string
	apiToken   string
	jsonOutput bool

	folioClient client.PortfolioClient
)

func defaultAPIURL() string {
	if s := os.Getenv("FOLIO_API_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://127.0.0.1:5000"
}

func defaultToken() string {
	if s := os.Getenv("FOLIO_AUTH_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

// noClient overrides the root PersistentPreRunE for commands that run
// servers or only touch local files.
func noClient(cmd *cobra.Command, args []string) error {
	ui.ConfigureColor()
	return nil
}

var rootCmd = &cobra.Command{
	Use:           "folio <command>",
	Short:         "Access-code portfolio service and viewers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.ConfigureColor()
		folioClient = client.NewHTTPClient(apiURL, apiToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if folioClient != nil {
			folioClient.Close()
		}
	},
}

// newLogger returns the text logger every long-running command writes to.
func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultAPIURL(), "portfolio service URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", defaultToken(), "admin bearer token")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "portfolios", Title: "Portfolios:"},
		&cobra.Group{ID: "viewers", Title: "Viewers:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Portfolios
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(codeCmd)

	// Viewers
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(walkCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError("Error:"), err)
		os.Exit(1)
	}
}
