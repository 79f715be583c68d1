package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/folio/internal/client"
	"github.com/alfredjeanlab/folio/internal/idgen"
	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/ui"
)

var resolveCmd = &cobra.Command{
	Use:     "resolve <code>",
	Short:   "Resolve an access code (counts as a view)",
	GroupID: "portfolios",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := model.ValidateCode(args[0]); err != nil {
			return err
		}
		res, err := folioClient.Resolve(cmd.Context(), args[0])
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("%s: access code not found", args[0])
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		printResolution(cmd.OutOrStdout(), res)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List portfolios with their view counts",
	GroupID: "portfolios",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := folioClient.ListPortfolios(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		return printSummaryTable(cmd.OutOrStdout(), resp.Portfolios)
	},
}

var putCmd = &cobra.Command{
	Use:     "put <code> <file>",
	Short:   "Create or replace the portfolio behind a code",
	Long:    "Create or replace the portfolio behind a code. The file is JSON, YAML or TOML, chosen by extension; '-' reads JSON from stdin.",
	GroupID: "portfolios",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, path := args[0], args[1]
		if err := model.ValidateCode(code); err != nil {
			return err
		}
		p, err := readPortfolioFile(path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := model.ValidatePortfolio(p); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("view-limit")

		rec, err := folioClient.PutPortfolio(cmd.Context(), code, &client.PutPortfolioRequest{
			Portfolio: p,
			ViewLimit: limit,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), rec.Summary())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %d views left)\n",
			ui.RenderOK("saved"), rec.Code, rec.Portfolio.Name, rec.AvailableViews())
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <code>",
	Short:   "Delete the portfolio behind a code",
	GroupID: "portfolios",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := folioClient.DeletePortfolio(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", model.NormalizeCode(args[0]))
		return nil
	},
}

var codeCmd = &cobra.Command{
	Use:               "code",
	Short:             "Generate a fresh access code",
	GroupID:           "portfolios",
	Args:              cobra.NoArgs,
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		for range n {
			code, err := idgen.Code()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
		}
		return nil
	},
}

func init() {
	putCmd.Flags().Int("view-limit", 0, "views granted to the code (0 keeps the service default)")
	codeCmd.Flags().IntP("count", "n", 1, "number of codes to generate")
}

// readPortfolioFile decodes a portfolio document. The format follows the file
// extension; stdin ("-") is JSON.
func readPortfolioFile(path string, stdin io.Reader) (*model.Portfolio, error) {
	var (
		data []byte
		err  error
		ext  = strings.ToLower(filepath.Ext(path))
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
		ext = ".json"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}

	var p model.Portfolio
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	case ".toml":
		_, err = toml.Decode(string(data), &p)
	default:
		return nil, fmt.Errorf("unsupported portfolio format %q (use .json, .yaml or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}
