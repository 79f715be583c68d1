package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/folio/internal/client"
	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printResolution(w io.Writer, res *client.Resolution) {
	p := res.Portfolio
	fmt.Fprintf(w, "Code:        %s\n", res.Code)
	fmt.Fprintf(w, "Name:        %s\n", ui.RenderAccent(p.Name))
	if p.Summary != "" {
		fmt.Fprintf(w, "Summary:     %s\n", p.Summary)
	}
	if p.Email != "" {
		fmt.Fprintf(w, "Email:       %s\n", p.Email)
	}
	fmt.Fprintf(w, "Experience:  %d\n", len(p.Experience))
	fmt.Fprintf(w, "Projects:    %d\n", len(p.Project))
	fmt.Fprintf(w, "Education:   %d\n", len(p.Education))
	if len(p.Certifications) > 0 {
		fmt.Fprintf(w, "Certs:       %s\n", strings.Join(p.Certifications, ", "))
	}
	fmt.Fprintf(w, "Views left:  %s\n", ui.RenderMuted(fmt.Sprint(res.AvailableViews)))
}

func printSummaryTable(w io.Writer, rows []model.PortfolioSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tVIEWS\tLIMIT\tUPDATED")
	for _, r := range rows {
		name := r.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		updated := ""
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.Code, name, r.ViewCount, r.ViewLimit, updated)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d portfolios\n", len(rows))
	return err
}
